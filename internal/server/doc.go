// package server implements the short-lived local HTTP server used to
// receive the Spotify OAuth2 authorization callback.
//
// The server exists only for the duration of the `spotex auth` command:
// it serves a single /callback request, exchanges the authorization code
// for tokens, reports the result over a channel, and is then shut down.
package server
