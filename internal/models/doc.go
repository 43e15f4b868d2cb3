// package models defines the catalog entities persisted by the
// extraction pipeline: artists, albums, tracks, playlists, and playlist
// membership rows.
//
// Entity identifiers are the opaque external IDs assigned by Spotify and
// are treated as immutable once observed.
package models
