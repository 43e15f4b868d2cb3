package services

import (
	"context"
	"iter"

	"golang.org/x/oauth2"
)

// Catalog defines the read-only surface of the upstream music catalog
// consumed by the extraction pipeline.
//
// Any call may fail with an error wrapping shared.ErrUpstreamTransient
// (rate limit, network, 5xx — retry with backoff) or
// shared.ErrUpstreamNotFound (skip the entity and continue the run).
type Catalog interface {
	// Authenticate performs authentication with the service using the
	// provided credential map.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// UserPlaylists returns the authenticated user's playlists as a
	// finite, internally paginated sequence. Each call restarts from the
	// first page.
	UserPlaylists(ctx context.Context) iter.Seq2[PlaylistSummary, error]

	// PlaylistTracks returns the track references of a playlist as a
	// finite, internally paginated sequence.
	PlaylistTracks(ctx context.Context, playlistID string) iter.Seq2[TrackRef, error]

	// Album retrieves a full album record by ID.
	Album(ctx context.Context, albumID string) (*AlbumRecord, error)

	// Artist retrieves a full artist record by ID.
	Artist(ctx context.Context, artistID string) (*ArtistRecord, error)

	// Name returns the name of the service (e.g., "Spotify")
	Name() string
}

// OAuthService is implemented by catalogs that authenticate through an
// OAuth2 authorization-code flow.
type OAuthService interface {
	Catalog

	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the OAuth2 config for the callback server.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs a previously issued token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}

// PlaylistSummary is a playlist as it appears in the user's playlist
// listing.
type PlaylistSummary struct {
	ID         string
	Name       string
	Owner      string
	TrackCount int
}

// TrackRef is a track as it appears inside a playlist, carrying the IDs
// needed to resolve its album and artist.
//
// Name is nil when the upstream API returns a null track name; the
// pipeline passes the null through unchanged.
type TrackRef struct {
	ID         string
	Name       *string
	AlbumID    string
	Popularity int
	DurationMS int
	Explicit   bool
}

// AlbumRecord is a full album record.
type AlbumRecord struct {
	ID          string
	Name        string
	ReleaseDate string
	ArtistID    string
	ArtistName  string
}

// ArtistRecord is a full artist record.
type ArtistRecord struct {
	ID     string
	Name   string
	Genres []string
}
