// Spotify API implementation of [Catalog]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/spotex/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageSize = 50
	trackPageSize    = 100
)

// RateLimitError reports a 429 response along with the wait the server
// advised via the Retry-After header.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return shared.ErrUpstreamTransient
}

type spotifyOwner struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type spotifyPlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Owner  spotifyOwner          `json:"owner"`
	Tracks spotifyPlaylistTracks `json:"tracks"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Genres []string `json:"genres"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
}

// SpotifyTrack represents a Spotify track. Name can be null for local or
// removed tracks; it is preserved as a pointer rather than flattened.
type SpotifyTrack struct {
	ID         string       `json:"id"`
	Name       *string      `json:"name"`
	Album      SpotifyAlbum `json:"album"`
	DurationMS int          `json:"duration_ms"`
	Explicit   bool         `json:"explicit"`
	Popularity int          `json:"popularity"`
}

// SpotifyPlaylistItem represents a track entry within a playlist. Track
// is null for entries Spotify can no longer resolve.
type SpotifyPlaylistItem struct {
	AddedAt string        `json:"added_at"`
	Track   *SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of playlist items.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistItem `json:"items"`
	Total  int                   `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
	Next   *string               `json:"next"`
}

// SpotifyService implements [Catalog] for the Spotify Web API.
// Uses [oauth2] for authentication.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-library-read",
			"playlist-read-private",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
	}, nil
}

// Authenticate installs credentials. Expects an "access_token" (and
// optionally a "refresh_token") in the credential map.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	accessToken, ok := credentials["access_token"]
	if !ok || accessToken == "" {
		return fmt.Errorf("%w: missing access_token", shared.ErrNotAuthenticated)
	}

	token := &oauth2.Token{AccessToken: accessToken}
	if refresh, ok := credentials["refresh_token"]; ok && refresh != "" {
		token.RefreshToken = refresh
	}

	return s.OAuthenticate(ctx, token)
}

// OAuthenticate installs a previously issued OAuth2 token. The HTTP
// client is rebuilt so the oauth2 transport refreshes tokens as needed.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrNotAuthenticated)
	}
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
	return nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback server.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response, classifying failures into the shared error
// taxonomy.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUpstreamTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", shared.ErrUpstreamNotFound, endpoint)
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", shared.ErrUpstreamTransient, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// retryAfter reads the Retry-After header, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return time.Second
}

// UserPlaylists returns the authenticated user's playlists as a finite,
// restartable sequence. Pages of 50 are fetched lazily; iteration stops
// at the first upstream error.
func (s *SpotifyService) UserPlaylists(ctx context.Context) iter.Seq2[PlaylistSummary, error] {
	return func(yield func(PlaylistSummary, error) bool) {
		offset := 0
		for {
			endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", playlistPageSize, offset)

			var page SpotifyPaginatedPlaylists
			if err := s.doRequest(ctx, endpoint, &page); err != nil {
				yield(PlaylistSummary{}, err)
				return
			}

			for _, sp := range page.Items {
				summary := PlaylistSummary{
					ID:         sp.ID,
					Name:       sp.Name,
					Owner:      sp.Owner.DisplayName,
					TrackCount: sp.Tracks.Total,
				}
				if !yield(summary, nil) {
					return
				}
			}

			if page.Next == nil {
				return
			}
			offset += playlistPageSize
		}
	}
}

// PlaylistTracks returns the playlist's track references as a finite,
// restartable sequence. Entries whose track object is null (local or
// removed tracks) are dropped here; they carry nothing to persist.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string) iter.Seq2[TrackRef, error] {
	return func(yield func(TrackRef, error) bool) {
		offset := 0
		for {
			endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", playlistID, trackPageSize, offset)

			var page SpotifyPaginatedTracks
			if err := s.doRequest(ctx, endpoint, &page); err != nil {
				yield(TrackRef{}, err)
				return
			}

			for _, item := range page.Items {
				if item.Track == nil || item.Track.ID == "" {
					continue
				}

				ref := TrackRef{
					ID:         item.Track.ID,
					Name:       item.Track.Name,
					AlbumID:    item.Track.Album.ID,
					Popularity: item.Track.Popularity,
					DurationMS: item.Track.DurationMS,
					Explicit:   item.Track.Explicit,
				}
				if !yield(ref, nil) {
					return
				}
			}

			if page.Next == nil {
				return
			}
			offset += trackPageSize
		}
	}
}

// Album retrieves a full album record by ID. The first listed artist is
// treated as the album's owner.
func (s *SpotifyService) Album(ctx context.Context, albumID string) (*AlbumRecord, error) {
	var album SpotifyAlbum
	endpoint := fmt.Sprintf("/albums/%s", albumID)
	if err := s.doRequest(ctx, endpoint, &album); err != nil {
		return nil, err
	}

	record := &AlbumRecord{
		ID:          album.ID,
		Name:        album.Name,
		ReleaseDate: album.ReleaseDate,
	}
	if len(album.Artists) > 0 {
		record.ArtistID = album.Artists[0].ID
		record.ArtistName = album.Artists[0].Name
	}

	return record, nil
}

// Artist retrieves a full artist record by ID, including genres.
func (s *SpotifyService) Artist(ctx context.Context, artistID string) (*ArtistRecord, error) {
	var artist SpotifyArtist
	endpoint := fmt.Sprintf("/artists/%s", artistID)
	if err := s.doRequest(ctx, endpoint, &artist); err != nil {
		return nil, err
	}

	return &ArtistRecord{
		ID:     artist.ID,
		Name:   artist.Name,
		Genres: artist.Genres,
	}, nil
}
