// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"

	"github.com/desertthunder/spotex/internal/services"
	"github.com/desertthunder/spotex/internal/shared"
)

// FakeCatalog is an in-memory [services.Catalog] backed by fixed data.
// FailFirst injects transient failures ahead of a successful response,
// keyed by call site ("playlists", "tracks:<id>", "album:<id>",
// "artist:<id>"); lookups absent from the data maps fail as not found.
type FakeCatalog struct {
	Playlists []services.PlaylistSummary
	Tracks    map[string][]services.TrackRef
	Albums    map[string]services.AlbumRecord
	Artists   map[string]services.ArtistRecord

	FailFirst map[string]int
	Calls     map[string]int
}

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Tracks:    make(map[string][]services.TrackRef),
		Albums:    make(map[string]services.AlbumRecord),
		Artists:   make(map[string]services.ArtistRecord),
		FailFirst: make(map[string]int),
		Calls:     make(map[string]int),
	}
}

// fail records the call and reports whether it should fail transiently.
func (f *FakeCatalog) fail(key string) bool {
	f.Calls[key]++
	return f.Calls[key] <= f.FailFirst[key]
}

func (f *FakeCatalog) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (f *FakeCatalog) UserPlaylists(ctx context.Context) iter.Seq2[services.PlaylistSummary, error] {
	return func(yield func(services.PlaylistSummary, error) bool) {
		if f.fail("playlists") {
			yield(services.PlaylistSummary{}, fmt.Errorf("%w: injected", shared.ErrUpstreamTransient))
			return
		}
		for _, summary := range f.Playlists {
			if !yield(summary, nil) {
				return
			}
		}
	}
}

func (f *FakeCatalog) PlaylistTracks(ctx context.Context, playlistID string) iter.Seq2[services.TrackRef, error] {
	return func(yield func(services.TrackRef, error) bool) {
		if f.fail("tracks:" + playlistID) {
			yield(services.TrackRef{}, fmt.Errorf("%w: injected", shared.ErrUpstreamTransient))
			return
		}
		refs, ok := f.Tracks[playlistID]
		if !ok {
			yield(services.TrackRef{}, fmt.Errorf("%w: playlist %s", shared.ErrUpstreamNotFound, playlistID))
			return
		}
		for _, ref := range refs {
			if !yield(ref, nil) {
				return
			}
		}
	}
}

func (f *FakeCatalog) Album(ctx context.Context, albumID string) (*services.AlbumRecord, error) {
	if f.fail("album:" + albumID) {
		return nil, fmt.Errorf("%w: injected", shared.ErrUpstreamTransient)
	}
	album, ok := f.Albums[albumID]
	if !ok {
		return nil, fmt.Errorf("%w: album %s", shared.ErrUpstreamNotFound, albumID)
	}
	return &album, nil
}

func (f *FakeCatalog) Artist(ctx context.Context, artistID string) (*services.ArtistRecord, error) {
	if f.fail("artist:" + artistID) {
		return nil, fmt.Errorf("%w: injected", shared.ErrUpstreamTransient)
	}
	artist, ok := f.Artists[artistID]
	if !ok {
		return nil, fmt.Errorf("%w: artist %s", shared.ErrUpstreamNotFound, artistID)
	}
	return &artist, nil
}

func (f *FakeCatalog) Name() string { return "fake" }

// MockRoundTripper returns a fixed HTTP response for every request
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper serves queued HTTP responses in order, then fails
type SequenceRoundTripper struct {
	responses []*http.Response
}

func NewSequenceRoundTripper(responses ...*http.Response) *SequenceRoundTripper {
	return &SequenceRoundTripper{responses: responses}
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	if len(s.responses) == 0 {
		return nil, errors.New("no responses left in sequence")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return resp, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error { return nil }

var _ io.ReadCloser = (*FCloser)(nil)
var _ services.Catalog = (*FakeCatalog)(nil)
