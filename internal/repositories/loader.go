package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotex/internal/models"
)

// LoadStats reports how many rows a batch load actually inserted.
// Re-running a load against the same data yields all zeros.
type LoadStats struct {
	Artists        int
	Albums         int
	Tracks         int
	Playlists      int
	PlaylistTracks int
}

// Total returns the number of rows inserted across all tables.
func (s LoadStats) Total() int {
	return s.Artists + s.Albums + s.Tracks + s.Playlists + s.PlaylistTracks
}

// Add accumulates another batch's insert counts into s.
func (s *LoadStats) Add(other LoadStats) {
	s.Artists += other.Artists
	s.Albums += other.Albums
	s.Tracks += other.Tracks
	s.Playlists += other.Playlists
	s.PlaylistTracks += other.PlaylistTracks
}

// Loader applies extraction batches to storage in foreign-key dependency
// order: artists, then albums, then tracks, then playlists, then
// playlist membership.
type Loader struct {
	artists   *ArtistRepository
	albums    *AlbumRepository
	tracks    *TrackRepository
	playlists *PlaylistRepository
}

// NewLoader creates a Loader over the given database connection.
func NewLoader(db *sql.DB) *Loader {
	return &Loader{
		artists:   NewArtistRepository(db),
		albums:    NewAlbumRepository(db),
		tracks:    NewTrackRepository(db),
		playlists: NewPlaylistRepository(db),
	}
}

// Load applies a batch with insert-if-absent semantics. Any error aborts
// the load: a wrapped shared.ErrIntegrity in particular means the
// pipeline emitted rows out of dependency order.
func (l *Loader) Load(batch *models.Batch) (*LoadStats, error) {
	stats := &LoadStats{}

	for _, artist := range batch.Artists {
		inserted, err := l.artists.Upsert(artist)
		if err != nil {
			return stats, fmt.Errorf("load artists: %w", err)
		}
		if inserted {
			stats.Artists++
		}
	}

	for _, album := range batch.Albums {
		inserted, err := l.albums.Upsert(album)
		if err != nil {
			return stats, fmt.Errorf("load albums: %w", err)
		}
		if inserted {
			stats.Albums++
		}
	}

	for _, track := range batch.Tracks {
		inserted, err := l.tracks.Upsert(track)
		if err != nil {
			return stats, fmt.Errorf("load tracks: %w", err)
		}
		if inserted {
			stats.Tracks++
		}
	}

	for _, playlist := range batch.Playlists {
		inserted, err := l.playlists.Upsert(playlist)
		if err != nil {
			return stats, fmt.Errorf("load playlists: %w", err)
		}
		if inserted {
			stats.Playlists++
		}
	}

	for _, pt := range batch.PlaylistTracks {
		inserted, err := l.playlists.UpsertMembership(pt)
		if err != nil {
			return stats, fmt.Errorf("load playlist tracks: %w", err)
		}
		if inserted {
			stats.PlaylistTracks++
		}
	}

	return stats, nil
}
