package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotex/internal/models"
)

// PlaylistRepository persists [models.Playlist] rows and their
// [models.PlaylistTrack] membership rows.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Upsert inserts the playlist if no row with its ID exists. Existing rows
// are left unchanged. Returns whether a row was inserted.
func (r *PlaylistRepository) Upsert(playlist models.Playlist) (bool, error) {
	if err := playlist.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := rowExists(r.db, "SELECT EXISTS(SELECT 1 FROM playlists WHERE playlist_id = ?)", playlist.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.db.Exec(
		"INSERT INTO playlists (playlist_id, name, owner, num_tracks) VALUES (?, ?, ?, ?)",
		playlist.ID, playlist.Name, playlist.Owner, playlist.NumTracks,
	)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to insert playlist %s", playlist.ID))
	}

	return true, nil
}

// UpsertMembership inserts a (playlist_id, track_id) pair if absent,
// preventing duplicate playlist membership. Returns whether a row was
// inserted.
//
// Both referenced rows must already exist; a foreign key failure
// surfaces as shared.ErrIntegrity.
func (r *PlaylistRepository) UpsertMembership(pt models.PlaylistTrack) (bool, error) {
	if err := pt.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := rowExists(r.db,
		"SELECT EXISTS(SELECT 1 FROM playlist_tracks WHERE playlist_id = ? AND track_id = ?)",
		pt.PlaylistID, pt.TrackID,
	)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.db.Exec(
		"INSERT INTO playlist_tracks (playlist_id, track_id) VALUES (?, ?)",
		pt.PlaylistID, pt.TrackID,
	)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to insert playlist track (%s, %s)", pt.PlaylistID, pt.TrackID))
	}

	return true, nil
}

// Get retrieves a playlist by ID.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	var playlist models.Playlist

	err := r.db.QueryRow(
		"SELECT playlist_id, name, owner, num_tracks FROM playlists WHERE playlist_id = ?", id,
	).Scan(&playlist.ID, &playlist.Name, &playlist.Owner, &playlist.NumTracks)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return &playlist, nil
}

// Count returns the number of playlist rows.
func (r *PlaylistRepository) Count() (int, error) {
	return tableCount(r.db, "playlists")
}

// MembershipCount returns the number of playlist_tracks rows.
func (r *PlaylistRepository) MembershipCount() (int, error) {
	return tableCount(r.db, "playlist_tracks")
}
