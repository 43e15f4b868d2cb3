package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotex/internal/models"
)

// TrackRepository persists [models.Track] rows.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

// Upsert inserts the track if no row with its ID exists. Existing rows
// are left unchanged. Returns whether a row was inserted.
//
// A nil Name is stored as NULL; display-time coalescing belongs to the
// query library, not the loader.
func (r *TrackRepository) Upsert(track models.Track) (bool, error) {
	if err := track.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := rowExists(r.db, "SELECT EXISTS(SELECT 1 FROM tracks WHERE track_id = ?)", track.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.db.Exec(
		"INSERT INTO tracks (track_id, name, album_id, popularity, duration_ms, explicit) VALUES (?, ?, ?, ?, ?, ?)",
		track.ID, track.Name, track.AlbumID, track.Popularity, track.DurationMS, track.Explicit,
	)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to insert track %s", track.ID))
	}

	return true, nil
}

// Get retrieves a track by ID. Name remains nil for rows stored with a
// NULL name.
func (r *TrackRepository) Get(id string) (*models.Track, error) {
	var (
		track models.Track
		name  sql.NullString
	)

	err := r.db.QueryRow(
		"SELECT track_id, name, album_id, popularity, duration_ms, explicit FROM tracks WHERE track_id = ?", id,
	).Scan(&track.ID, &name, &track.AlbumID, &track.Popularity, &track.DurationMS, &track.Explicit)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("track not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan track: %w", err)
	}

	if name.Valid {
		track.Name = &name.String
	}

	return &track, nil
}

// Count returns the number of track rows.
func (r *TrackRepository) Count() (int, error) {
	return tableCount(r.db, "tracks")
}
