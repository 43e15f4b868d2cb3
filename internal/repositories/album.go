package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotex/internal/models"
)

// AlbumRepository persists [models.Album] rows.
type AlbumRepository struct {
	db *sql.DB
}

// NewAlbumRepository creates a new AlbumRepository with the given database connection
func NewAlbumRepository(db *sql.DB) *AlbumRepository {
	return &AlbumRepository{db: db}
}

// Upsert inserts the album if no row with its ID exists. Existing rows
// are left unchanged. Returns whether a row was inserted.
//
// The referenced artist must already be present; a foreign key failure
// surfaces as shared.ErrIntegrity.
func (r *AlbumRepository) Upsert(album models.Album) (bool, error) {
	if err := album.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := rowExists(r.db, "SELECT EXISTS(SELECT 1 FROM albums WHERE album_id = ?)", album.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.db.Exec(
		"INSERT INTO albums (album_id, name, release_date, artist_id) VALUES (?, ?, ?, ?)",
		album.ID, album.Name, album.ReleaseDate, album.ArtistID,
	)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to insert album %s", album.ID))
	}

	return true, nil
}

// Get retrieves an album by ID.
func (r *AlbumRepository) Get(id string) (*models.Album, error) {
	var album models.Album

	err := r.db.QueryRow(
		"SELECT album_id, name, release_date, artist_id FROM albums WHERE album_id = ?", id,
	).Scan(&album.ID, &album.Name, &album.ReleaseDate, &album.ArtistID)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("album not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan album: %w", err)
	}

	return &album, nil
}

// Count returns the number of album rows.
func (r *AlbumRepository) Count() (int, error) {
	return tableCount(r.db, "albums")
}
