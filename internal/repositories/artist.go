package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotex/internal/models"
)

// UnknownGenre is the sentinel written by the genre backfill for artists
// whose genres value is null or empty.
const UnknownGenre = "Unknown Genre"

// ArtistRepository persists [models.Artist] rows.
type ArtistRepository struct {
	db *sql.DB
}

// NewArtistRepository creates a new ArtistRepository with the given database connection
func NewArtistRepository(db *sql.DB) *ArtistRepository {
	return &ArtistRepository{db: db}
}

// Upsert inserts the artist if no row with its ID exists. Existing rows
// are left unchanged. Returns whether a row was inserted.
func (r *ArtistRepository) Upsert(artist models.Artist) (bool, error) {
	if err := artist.Validate(); err != nil {
		return false, fmt.Errorf("validation failed: %w", err)
	}

	exists, err := rowExists(r.db, "SELECT EXISTS(SELECT 1 FROM artists WHERE artist_id = ?)", artist.ID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	_, err = r.db.Exec(
		"INSERT INTO artists (artist_id, name, genres) VALUES (?, ?, ?)",
		artist.ID, artist.Name, artist.Genres,
	)
	if err != nil {
		return false, classify(err, fmt.Sprintf("failed to insert artist %s", artist.ID))
	}

	return true, nil
}

// Get retrieves an artist by ID.
func (r *ArtistRepository) Get(id string) (*models.Artist, error) {
	var (
		artist models.Artist
		genres sql.NullString
	)

	err := r.db.QueryRow(
		"SELECT artist_id, name, genres FROM artists WHERE artist_id = ?", id,
	).Scan(&artist.ID, &artist.Name, &genres)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("artist not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan artist: %w", err)
	}

	if genres.Valid {
		artist.Genres = genres.String
	}

	return &artist, nil
}

// Count returns the number of artist rows.
func (r *ArtistRepository) Count() (int, error) {
	return tableCount(r.db, "artists")
}

// BackfillGenres replaces null or empty genres with the [UnknownGenre]
// sentinel and returns the number of rows changed.
//
// Idempotent: a second run matches zero rows.
func (r *ArtistRepository) BackfillGenres() (int64, error) {
	result, err := r.db.Exec(
		"UPDATE artists SET genres = ? WHERE genres IS NULL OR genres = ''",
		UnknownGenre,
	)
	if err != nil {
		return 0, fmt.Errorf("genre backfill failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

// MissingGenreCount returns the number of artists still matching the
// backfill predicate. Expected to be zero after BackfillGenres.
func (r *ArtistRepository) MissingGenreCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM artists WHERE genres IS NULL OR genres = ''").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count missing genres: %w", err)
	}
	return count, nil
}
