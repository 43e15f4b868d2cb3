package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/spotex/internal/models"
	"github.com/desertthunder/spotex/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with the library schema applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.EnsureSchema(db); err != nil {
		t.Fatalf("failed to ensure schema: %v", err)
	}

	return db
}

func strPtr(s string) *string {
	return &s
}

// seedArtistAndAlbum inserts the rows tracks depend on
func seedArtistAndAlbum(t *testing.T, db *sql.DB) {
	t.Helper()

	artists := NewArtistRepository(db)
	if _, err := artists.Upsert(models.Artist{ID: "art1", Name: "Boards of Canada", Genres: "idm,downtempo"}); err != nil {
		t.Fatalf("failed to seed artist: %v", err)
	}

	albums := NewAlbumRepository(db)
	if _, err := albums.Upsert(models.Album{ID: "alb1", Name: "Geogaddi", ReleaseDate: "2002-02-18", ArtistID: "art1"}); err != nil {
		t.Fatalf("failed to seed album: %v", err)
	}
}

func TestArtistRepository(t *testing.T) {
	t.Run("Upsert inserts once", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db)

		inserted, err := repo.Upsert(models.Artist{ID: "art1", Name: "Burial", Genres: "dubstep"})
		if err != nil {
			t.Fatalf("failed to upsert artist: %v", err)
		}
		if !inserted {
			t.Error("expected first upsert to insert")
		}

		inserted, err = repo.Upsert(models.Artist{ID: "art1", Name: "Someone Else", Genres: ""})
		if err != nil {
			t.Fatalf("duplicate upsert should not error: %v", err)
		}
		if inserted {
			t.Error("expected second upsert to be a no-op")
		}

		// Existing row is left unchanged, not merged
		artist, err := repo.Get("art1")
		if err != nil {
			t.Fatalf("failed to get artist: %v", err)
		}
		if artist.Name != "Burial" {
			t.Errorf("expected original name 'Burial', got %s", artist.Name)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count artists: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 artist, got %d", count)
		}
	})

	t.Run("Upsert rejects missing ID", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewArtistRepository(db)

		if _, err := repo.Upsert(models.Artist{Name: "No ID"}); err == nil {
			t.Error("expected validation error for missing ID")
		}
	})
}

func TestAlbumRepository_ForeignKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAlbumRepository(db)

	_, err := repo.Upsert(models.Album{ID: "alb1", Name: "Orphan", ReleaseDate: "2020-01-01", ArtistID: "missing"})
	if err == nil {
		t.Fatal("expected foreign key violation for missing artist")
	}
	if !errors.Is(err, shared.ErrIntegrity) {
		t.Errorf("expected ErrIntegrity, got %v", err)
	}
}

func TestTrackRepository_NullName(t *testing.T) {
	db := setupTestDB(t)
	seedArtistAndAlbum(t, db)

	repo := NewTrackRepository(db)

	inserted, err := repo.Upsert(models.Track{ID: "trk1", Name: nil, AlbumID: "alb1", Popularity: 40, DurationMS: 215000})
	if err != nil {
		t.Fatalf("failed to upsert track: %v", err)
	}
	if !inserted {
		t.Error("expected track to be inserted")
	}

	track, err := repo.Get("trk1")
	if err != nil {
		t.Fatalf("failed to get track: %v", err)
	}
	if track.Name != nil {
		t.Errorf("expected NULL name to stay nil, got %q", *track.Name)
	}
}

func TestTrackRepository_Validation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTrackRepository(db)

	if _, err := repo.Upsert(models.Track{ID: "trk1", AlbumID: "alb1", Popularity: 150}); err == nil {
		t.Error("expected validation error for popularity out of range")
	}

	if _, err := repo.Upsert(models.Track{ID: "trk1", Popularity: 10}); err == nil {
		t.Error("expected validation error for missing album")
	}
}

func TestPlaylistRepository(t *testing.T) {
	t.Run("Membership pair is unique", func(t *testing.T) {
		db := setupTestDB(t)
		seedArtistAndAlbum(t, db)

		tracks := NewTrackRepository(db)
		if _, err := tracks.Upsert(models.Track{ID: "trk1", Name: strPtr("Music Is Math"), AlbumID: "alb1", Popularity: 55, DurationMS: 321000}); err != nil {
			t.Fatalf("failed to seed track: %v", err)
		}

		repo := NewPlaylistRepository(db)
		if _, err := repo.Upsert(models.Playlist{ID: "pl1", Name: "Focus", Owner: "alice", NumTracks: 1}); err != nil {
			t.Fatalf("failed to upsert playlist: %v", err)
		}

		inserted, err := repo.UpsertMembership(models.PlaylistTrack{PlaylistID: "pl1", TrackID: "trk1"})
		if err != nil {
			t.Fatalf("failed to upsert membership: %v", err)
		}
		if !inserted {
			t.Error("expected membership to be inserted")
		}

		inserted, err = repo.UpsertMembership(models.PlaylistTrack{PlaylistID: "pl1", TrackID: "trk1"})
		if err != nil {
			t.Fatalf("duplicate membership should not error: %v", err)
		}
		if inserted {
			t.Error("expected duplicate membership to be a no-op")
		}

		count, err := repo.MembershipCount()
		if err != nil {
			t.Fatalf("failed to count memberships: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 membership row, got %d", count)
		}
	})

	t.Run("Membership requires both rows", func(t *testing.T) {
		db := setupTestDB(t)

		repo := NewPlaylistRepository(db)
		_, err := repo.UpsertMembership(models.PlaylistTrack{PlaylistID: "ghost", TrackID: "ghost"})
		if err == nil {
			t.Fatal("expected foreign key violation")
		}
		if !errors.Is(err, shared.ErrIntegrity) {
			t.Errorf("expected ErrIntegrity, got %v", err)
		}
	})
}

func TestLoader_Idempotence(t *testing.T) {
	db := setupTestDB(t)
	loader := NewLoader(db)

	batch := &models.Batch{
		Artists: []models.Artist{
			{ID: "art1", Name: "Four Tet", Genres: "electronica"},
		},
		Albums: []models.Album{
			{ID: "alb1", Name: "Rounds", ReleaseDate: "2003-05-05", ArtistID: "art1"},
		},
		Tracks: []models.Track{
			{ID: "trk1", Name: strPtr("Hands"), AlbumID: "alb1", Popularity: 48, DurationMS: 281000},
			{ID: "trk2", Name: nil, AlbumID: "alb1", Popularity: 33, DurationMS: 195000},
		},
		Playlists: []models.Playlist{
			{ID: "pl1", Name: "Morning", Owner: "bob", NumTracks: 2},
		},
		PlaylistTracks: []models.PlaylistTrack{
			{PlaylistID: "pl1", TrackID: "trk1"},
			{PlaylistID: "pl1", TrackID: "trk2"},
		},
	}

	stats, err := loader.Load(batch)
	if err != nil {
		t.Fatalf("failed to load batch: %v", err)
	}
	if stats.Total() != batch.Size() {
		t.Errorf("expected %d inserts, got %d", batch.Size(), stats.Total())
	}

	stats, err = loader.Load(batch)
	if err != nil {
		t.Fatalf("second load should not error: %v", err)
	}
	if stats.Total() != 0 {
		t.Errorf("expected second load to insert 0 rows, got %d", stats.Total())
	}

	tracks := NewTrackRepository(db)
	count, err := tracks.Count()
	if err != nil {
		t.Fatalf("failed to count tracks: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 tracks after two loads, got %d", count)
	}
}

func TestLoader_OutOfOrderBatchFails(t *testing.T) {
	db := setupTestDB(t)
	loader := NewLoader(db)

	// Album references an artist the batch never provides
	batch := &models.Batch{
		Albums: []models.Album{
			{ID: "alb1", Name: "Orphan", ReleaseDate: "2020-01-01", ArtistID: "never-inserted"},
		},
	}

	_, err := loader.Load(batch)
	if err == nil {
		t.Fatal("expected load to fail on dangling foreign key")
	}
	if !errors.Is(err, shared.ErrIntegrity) {
		t.Errorf("expected ErrIntegrity, got %v", err)
	}
}

func TestBackfillGenres(t *testing.T) {
	db := setupTestDB(t)
	repo := NewArtistRepository(db)

	seed := []models.Artist{
		{ID: "art1", Name: "Known", Genres: "ambient"},
		{ID: "art2", Name: "Empty", Genres: ""},
	}
	for _, artist := range seed {
		if _, err := repo.Upsert(artist); err != nil {
			t.Fatalf("failed to seed artist: %v", err)
		}
	}

	// A row with a literal NULL, which Upsert never produces
	if _, err := db.Exec("INSERT INTO artists (artist_id, name, genres) VALUES ('art3', 'Null', NULL)"); err != nil {
		t.Fatalf("failed to insert null-genre artist: %v", err)
	}

	changed, err := repo.BackfillGenres()
	if err != nil {
		t.Fatalf("failed to backfill genres: %v", err)
	}
	if changed != 2 {
		t.Errorf("expected 2 rows changed, got %d", changed)
	}

	missing, err := repo.MissingGenreCount()
	if err != nil {
		t.Fatalf("failed to count missing genres: %v", err)
	}
	if missing != 0 {
		t.Errorf("expected 0 missing genres after backfill, got %d", missing)
	}

	for _, id := range []string{"art2", "art3"} {
		artist, err := repo.Get(id)
		if err != nil {
			t.Fatalf("failed to get artist %s: %v", id, err)
		}
		if artist.Genres != UnknownGenre {
			t.Errorf("expected %s genres %q, got %q", id, UnknownGenre, artist.Genres)
		}
	}

	// Fixed point: second run changes nothing
	changed, err = repo.BackfillGenres()
	if err != nil {
		t.Fatalf("second backfill should not error: %v", err)
	}
	if changed != 0 {
		t.Errorf("expected second backfill to change 0 rows, got %d", changed)
	}

	known, err := repo.Get("art1")
	if err != nil {
		t.Fatalf("failed to get artist: %v", err)
	}
	if known.Genres != "ambient" {
		t.Errorf("backfill must not touch populated genres, got %q", known.Genres)
	}
}
