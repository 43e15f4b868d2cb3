package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotex/internal/models"
	"github.com/desertthunder/spotex/internal/repositories"
	"github.com/desertthunder/spotex/internal/services"
	"github.com/desertthunder/spotex/internal/shared"
	"golang.org/x/time/rate"
)

// SeenSet tracks the albums and artists already resolved during a run so
// each upstream entity is fetched at most once, no matter how many
// tracks reference it.
type SeenSet struct {
	Albums  map[string]struct{}
	Artists map[string]struct{}
}

// NewSeenSet creates an empty SeenSet.
func NewSeenSet() *SeenSet {
	return &SeenSet{
		Albums:  make(map[string]struct{}),
		Artists: make(map[string]struct{}),
	}
}

// RunStats summarizes an extraction run.
type RunStats struct {
	Playlists        int                   `json:"playlists"`
	Tracks           int                   `json:"tracks"`
	SkippedTracks    int                   `json:"skipped_tracks"`
	MissingAlbums    int                   `json:"missing_albums"`
	MissingArtists   int                   `json:"missing_artists"`
	Load             repositories.LoadStats `json:"load"`
	BackfilledGenres int64                 `json:"backfilled_genres"`
}

// ExtractEngine walks a catalog's playlists and loads them into storage.
//
// Runs are idempotent: the loader inserts only absent rows, so repeating
// a run against unchanged upstream data inserts nothing.
type ExtractEngine struct {
	catalog services.Catalog
	loader  *repositories.Loader
	artists *repositories.ArtistRepository
	limiter *rate.Limiter
	config  shared.ExtractionConfig
	logger  *log.Logger
}

// NewExtractEngine creates an engine over the given catalog and database.
func NewExtractEngine(catalog services.Catalog, db *sql.DB, config shared.ExtractionConfig, logger *log.Logger) *ExtractEngine {
	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Limit(config.RateLimit)
	}

	return &ExtractEngine{
		catalog: catalog,
		loader:  repositories.NewLoader(db),
		artists: repositories.NewArtistRepository(db),
		limiter: rate.NewLimiter(limit, 1),
		config:  config,
		logger:  logger,
	}
}

// Run executes a full extraction: list playlists, resolve their tracks,
// albums and artists, and load one batch per playlist. When the config
// enables it, a genre backfill runs after the last load.
//
// Progress updates are sent non-blockingly to the progress channel, which
// may be nil.
func (e *ExtractEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*RunStats, error) {
	stats := &RunStats{}
	seen := NewSeenSet()

	e.sendProgress(progress, ProgressUpdate{Phase: PhaseFetchPlaylists, Message: "listing playlists"})

	playlists, err := fetchWithRetry(ctx, e.config.MaxRetries, e.collectPlaylists)
	if err != nil {
		return stats, fmt.Errorf("failed to list playlists: %w", err)
	}

	e.logger.Info("extraction started", "service", e.catalog.Name(), "playlists", len(playlists))

	for i, summary := range playlists {
		e.sendProgress(progress, ProgressUpdate{
			Phase: PhaseFetchTracks, Step: i + 1, Total: len(playlists), Message: summary.Name,
		})

		batch, err := e.extractPlaylist(ctx, summary, seen, stats)
		if err != nil {
			return stats, fmt.Errorf("failed to extract playlist %s: %w", summary.ID, err)
		}
		if batch == nil {
			continue
		}

		e.sendProgress(progress, ProgressUpdate{
			Phase: PhaseLoad, Step: i + 1, Total: len(playlists), Message: summary.Name,
		})

		loaded, err := e.loader.Load(batch)
		if err != nil {
			return stats, fmt.Errorf("failed to load playlist %s: %w", summary.ID, err)
		}

		stats.Load.Add(*loaded)
		stats.Playlists++
		e.logger.Debug("playlist loaded", "playlist", summary.Name, "inserted", loaded.Total())
	}

	if e.config.Backfill {
		e.sendProgress(progress, ProgressUpdate{Phase: PhaseBackfill, Message: "backfilling genres"})

		changed, err := e.artists.BackfillGenres()
		if err != nil {
			return stats, fmt.Errorf("failed to backfill genres: %w", err)
		}
		stats.BackfilledGenres = changed
		e.logger.Info("genre backfill complete", "rows", changed)
	}

	e.sendProgress(progress, ProgressUpdate{Phase: PhaseDone, Message: "extraction complete"})
	e.logger.Info("extraction finished",
		"playlists", stats.Playlists,
		"tracks", stats.Tracks,
		"inserted", stats.Load.Total(),
		"skipped_tracks", stats.SkippedTracks,
	)

	return stats, nil
}

// collectPlaylists drains the catalog's playlist sequence up to the
// configured limit. The sequence restarts from the first page on every
// call, which keeps it safe to retry as a whole.
func (e *ExtractEngine) collectPlaylists(ctx context.Context) ([]services.PlaylistSummary, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out []services.PlaylistSummary
	for summary, err := range e.catalog.UserPlaylists(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
		if e.config.PlaylistLimit > 0 && len(out) >= e.config.PlaylistLimit {
			break
		}
	}

	return out, nil
}

// collectTracks drains a playlist's track sequence.
func (e *ExtractEngine) collectTracks(ctx context.Context, playlistID string) ([]services.TrackRef, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out []services.TrackRef
	for ref, err := range e.catalog.PlaylistTracks(ctx, playlistID) {
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}

	return out, nil
}

// extractPlaylist builds the dependency-ordered batch for one playlist.
// A playlist that vanished upstream yields a nil batch; tracks whose
// album cannot be resolved are skipped and counted.
func (e *ExtractEngine) extractPlaylist(ctx context.Context, summary services.PlaylistSummary, seen *SeenSet, stats *RunStats) (*models.Batch, error) {
	tracks, err := fetchWithRetry(ctx, e.config.MaxRetries, func(ctx context.Context) ([]services.TrackRef, error) {
		return e.collectTracks(ctx, summary.ID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrUpstreamNotFound) {
			e.logger.Warn("playlist vanished upstream, skipping", "playlist", summary.ID)
			return nil, nil
		}
		return nil, err
	}

	batch := &models.Batch{
		Playlists: []models.Playlist{{
			ID:        summary.ID,
			Name:      summary.Name,
			Owner:     summary.Owner,
			NumTracks: summary.TrackCount,
		}},
	}

	for _, ref := range tracks {
		if ref.AlbumID == "" {
			e.logger.Warn("track has no album, skipping", "track", ref.ID)
			stats.SkippedTracks++
			continue
		}

		if _, ok := seen.Albums[ref.AlbumID]; !ok {
			if err := e.resolveAlbum(ctx, ref.AlbumID, batch, seen, stats); err != nil {
				if errors.Is(err, shared.ErrUpstreamNotFound) {
					e.logger.Warn("album not found upstream, skipping track", "album", ref.AlbumID, "track", ref.ID)
					stats.MissingAlbums++
					stats.SkippedTracks++
					continue
				}
				return nil, err
			}
		}

		batch.Tracks = append(batch.Tracks, models.Track{
			ID:         ref.ID,
			Name:       ref.Name,
			AlbumID:    ref.AlbumID,
			Popularity: ref.Popularity,
			DurationMS: ref.DurationMS,
			Explicit:   ref.Explicit,
		})
		batch.PlaylistTracks = append(batch.PlaylistTracks, models.PlaylistTrack{
			PlaylistID: summary.ID,
			TrackID:    ref.ID,
		})
		stats.Tracks++
	}

	return batch, nil
}

// resolveAlbum fetches an album and, when needed, its owning artist,
// appending both to the batch in dependency order and marking them seen.
func (e *ExtractEngine) resolveAlbum(ctx context.Context, albumID string, batch *models.Batch, seen *SeenSet, stats *RunStats) error {
	album, err := fetchWithRetry(ctx, e.config.MaxRetries, func(ctx context.Context) (*services.AlbumRecord, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return e.catalog.Album(ctx, albumID)
	})
	if err != nil {
		return err
	}

	if _, ok := seen.Artists[album.ArtistID]; !ok {
		artist, err := e.resolveArtist(ctx, album, stats)
		if err != nil {
			return err
		}
		batch.Artists = append(batch.Artists, artist)
		seen.Artists[album.ArtistID] = struct{}{}
	}

	batch.Albums = append(batch.Albums, models.Album{
		ID:          album.ID,
		Name:        album.Name,
		ReleaseDate: album.ReleaseDate,
		ArtistID:    album.ArtistID,
	})
	seen.Albums[album.ID] = struct{}{}

	return nil
}

// resolveArtist fetches an artist's full record for its genres. An
// artist the upstream no longer serves falls back to the name carried on
// the album with empty genres, which the backfill later fills with the
// sentinel.
func (e *ExtractEngine) resolveArtist(ctx context.Context, album *services.AlbumRecord, stats *RunStats) (models.Artist, error) {
	artist, err := fetchWithRetry(ctx, e.config.MaxRetries, func(ctx context.Context) (*services.ArtistRecord, error) {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		return e.catalog.Artist(ctx, album.ArtistID)
	})
	if err != nil {
		if errors.Is(err, shared.ErrUpstreamNotFound) {
			e.logger.Warn("artist not found upstream, using album credit", "artist", album.ArtistID)
			stats.MissingArtists++
			return models.Artist{ID: album.ArtistID, Name: album.ArtistName}, nil
		}
		return models.Artist{}, err
	}

	return models.Artist{
		ID:     artist.ID,
		Name:   artist.Name,
		Genres: strings.Join(artist.Genres, ","),
	}, nil
}

// sendProgress delivers an update without blocking; slow or absent
// consumers never stall the pipeline.
func (e *ExtractEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
