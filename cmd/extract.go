package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotex/internal/repositories"
	"github.com/desertthunder/spotex/internal/services"
	"github.com/desertthunder/spotex/internal/shared"
	"github.com/desertthunder/spotex/internal/tasks"
	"github.com/desertthunder/spotex/internal/ui"
	"github.com/urfave/cli/v3"
)

// ExtractRun performs a full library extraction into the local database.
func (r *Runner) ExtractRun(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	config := r.loadConfig(configPath)

	extraction := config.Extraction
	if limit := cmd.Int("limit"); limit > 0 {
		extraction.PlaylistLimit = int(limit)
	}
	if cmd.Bool("backfill") {
		extraction.Backfill = true
	}

	catalog, err := r.authenticatedCatalog(ctx, config)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	runLogger, _ := shared.RunLogger(r.logger)
	runLogger.Info("starting extraction", "limit", extraction.PlaylistLimit)

	engine := tasks.NewExtractEngine(catalog, db, extraction, runLogger)

	var stats *tasks.RunStats
	if cmd.Bool("ui") {
		stats, err = ui.Run(ctx, engine)
	} else {
		stats, err = r.runWithPlainProgress(ctx, engine)
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, true)
	}

	r.writePlain("\n")
	r.writePlainHeader("Extraction Complete!")
	r.writePlain("Playlists: %d\n", stats.Playlists)
	r.writePlain("Tracks: %d\n", stats.Tracks)
	r.writePlain("Rows inserted: %d (artists %d, albums %d, tracks %d, playlists %d, memberships %d)\n",
		stats.Load.Total(), stats.Load.Artists, stats.Load.Albums,
		stats.Load.Tracks, stats.Load.Playlists, stats.Load.PlaylistTracks)
	if stats.SkippedTracks > 0 {
		r.writePlain("Skipped tracks: %d (missing albums: %d)\n", stats.SkippedTracks, stats.MissingAlbums)
	}
	if stats.MissingArtists > 0 {
		r.writePlain("Artists resolved from album credits: %d\n", stats.MissingArtists)
	}
	if extraction.Backfill {
		r.writePlain("Backfilled genres: %d\n", stats.BackfilledGenres)
	}

	return nil
}

// runWithPlainProgress drains engine progress onto stdout while the run executes.
func (r *Runner) runWithPlainProgress(ctx context.Context, engine *tasks.ExtractEngine) (*tasks.RunStats, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.PhaseFetchPlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.PhaseFetchTracks:
				r.writePlain("🎵 [%d/%d] %s\n", update.Step, update.Total, update.Message)
			case tasks.PhaseBackfill:
				r.writePlain("\n🏷  %s\n", update.Message)
			}
		}
	}()

	stats, err := engine.Run(ctx, progressCh)
	close(progressCh)
	return stats, err
}

// BackfillGenres runs the standalone genre backfill and verification query.
func (r *Runner) BackfillGenres(ctx context.Context, cmd *cli.Command) error {
	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	artists := repositories.NewArtistRepository(db)

	changed, err := artists.BackfillGenres()
	if err != nil {
		return fmt.Errorf("failed to backfill genres: %w", err)
	}

	missing, err := artists.MissingGenreCount()
	if err != nil {
		return fmt.Errorf("failed to verify backfill: %w", err)
	}

	r.writePlain("✓ Backfilled %d artists\n", changed)
	r.writePlain("✓ Artists still missing genres: %d\n", missing)

	return nil
}

// authenticatedCatalog returns the runner's catalog, or builds a Spotify
// service from stored credentials, with the saved token installed.
func (r *Runner) authenticatedCatalog(ctx context.Context, config *shared.Config) (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	spotify := config.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	service, err := services.NewSpotifyService(spotify.Map())
	if err != nil {
		return nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	token := spotify.Token()
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: run `spotex auth spotify` first", shared.ErrNotAuthenticated)
	}
	if err := service.OAuthenticate(ctx, token); err != nil {
		return nil, err
	}

	return service, nil
}
