package main

import (
	"context"
	"os"

	"github.com/desertthunder/spotex/internal/services"
	"github.com/desertthunder/spotex/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	var catalog services.Catalog

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map()); err == nil {
			if token := config.Credentials.Spotify.Token(); token.AccessToken != "" {
				if err := svc.OAuthenticate(context.Background(), token); err == nil {
					catalog = svc
				} else {
					logger.Debug("stored token rejected", "error", err)
				}
			}
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Catalog: catalog,
		Logger:  logger,
	})

	if err := appCommand(runner).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// appCommand assembles the root CLI command.
func appCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotex",
		Usage:    "Extract a Spotify library into SQLite and query it",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}
