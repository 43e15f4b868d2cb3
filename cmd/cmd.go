// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by every command that touches config.toml
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and create the library schema",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "spotify",
				Usage:  "Authenticate with Spotify using OAuth2",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SpotifyAuth,
			},
			{
				Name:   "status",
				Usage:  "Show stored token state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// extractCommand handles library extraction runs
func extractCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "extract",
		Usage: "Extract the Spotify library into the local database",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a full extraction of playlists, tracks, albums and artists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of playlists to extract (0 uses the configured limit)",
					},
					&cli.BoolFlag{
						Name:  "backfill",
						Usage: "Backfill missing artist genres after loading",
					},
					&cli.BoolFlag{
						Name:  "ui",
						Usage: "Show an interactive progress view",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output run stats as JSON",
					},
				},
				Action: r.ExtractRun,
			},
		},
	}
}

// backfillCommand runs the standalone genre backfill
func backfillCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "backfill",
		Usage:  "Fill missing artist genres with the sentinel value",
		Flags:  []cli.Flag{configFlag()},
		Action: r.BackfillGenres,
	}
}

// queryCommand exposes the analytics catalog
func queryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "query",
		Usage: "Run analytical queries against the extracted library",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List available queries",
				Action: r.QueryList,
			},
			{
				Name:  "run",
				Usage: "Run a named query",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text, csv, markdown or json",
						Value:   "text",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write output to a file instead of stdout",
					},
				},
				Action: r.QueryRun,
			},
		},
	}
}
