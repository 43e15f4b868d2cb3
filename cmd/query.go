package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/spotex/internal/analytics"
	"github.com/desertthunder/spotex/internal/formatter"
	"github.com/desertthunder/spotex/internal/shared"
	"github.com/urfave/cli/v3"
)

// QueryList prints the analytics catalog.
func (r *Runner) QueryList(ctx context.Context, cmd *cli.Command) error {
	r.writePlainHeader("Available queries")

	for _, query := range analytics.Catalog() {
		r.writePlain("%-28s %s\n", query.Name, query.Description)
	}
	r.writePlain("\nRun one with: spotex query run <name>\n")

	return nil
}

// QueryRun executes a named catalog query and renders the result.
func (r *Runner) QueryRun(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: query name", shared.ErrMissingArgument)
	}

	config := r.loadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	r.logger.Info("running query", "name", name)

	result, err := analytics.Run(db, name)
	if err != nil {
		return err
	}

	output, err := formatter.Render(result, cmd.String("format"))
	if err != nil {
		return err
	}

	if path := cmd.String("output"); path != "" {
		if err := os.WriteFile(path, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.writePlain("✓ Wrote %s\n", path)
		return nil
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
