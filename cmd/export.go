package main

import (
	"context"
	"fmt"

	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportRun exports one playlist, or every playlist with --all.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float("rate"),
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, opts)
	}

	id := cmd.Int64("id")
	if id == 0 {
		return fmt.Errorf("%w: either --id or --all must be provided", shared.ErrMissingArgument)
	}

	r.logger.Info("exporting playlist", "id", id, "format", opts.Format)

	result, err := r.engine.Export(ctx, id, opts)
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %q\n", result.PlaylistName)
	for _, file := range result.Files {
		r.writePlain("  %s\n", file)
	}
	return nil
}

func (r *Runner) exportAll(ctx context.Context, opts tasks.ExportOpts) error {
	r.logger.Info("exporting all playlists", "format", opts.Format)
	r.writePlain("Exporting playlists...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.ExportAll(ctx, progressCh, nil, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Manifest: %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed exports:\n")
		for _, pr := range result.Results {
			if !pr.Success {
				r.writePlain("  - %s (id %d): %s\n", pr.PlaylistName, pr.PlaylistID, pr.ErrorMessage)
			}
		}
	}

	return nil
}
