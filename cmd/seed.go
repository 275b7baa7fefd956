package main

import (
	"context"

	"github.com/cratefm/crate/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SeedRun fills a playlist from a catalog feed, streaming progress to the terminal.
func (r *Runner) SeedRun(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.Int64("playlist")
	opts := tasks.SeedOpts{
		Query:     cmd.String("query"),
		Genre:     cmd.String("genre"),
		PageLimit: cmd.Int("page-limit"),
		MaxItems:  cmd.Int("max"),
	}

	r.logger.Info("starting seed", "playlist", playlistID, "query", opts.Query, "genre", opts.Genre)
	r.writePlain("Seeding playlist %d...\n\n", playlistID)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPage:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.SeedItems:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.Seed(ctx, progressCh, playlistID, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Seed Complete!")
	r.writePlain("Playlist: %d\n", result.PlaylistID)
	r.writePlain("Fetched: %d entries over %d pages\n", result.Fetched, result.Pages)
	r.writePlain("Added: %d new items (%s)\n", result.Added, result.Outcome)

	return nil
}
