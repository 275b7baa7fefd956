package main

import (
	"context"
	"fmt"

	"github.com/cratefm/crate/internal/catalog"
	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog for tracks, optionally adding the results to a playlist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	cat, err := r.requireCatalog()
	if err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	r.logger.Info("searching catalog", "query", query)

	page, err := cat.Search(ctx, query, cmd.Int("limit"), cmd.String("cursor"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	return r.renderPage(cmd, fmt.Sprintf("Search: %s", query), page)
}

// Trending fetches the trending chart feed, optionally adding the results to a playlist.
func (r *Runner) Trending(ctx context.Context, cmd *cli.Command) error {
	cat, err := r.requireCatalog()
	if err != nil {
		return err
	}

	genre := cmd.String("genre")
	r.logger.Info("fetching trending chart", "genre", genre)

	page, err := cat.Trending(ctx, genre, cmd.Int("limit"), cmd.String("cursor"))
	if err != nil {
		return fmt.Errorf("trending fetch failed: %w", err)
	}

	title := "Trending"
	if genre != "" {
		title = fmt.Sprintf("Trending: %s", genre)
	}
	return r.renderPage(cmd, title, page)
}

// renderPage prints a catalog page and handles the shared --add-to flag.
func (r *Runner) renderPage(cmd *cli.Command, title string, page *catalog.Page) error {
	if target := cmd.Int64("add-to"); target != 0 {
		if err := r.addPageToPlaylist(target, page); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlainHeader(title)
	if len(page.Collection) == 0 {
		return r.writePlain("No results.\n")
	}
	for i, entry := range page.Collection {
		line := fmt.Sprintf("%d. %s - %s", i+1, entry.User.Username, entry.Title)
		if entry.Duration > 0 {
			line += fmt.Sprintf(" [%s]", shared.FormatDuration(entry.Duration))
		}
		r.writePlain("%s\n", line)
	}
	if page.NextHref != "" {
		r.writePlainln("Next page: --cursor '%s'", page.NextHref)
	}
	return nil
}

func (r *Runner) addPageToPlaylist(playlistID int64, page *catalog.Page) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	added := 0
	for _, entry := range page.Collection {
		outcome := st.AddTrack(playlistID, entry.Draft())
		switch outcome {
		case store.Applied:
			added++
		case store.NoopNotFound:
			return fmt.Errorf("%w: playlist %d", shared.ErrPlaylistNotFound, playlistID)
		}
	}

	r.writePlain("✓ Added %d/%d tracks to playlist %d\n\n", added, len(page.Collection), playlistID)
	return nil
}
