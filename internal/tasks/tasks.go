// package tasks implements long-running playlist operations over the store
// and catalog.
//
// The core abstraction is Engine, which orchestrates catalog seeding and
// playlist exports. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/cratefm/crate/internal/catalog"
	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
)

// Catalog is the slice of the catalog client the engine needs.
type Catalog interface {
	Search(ctx context.Context, q string, limit int, cursor string) (*catalog.Page, error)
	Trending(ctx context.Context, genre string, limit int, cursor string) (*catalog.Page, error)
}

// SeedOpts configures a catalog seed run. Exactly one of Query or Genre
// selects the catalog feed; Query wins when both are set.
type SeedOpts struct {
	Query     string
	Genre     string
	PageLimit int // Entries per catalog page (default 20)
	MaxItems  int // Stop after collecting this many entries (default 100)
}

// SeedResult summarizes a seed run.
type SeedResult struct {
	PlaylistID int64
	Fetched    int // Entries collected from the catalog
	Added      int // Items actually appended after dedupe
	Pages      int
	Outcome    store.Outcome
}

// Engine orchestrates catalog and export operations against the store.
type Engine struct {
	store   *store.Store
	catalog Catalog
}

// NewEngine creates an Engine with the provided store and catalog.
func NewEngine(st *store.Store, cat Catalog) *Engine {
	return &Engine{store: st, catalog: cat}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Seed fills a playlist from the catalog: it pages through search results (or
// the trending chart) following next_href cursors, converts entries to drafts
// and merges them into the playlist. Already-present items are skipped by the
// store's dedupe rules.
func (e *Engine) Seed(ctx context.Context, progress chan<- ProgressUpdate, playlistID int64, opts SeedOpts) (*SeedResult, error) {
	if e.store == nil {
		return nil, fmt.Errorf("%w: store not initialized", shared.ErrServiceUnavailable)
	}
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Query == "" && opts.Genre == "" {
		return nil, fmt.Errorf("%w: seed query or genre", shared.ErrMissingArgument)
	}

	target := store.FindPlaylist(e.store.Playlists(), playlistID)
	if target == nil {
		return nil, fmt.Errorf("%w: id %d", shared.ErrPlaylistNotFound, playlistID)
	}

	if opts.PageLimit <= 0 {
		opts.PageLimit = 20
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = 100
	}

	result := &SeedResult{PlaylistID: playlistID}

	var drafts []store.Draft
	cursor := ""

	for len(drafts) < opts.MaxItems {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result.Pages++
		e.sendProgress(progress, fetchPageUpdate(result.Pages, opts.Query, opts.Genre))

		var page *catalog.Page
		var err error
		if opts.Query != "" {
			page, err = e.catalog.Search(ctx, opts.Query, opts.PageLimit, cursor)
		} else {
			page, err = e.catalog.Trending(ctx, opts.Genre, opts.PageLimit, cursor)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog page %d: %w", result.Pages, err)
		}

		for _, entry := range page.Collection {
			if len(drafts) >= opts.MaxItems {
				break
			}
			drafts = append(drafts, entry.Draft())
		}

		if page.NextHref == "" || len(page.Collection) == 0 {
			break
		}
		cursor = page.NextHref
	}

	result.Fetched = len(drafts)

	before := len(target.Items)
	result.Outcome = e.store.SetTracks(playlistID, drafts)

	if after := store.FindPlaylist(e.store.Playlists(), playlistID); after != nil {
		result.Added = len(after.Items) - before
	}

	e.sendProgress(progress, seedDoneUpdate(result.Fetched, result.Added, result.Outcome))
	return result, nil
}
