package tasks

import (
	"fmt"

	"github.com/cratefm/crate/internal/store"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	SeedItems
	ExportPlaylist
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case SeedItems:
		return "seed_items"
	case ExportPlaylist:
		return "export_playlist"
	default:
		return ""
	}
}

func fetchPageUpdate(page int, query, genre string) ProgressUpdate {
	feed := query
	if feed == "" {
		feed = genre
	}
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    page,
		Message: fmt.Sprintf("Fetching catalog page %d (%s)...", page, feed),
	}
}

func seedDoneUpdate(fetched, added int, outcome store.Outcome) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SeedItems,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Seeded %d of %d fetched entries (%s)", added, fetched, outcome),
		Data:    outcome,
	}
}

func exportingPlaylistUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
