package ui

import (
	"fmt"

	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
)

// playlistEntry wraps a playlist for display in a [list.Model].
type playlistEntry struct {
	playlist store.Playlist
}

func (e playlistEntry) FilterValue() string {
	return e.playlist.Name
}

func (e playlistEntry) Title() string {
	return e.playlist.Name
}

func (e playlistEntry) Description() string {
	n := len(e.playlist.Items)
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}

// itemEntry wraps a playlist item for display in a [list.Model].
type itemEntry struct {
	item store.Item
}

func (e itemEntry) FilterValue() string {
	return e.item.Title
}

func (e itemEntry) Title() string {
	return e.item.Title
}

func (e itemEntry) Description() string {
	desc := e.item.Subtitle
	if e.item.Kind == store.KindVideo {
		desc += " (video)"
	}
	if e.item.DurationMs > 0 {
		desc += " · " + shared.FormatDuration(e.item.DurationMs)
	}
	return desc
}
