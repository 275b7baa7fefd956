package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/cratefm/crate/internal/player"
	"github.com/cratefm/crate/internal/shared"
	"github.com/cratefm/crate/internal/store"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints every playlist.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	playlists := st.Playlists()

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}

	if len(playlists) == 0 {
		return r.writePlain("No playlists yet. Run 'crate playlist create <name>' to add one.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Playlists (%d)", len(playlists)))
	for _, p := range playlists {
		r.writePlain("%d. %s (%d items)\n", p.ID, p.Name, len(p.Items))
	}
	return nil
}

// PlaylistCreate creates a playlist with the given name.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	playlist, outcome := st.AddPlaylist(name)
	if outcome != store.Applied {
		return fmt.Errorf("%w: create rejected (%s)", shared.ErrInvalidInput, outcome)
	}

	r.logger.Info("playlist created", "id", playlist.ID, "name", playlist.Name)
	r.writePlain("✓ Created playlist %q (id %d)\n", playlist.Name, playlist.ID)
	return nil
}

// PlaylistShow prints a single playlist with its items.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	playlist := store.FindPlaylist(st.Playlists(), id)
	if playlist == nil {
		return fmt.Errorf("%w: playlist %d", shared.ErrPlaylistNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Name)
	if len(playlist.Items) == 0 {
		return r.writePlain("No items.\n")
	}
	embed := cmd.Bool("embed")
	for i, item := range playlist.Items {
		line := fmt.Sprintf("%d. %s - %s", i+1, item.Subtitle, item.Title)
		if item.Kind == store.KindVideo {
			line += " (video)"
		}
		if item.DurationMs > 0 {
			line += fmt.Sprintf(" [%s]", shared.FormatDuration(item.DurationMs))
		}
		r.writePlain("%s\n", line)
		if embed {
			if embedURL, err := r.embedURL(item); err == nil {
				r.writePlain("   %s\n", embedURL)
			}
		}
	}
	return nil
}

// embedURL builds the playback embed URL for an item from the configured
// player bases.
func (r *Runner) embedURL(item store.Item) (string, error) {
	if item.Kind == store.KindVideo {
		base := r.config.Player.VideoEmbedBase
		if base == "" {
			base = player.DefaultVideoEmbedBase
		}
		return player.VideoEmbedURL(base, item.ExternalID, false)
	}

	base := r.config.Player.WidgetBase
	if base == "" {
		base = player.DefaultWidgetBase
	}
	return player.WidgetURL(base, item.URL, player.DefaultLoadOptions())
}

// PlaylistRename renames a playlist.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	outcome := st.UpdatePlaylist(id, cmd.String("name"))
	return r.reportOutcome("rename", id, outcome)
}

// PlaylistDelete deletes a playlist.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	outcome := st.DeletePlaylist(id)
	return r.reportOutcome("delete", id, outcome)
}

// PlaylistAddTrack adds a track item built from flags.
func (r *Runner) PlaylistAddTrack(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	outcome := st.AddTrack(id, store.Draft{
		Title:      cmd.String("title"),
		Artist:     cmd.String("artist"),
		URL:        cmd.String("url"),
		DurationMs: cmd.Int64("duration"),
		ExternalID: cmd.String("external-id"),
	})
	return r.reportOutcome("add track", id, outcome)
}

// PlaylistAddVideo adds a video item built from flags.
func (r *Runner) PlaylistAddVideo(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	outcome := st.AddVideo(id, store.Draft{
		Title:      cmd.String("title"),
		Channel:    cmd.String("channel"),
		ExternalID: cmd.String("external-id"),
	})
	return r.reportOutcome("add video", id, outcome)
}

// PlaylistSetItems replaces a playlist's items from a JSON draft array.
func (r *Runner) PlaylistSetItems(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	data := cmd.String("data")
	file := cmd.String("file")

	if data == "" && file == "" {
		return fmt.Errorf("%w: either --data or --file must be provided", shared.ErrMissingArgument)
	}
	if data != "" && file != "" {
		return fmt.Errorf("%w: cannot specify both --data and --file", shared.ErrInvalidArgument)
	}

	raw := []byte(data)
	if file != "" {
		if raw, err = os.ReadFile(file); err != nil {
			return fmt.Errorf("failed to read drafts file: %w", err)
		}
	}

	var drafts []store.Draft
	if err := json.Unmarshal(raw, &drafts); err != nil {
		return fmt.Errorf("%w: invalid draft JSON: %v", shared.ErrInvalidInput, err)
	}

	id := cmd.Int64("id")
	outcome := st.SetItems(id, drafts)
	return r.reportOutcome("set items", id, outcome)
}

// PlaylistRemoveItem removes an item by id.
func (r *Runner) PlaylistRemoveItem(ctx context.Context, cmd *cli.Command) error {
	st, err := r.requireStore()
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	outcome := st.RemoveItem(id, cmd.String("item"))
	return r.reportOutcome("remove item", id, outcome)
}

// reportOutcome maps a mutation outcome to CLI output and exit status.
// Not-found outcomes fail the command; other no-ops report and succeed.
func (r *Runner) reportOutcome(action string, playlistID int64, outcome store.Outcome) error {
	switch outcome {
	case store.Applied:
		r.logger.Info("mutation applied", "action", action, "playlist", playlistID)
		return r.writePlain("✓ %s: %s\n", action, outcome)
	case store.NoopNotFound:
		return fmt.Errorf("%w: playlist %d", shared.ErrPlaylistNotFound, playlistID)
	default:
		return r.writePlain("- %s: %s\n", action, outcome)
	}
}
