// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// playlistCommand handles local playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Local playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List all playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create a new playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its items",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
					&cli.BoolFlag{
						Name:  "embed",
						Usage: "Print player embed URLs for each item",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "name",
						Usage:    "New playlist name",
						Required: true,
					},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "add-track",
				Usage: "Add a track to a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Track artist",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Track permalink URL",
					},
					&cli.Int64Flag{
						Name:  "duration",
						Usage: "Track duration in milliseconds",
					},
					&cli.StringFlag{
						Name:  "external-id",
						Usage: "Catalog track ID",
					},
				},
				Action: r.PlaylistAddTrack,
			},
			{
				Name:  "add-video",
				Usage: "Add a video to a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Video title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "channel",
						Usage: "Channel name",
					},
					&cli.StringFlag{
						Name:     "external-id",
						Usage:    "Video ID",
						Required: true,
					},
				},
				Action: r.PlaylistAddVideo,
			},
			{
				Name:  "set-items",
				Usage: "Replace a playlist's items from a JSON draft array",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "data",
						Aliases: []string{"d"},
						Usage:   "JSON array of item drafts",
					},
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a JSON file containing item drafts",
					},
				},
				Action: r.PlaylistSetItems,
			},
			{
				Name:  "remove-item",
				Usage: "Remove an item from a playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:     "id",
						Usage:    "Playlist ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "item",
						Usage:    "Item ID to remove",
						Required: true,
					},
				},
				Action: r.PlaylistRemoveItem,
			},
		},
	}
}

// searchCommand searches the catalog for tracks.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog for tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per page",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "cursor",
				Usage: "Pagination cursor from a previous response",
			},
			&cli.Int64Flag{
				Name:  "add-to",
				Usage: "Add results as tracks to this playlist ID",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Search,
	}
}

// trendingCommand fetches the trending chart feed.
func trendingCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "trending",
		Usage: "Fetch trending tracks from the catalog charts",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Chart genre (default: all-music)",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of results per page",
				Value: 20,
			},
			&cli.StringFlag{
				Name:  "cursor",
				Usage: "Pagination cursor from a previous response",
			},
			&cli.Int64Flag{
				Name:  "add-to",
				Usage: "Add results as tracks to this playlist ID",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Trending,
	}
}

// seedCommand fills a playlist from a catalog feed.
func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Fill a playlist from catalog search or trending results",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:     "playlist",
				Usage:    "Target playlist ID",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "query",
				Usage: "Search query to seed from",
			},
			&cli.StringFlag{
				Name:  "genre",
				Usage: "Trending genre to seed from",
			},
			&cli.IntFlag{
				Name:  "page-limit",
				Usage: "Entries fetched per catalog page",
			},
			&cli.IntFlag{
				Name:  "max",
				Usage: "Stop after collecting this many entries",
			},
		},
		Action: r.SeedRun,
	}
}

// exportCommand handles playlist export operations
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to disk",
		Flags: []cli.Flag{
			&cli.Int64Flag{
				Name:  "id",
				Usage: "Playlist ID to export (omit with --all)",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every playlist",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: json, csv, markdown, txt",
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers (with --all)",
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Exports dispatched per second (with --all)",
			},
		},
		Action: r.ExportRun,
	}
}

// serveCommand runs the HTTP API server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the playlist and catalog HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host interface to bind",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
			&cli.StringFlag{
				Name:  "cors-origin",
				Usage: "Allowed CORS origin",
				Value: "*",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the API root in a browser after start",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for playlist management",
		Action:  r.TUI,
	}
}

// setupCommand handles setup operations for database and catalog credentials.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "catalog",
				Usage: "Capture the catalog client_id from a browser cURL command",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to .sh file containing cURL command",
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupCatalog,
			},
		},
	}
}
