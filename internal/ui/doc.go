// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for managing local playlists:
//  1. playlistListView : Browse playlists and pick one to open
//  2. itemListView : View a playlist's items and remove entries
//  3. confirmDeleteView : Confirm playlist deletion
//  4. nameInputView : Create or rename a playlist
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Store mutations run synchronously inside Update; each one reports its
// outcome on a status line and the lists are rebuilt from the store.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
