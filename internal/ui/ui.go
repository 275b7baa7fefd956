package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cratefm/crate/internal/store"
)

// viewState identifies which screen the model is rendering.
type viewState int

const (
	playlistListView viewState = iota
	itemListView
	confirmDeleteView
	nameInputView
)

// Model is the root bubbletea model for browsing and editing playlists.
type Model struct {
	st     *store.Store
	view   viewState
	keys   keyMap
	styles Palette
	help   help.Model

	playlists list.Model
	items     list.Model
	input     textinput.Model

	current  int64 // playlist open in the item view
	renaming int64 // playlist being renamed, 0 when creating
	pending  int64 // playlist awaiting delete confirmation
	status   string

	width  int
	height int
}

// New builds a model over the given store.
func New(st *store.Store) Model {
	keys := newKeyMap()

	playlists := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	playlists.Title = "Playlists"
	playlists.SetShowHelp(false)
	playlists.SetFilteringEnabled(false)

	items := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	items.SetShowHelp(false)
	items.SetFilteringEnabled(false)

	input := textinput.New()
	input.Placeholder = "Playlist name"
	input.CharLimit = 120

	m := Model{
		st:        st,
		view:      playlistListView,
		keys:      keys,
		styles:    DefaultPalette(),
		help:      help.New(),
		playlists: playlists,
		items:     items,
		input:     input,
	}
	m.refreshPlaylists()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(msg.Width, msg.Height-4)
		m.items.SetSize(msg.Width, msg.Height-4)
		return m, nil
	case tea.KeyMsg:
		switch m.view {
		case playlistListView:
			return m.updatePlaylistList(msg)
		case itemListView:
			return m.updateItemList(msg)
		case confirmDeleteView:
			return m.updateConfirmDelete(msg)
		case nameInputView:
			return m.updateNameInput(msg)
		}
	}
	return m, nil
}

func (m Model) updatePlaylistList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Enter):
		if entry, ok := m.playlists.SelectedItem().(playlistEntry); ok {
			m.current = entry.playlist.ID
			m.refreshItems()
			m.view = itemListView
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.renaming = 0
		m.input.SetValue("")
		m.input.Focus()
		m.view = nameInputView
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Rename):
		if entry, ok := m.playlists.SelectedItem().(playlistEntry); ok {
			m.renaming = entry.playlist.ID
			m.input.SetValue(entry.playlist.Name)
			m.input.Focus()
			m.view = nameInputView
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if entry, ok := m.playlists.SelectedItem().(playlistEntry); ok {
			m.pending = entry.playlist.ID
			m.view = confirmDeleteView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m Model) updateItemList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.view = playlistListView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if entry, ok := m.items.SelectedItem().(itemEntry); ok {
			outcome := m.st.RemoveItem(m.current, entry.item.ID)
			m.status = m.statusLine("remove item", outcome)
			m.refreshItems()
			m.refreshPlaylists()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.items, cmd = m.items.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Yes):
		outcome := m.st.DeletePlaylist(m.pending)
		m.status = m.statusLine("delete playlist", outcome)
		m.pending = 0
		m.refreshPlaylists()
		m.view = playlistListView
		return m, nil
	case key.Matches(msg, m.keys.No):
		m.pending = 0
		m.view = playlistListView
		return m, nil
	}
	return m, nil
}

func (m Model) updateNameInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.input.Blur()
		m.view = playlistListView
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		name := m.input.Value()
		if m.renaming != 0 {
			outcome := m.st.UpdatePlaylist(m.renaming, name)
			m.status = m.statusLine("rename playlist", outcome)
		} else {
			_, outcome := m.st.AddPlaylist(name)
			m.status = m.statusLine("create playlist", outcome)
		}
		m.input.Blur()
		m.refreshPlaylists()
		m.view = playlistListView
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	switch m.view {
	case itemListView:
		return m.renderItemList()
	case confirmDeleteView:
		return m.renderConfirmDelete()
	case nameInputView:
		return m.renderNameInput()
	default:
		return m.renderPlaylistList()
	}
}

func (m Model) renderPlaylistList() string {
	body := m.playlists.View()
	if len(m.playlists.Items()) == 0 {
		body = m.styles.warn.Render("No playlists yet. Press n to create one.")
	}
	return fmt.Sprintf(
		"%s\n%s\n%s",
		body,
		m.statusView(),
		m.styles.help.Render(m.help.View(m.keys)),
	)
}

func (m Model) renderItemList() string {
	body := m.items.View()
	if len(m.items.Items()) == 0 {
		body = m.styles.warn.Render("This playlist is empty.")
	}
	return fmt.Sprintf("%s\n%s", body, m.statusView())
}

func (m Model) renderConfirmDelete() string {
	name := "this playlist"
	if p := store.FindPlaylist(m.st.Playlists(), m.pending); p != nil {
		name = fmt.Sprintf("%q", p.Name)
	}
	return fmt.Sprintf(
		"%s\n\n%s",
		m.styles.warn.Render(fmt.Sprintf("Delete %s? (y/n)", name)),
		m.statusView(),
	)
}

func (m Model) renderNameInput() string {
	label := "New playlist"
	if m.renaming != 0 {
		label = "Rename playlist"
	}
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s",
		m.styles.title.Render(label),
		m.input.View(),
		m.styles.help.Render("enter save · esc cancel"),
	)
}

func (m Model) statusView() string {
	if m.status == "" {
		return ""
	}
	return m.status
}

// statusLine formats a mutation result for the footer.
func (m Model) statusLine(action string, outcome store.Outcome) string {
	text := fmt.Sprintf("%s: %s", action, outcome)
	if outcome == store.Applied {
		return m.styles.ok.Render(text)
	}
	return m.styles.err.Render(text)
}

func (m *Model) refreshPlaylists() {
	playlists := m.st.Playlists()
	entries := make([]list.Item, 0, len(playlists))
	for _, p := range playlists {
		entries = append(entries, playlistEntry{playlist: p})
	}
	m.playlists.SetItems(entries)
}

func (m *Model) refreshItems() {
	p := store.FindPlaylist(m.st.Playlists(), m.current)
	if p == nil {
		m.items.SetItems(nil)
		m.items.Title = "Items"
		return
	}
	entries := make([]list.Item, 0, len(p.Items))
	for _, it := range p.Items {
		entries = append(entries, itemEntry{item: it})
	}
	m.items.SetItems(entries)
	m.items.Title = p.Name
}
