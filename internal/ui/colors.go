package ui

import "github.com/charmbracelet/lipgloss"

// Palette holds the lipgloss styles shared by every view.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette builds a palette from hex color values.
func NewPalette(title, ok, err, warn, help string) Palette {
	return Palette{
		title: NewBold(title),
		ok:    NewStyle(ok),
		err:   NewStyle(err),
		warn:  NewStyle(warn),
		help:  NewStyle(help),
	}
}

// DefaultPalette is the palette used when no overrides are given.
func DefaultPalette() Palette {
	return NewPalette("#7D56F4", "#04B575", "#FF5F87", "#FFA500", "#626262")
}

// NewStyle creates a foreground-colored style.
func NewStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// NewBold creates a bold foreground-colored style.
func NewBold(color string) lipgloss.Style {
	return NewStyle(color).Bold(true)
}

// NewEm creates an italicized foreground-colored style.
func NewEm(color string) lipgloss.Style {
	return NewStyle(color).Italic(true)
}
