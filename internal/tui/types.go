package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mabhi256/vgdiag/internal/report"
)

type Model struct {
	// Data
	analysis   *report.Analysis
	reportText string

	// UI State
	currentTab TabType
	width      int
	viewport   viewport.Model
	ready      bool

	// Key bindings
	keys KeyMap
}

type TabType int

const (
	ReportTab TabType = iota
	HotspotsTab
)

const lastTab = HotspotsTab

func (t TabType) String() string {
	switch t {
	case ReportTab:
		return "Report"
	case HotspotsTab:
		return "Hotspots"
	default:
		return "Unknown"
	}
}

type KeyMap struct {
	Tab1     key.Binding
	Tab2     key.Binding
	Next     key.Binding
	Prev     key.Binding
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:     k([]string{"1"}, "1", "report"),
		Tab2:     k([]string{"2"}, "2", "hotspots"),
		Next:     k([]string{"tab", "right", "l"}, "→/tab", "next tab"),
		Prev:     k([]string{"shift+tab", "left", "h"}, "←", "prev tab"),
		Up:       k([]string{"up", "k"}, "↑/k", "up"),
		Down:     k([]string{"down", "j"}, "↓/j", "down"),
		PageUp:   k([]string{"pgup", "b"}, "pgup", "page up"),
		PageDown: k([]string{"pgdown", "f", " "}, "pgdn", "page down"),
		Quit:     k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

func (km KeyMap) help() []key.Binding {
	return []key.Binding{km.Tab1, km.Tab2, km.Next, km.Up, km.Down, km.PageUp, km.PageDown, km.Quit}
}

// scrollKeys is the viewport keymap driven by the same bindings the footer shows.
func (km KeyMap) scrollKeys() viewport.KeyMap {
	disabled := key.NewBinding(key.WithDisabled())
	return viewport.KeyMap{
		Up:           km.Up,
		Down:         km.Down,
		PageUp:       km.PageUp,
		PageDown:     km.PageDown,
		HalfPageUp:   disabled,
		HalfPageDown: disabled,
		Left:         disabled,
		Right:        disabled,
	}
}
