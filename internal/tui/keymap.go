package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextMode key.Binding
	Focus    key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Search   key.Binding
	Clear    key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	NextMode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "next mode"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "shift+tab"),
		key.WithHelp("tab", "tables/data"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open table"),
	),
	Search: key.NewBinding(
		key.WithKeys("f", "/"),
		key.WithHelp("f", "search rows"),
	),
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear search"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("h", "?"),
		key.WithHelp("h", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextMode, k.Open, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Focus, k.Open},
		{k.NextMode, k.Search, k.Clear, k.Refresh},
		{k.Help, k.Quit},
	}
}
