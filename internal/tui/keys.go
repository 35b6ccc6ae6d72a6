package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Quit      key.Binding
	MarkStart key.Binding
	MarkEnd   key.Binding
	Export    key.Binding
	ClearMark key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+k"),
		key.WithHelp("up/C-k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+j"),
		key.WithHelp("dn/C-j", "down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "copy play cmd"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
	MarkStart: key.NewBinding(
		key.WithKeys("ctrl+a"),
		key.WithHelp("C-a", "mark start"),
	),
	MarkEnd: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("C-e", "mark end"),
	),
	Export: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("C-x", "export range"),
	),
	ClearMark: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("C-g", "clear marks"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
}
