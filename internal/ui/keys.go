package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Submit   key.Binding
	NextCode key.Binding
	PrevCode key.Binding
	Copy     key.Binding
	Reset    key.Binding
	Locale   key.Binding
	Up       key.Binding
	Down     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Copy, k.Reset, k.Locale, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Reset, k.Locale},
		{k.NextCode, k.PrevCode, k.Copy},
		{k.Up, k.Down, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "analyze"),
	),
	NextCode: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next code block"),
	),
	PrevCode: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous code block"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy code"),
	),
	Reset: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n/esc", "new analysis"),
	),
	Locale: key.NewBinding(
		key.WithKeys("ctrl+l", "L"),
		key.WithHelp("L/ctrl+l", "language"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q/ctrl+c", "quit"),
	),
}
