package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the terminal puzzle.
type KeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Click key.Binding
	Start key.Binding
	Reset key.Binding
	Size3 key.Binding
	Size4 key.Binding
	Size5 key.Binding
	Level key.Binding
	Decoy key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "right"),
		),
		Click: key.NewBinding(
			key.WithKeys("enter", " ", "space"),
			key.WithHelp("enter", "press cell"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new board"),
		),
		Size3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "3x3"),
		),
		Size4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "4x4"),
		),
		Size5: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "5x5"),
		),
		Level: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch level"),
		),
		Decoy: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next level"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Start, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Click},
		{k.Start, k.Reset, k.Level, k.Decoy},
		{k.Size3, k.Size4, k.Size5},
		{k.Help, k.Quit},
	}
}
