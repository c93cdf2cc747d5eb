package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Selection
	Select     key.Binding
	ToggleMode key.Binding

	// Time window
	WindowDay   key.Binding
	WindowWeek  key.Binding
	WindowMonth key.Binding

	// Actions
	Trigger key.Binding
	Refresh key.Binding

	// Application
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous retailer"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next retailer"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "select retailer"),
		),
		ToggleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "toggle single/multi mode"),
		),
		WindowDay: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "24h window"),
		),
		WindowWeek: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "7d window"),
		),
		WindowMonth: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "30d window"),
		),
		Trigger: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trigger monitoring"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry all"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
