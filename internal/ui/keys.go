package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Refresh    key.Binding
	Logs       key.Binding

	// Selection
	NextChild key.Binding
	PrevChild key.Binding
	NextTimer key.Binding
	PrevTimer key.Binding

	// Timers
	ToggleTimer key.Binding
	NewTimer    key.Binding
	DeleteTimer key.Binding

	// Records
	WetChange   key.Binding
	SolidChange key.Binding
	BothChange  key.Binding
	DeleteEntry key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Logs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Toggle log"),
		),

		NextChild: key.NewBinding(
			key.WithKeys("j", "right"),
			key.WithHelp("j", "Next child"),
		),
		PrevChild: key.NewBinding(
			key.WithKeys("k", "left"),
			key.WithHelp("k", "Previous child"),
		),
		NextTimer: key.NewBinding(
			key.WithKeys("J", "down"),
			key.WithHelp("J", "Next timer"),
		),
		PrevTimer: key.NewBinding(
			key.WithKeys("K", "up"),
			key.WithHelp("K", "Previous timer"),
		),

		ToggleTimer: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Start/stop timer"),
		),
		NewTimer: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New timer"),
		),
		DeleteTimer: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete timer"),
		),

		WetChange: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Wet change"),
		),
		SolidChange: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Solid change"),
		),
		BothChange: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "Wet+solid change"),
		),
		DeleteEntry: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete newest entry"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleTimer, k.NewTimer, k.WetChange, k.SolidChange, k.Help, k.Quit}
}

// FullHelp returns key bindings grouped for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextChild, k.PrevChild, k.NextTimer, k.PrevTimer},
		{k.ToggleTimer, k.NewTimer, k.DeleteTimer},
		{k.WetChange, k.SolidChange, k.BothChange, k.DeleteEntry},
		{k.Refresh, k.Logs, k.CycleTheme, k.Help, k.Quit},
	}
}
