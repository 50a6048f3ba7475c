// Package ui provides the terminal front end for buddy.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. The babybuddy client delivers every
// callback through a loop.Loop; the model waits on Loop.Ready in a command
// and drains the queue inside Update, so callbacks and rendering share one
// goroutine. Callbacks write to state.Store and the model re-reads a
// snapshot after each drain.
//
// # Package Structure
//
//   - model.go: Model, Options, Update loop, loop and tick commands, Run
//   - actions.go: key actions that call the client (timers, changes, deletes)
//   - render.go: header, timers, timeline, log pane and footer rendering
//   - help.go: keyboard shortcut overlay built from the key map
//   - keys.go: key bindings (bubbles/key) and help groups
//   - theme.go: color palettes and Lipgloss styles
//   - format.go: duration and entry formatting helpers
//
// The L key swaps the timers and timeline for the tail of buddy's own log
// file, read through logtail and refreshed on every tick while shown.
//
// # Keyboard Shortcuts
//
//	j / k        Next / previous child
//	J / K        Next / previous timer
//	Space        Start or stop the selected timer
//	n            New timer for the selected child
//	d            Delete the selected timer
//	w / s / b    Record a wet / solid / wet+solid change
//	x            Delete the newest timeline entry
//	r            Refresh everything
//	L            Toggle the log pane
//	T            Cycle theme
//	?            Toggle help
//	q            Quit
//
// # Live Timers
//
// A one-second tick re-renders running timers. Their elapsed time uses
// Timer.ComputeCurrentServerEndTime with the client's server clock, so the
// display matches the server even when the device clock drifts.
//
// # Preferences
//
// The selected theme and child are written to the prefs file whenever they
// change.
package ui
