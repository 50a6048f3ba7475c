// Package state holds the data buddy shows on screen.
//
// # Overview
//
// Store is the meeting point between babybuddy callbacks and the UI.
// Callbacks run on the UI goroutine (the client posts them through
// loop.Loop), so writes happen there; the background poller only reads
// the current selection. A RWMutex still guards every access so the
// snapshot is never torn.
//
//	poller goroutine         loop.Loop            UI goroutine
//	┌──────────────┐        ┌─────────┐         ┌──────────────────┐
//	│ ListChildren │ ─────→ │ Post()  │ ──────→ │ RunPending()     │
//	└──────────────┘        └─────────┘         │  store.SetXxx()  │
//	                                            │  store.Snapshot()│
//	                                            └──────────────────┘
//
// # Selection
//
// SelectedChild scopes timers and timeline entries. Switching children
// clears both, and data that arrives late for a previously selected child
// is dropped by SetTimers and SetEntries.
//
// # Failure Tracking
//
// RecordFailure keeps the previous data and bumps ConsecutiveFailures. Any
// successful update resets the counter. IsOffline reports two or more
// failures in a row, which the poller also uses for backoff.
//
// # Snapshots
//
// Snapshot returns deep copies of slices and timers, so callers may keep
// or mutate the result freely.
package state
