// Package app wires configuration, logging, the Baby Buddy client, the
// shared store and the UI into the buddy TUI.
//
// # Threading
//
// The babybuddy client runs each request on its own goroutine and posts the
// callback to a loop.Loop. The UI drains that loop inside Bubble Tea's Update,
// so every callback, and every store write, happens on the UI goroutine.
//
//	poller goroutine ──> Refresher.RefreshThen() ──> client.List*()
//	                                                  │
//	                         request goroutines <─────┘
//	                                  │
//	                                  └──> loop.Post(callback)
//	                                              │
//	Bubble Tea Update ──> loop.RunPending() <─────┘
//	                          └──> store.Set*() ──> View
//
// # Polling
//
// StartPoller refreshes immediately and then once per interval (default 10
// seconds). The next delay is chosen once the refresh's callbacks have run,
// so it reflects that poll's result. While requests keep failing the
// interval doubles per consecutive failure, up to two minutes, and resets
// after the next success.
//
// # Errors
//
// Run returns configuration, validation and logger errors. Request failures
// during polling are logged and recorded in the store; the UI shows them and
// switches to an offline indicator after two in a row.
package app
