// Package config loads buddy's connection settings.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/buddy/config.toml
//  3. If the file doesn't exist, start from defaults
//  4. Apply BUDDY_SERVER_URL, BUDDY_APP_TOKEN and BUDDY_LOG_LEVEL when set
//
// # Default Values
//
//   - Config file: ~/.config/buddy/config.toml
//   - Log file: ~/.local/share/buddy/buddy.log
//   - Log level: info
//   - Poll interval: 10s
//
// There is no default server or token; Validate rejects a Config without
// them.
//
// # TOML Format
//
//	server_url = "http://babybuddy.local:8000"
//	app_token = "0123456789abcdef"
//	log_level = "info"
//	log_file = "~/.local/share/buddy/buddy.log"
//	poll_seconds = 10
//
// # Credentials
//
// Config implements babybuddy.Credentials through ServerURL and AppToken,
// so it can be handed to babybuddy.NewClient directly.
//
// # Error Handling
//
// Load returns errors for path expansion failures, file read errors (except
// os.ErrNotExist) and TOML parse errors, the latter wrapped as
// "parse config: ...". Validate names each failing field.
package config
