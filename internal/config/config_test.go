package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"BUDDY_SERVER_URL", "BUDDY_APP_TOKEN", "BUDDY_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogLevel != defaultLogLevel {
		t.Fatalf("LogLevel = %q, want %q", cfg.LogLevel, defaultLogLevel)
	}
	if cfg.PollInterval != defaultPollInterval {
		t.Fatalf("PollInterval = %v, want %v", cfg.PollInterval, defaultPollInterval)
	}
	wantLog, err := expandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("expandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.LogFile, wantLog)
	}
	if cfg.ServerURL() != "" || cfg.AppToken() != "" {
		t.Fatalf("credentials = %q/%q, want empty", cfg.ServerURL(), cfg.AppToken())
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	clearEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(writeConfig(t, `
server_url = "  https://buddy.example.com/  "
app_token = " abc123 "
log_level = "DEBUG"
log_file = "  ~/logs/buddy.log  "
poll_seconds = 30
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL() != "https://buddy.example.com/" {
		t.Fatalf("ServerURL = %q", cfg.ServerURL())
	}
	if cfg.AppToken() != "abc123" {
		t.Fatalf("AppToken = %q, want abc123", cfg.AppToken())
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if cfg.PollInterval != 30*time.Second {
		t.Fatalf("PollInterval = %v, want 30s", cfg.PollInterval)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("BUDDY_SERVER_URL", "http://10.0.0.5:8000")
	t.Setenv("BUDDY_APP_TOKEN", "from-env")

	cfg, err := Load(writeConfig(t, `
server_url = "http://file:8000"
app_token = "from-file"
log_level = "warn"
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerURL() != "http://10.0.0.5:8000" || cfg.AppToken() != "from-env" {
		t.Fatalf("credentials = %q/%q, want env values", cfg.ServerURL(), cfg.AppToken())
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("LogLevel = %q, want warn from file", cfg.LogLevel)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, `server_url = [`))
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestValidate(t *testing.T) {
	valid := Config{ServerAddr: "http://localhost:8000", Token: "t", LogLevel: "info", PollInterval: time.Second}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing_url", func(c *Config) { c.ServerAddr = "" }, "ServerAddr"},
		{"bad_url", func(c *Config) { c.ServerAddr = "not a url" }, "ServerAddr"},
		{"missing_token", func(c *Config) { c.Token = "" }, "Token"},
		{"bad_level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"zero_poll", func(c *Config) { c.PollInterval = 0 }, "PollInterval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("Validate returned nil error")
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("Validate error = %q, want it to name %s", err.Error(), tc.field)
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}
