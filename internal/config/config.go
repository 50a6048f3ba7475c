package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the Baby Buddy connection and local runtime settings.
type Config struct {
	ServerAddr   string `validate:"required,url"`
	Token        string `validate:"required"`
	LogLevel     string `validate:"oneof=debug info warn error"`
	LogFile      string
	PollInterval time.Duration `validate:"gt=0"`
}

const (
	defaultConfigPath   = "~/.config/buddy/config.toml"
	defaultLogFile      = "~/.local/share/buddy/buddy.log"
	defaultLogLevel     = "info"
	defaultPollInterval = 10 * time.Second
)

// envOverrides are applied after the file when set.
type envOverrides struct {
	ServerURL string `env:"BUDDY_SERVER_URL"`
	AppToken  string `env:"BUDDY_APP_TOKEN"`
	LogLevel  string `env:"BUDDY_LOG_LEVEL"`
}

var validate = validator.New()

// Load reads the config file, falling back to defaults when it is missing,
// then applies environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		LogLevel:     defaultLogLevel,
		LogFile:      mustExpand(defaultLogFile),
		PollInterval: defaultPollInterval,
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		if err := readFile(file, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(r io.Reader, cfg *Config) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		ServerURL   string `toml:"server_url"`
		AppToken    string `toml:"app_token"`
		LogLevel    string `toml:"log_level"`
		LogFile     string `toml:"log_file"`
		PollSeconds int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.ServerAddr = strings.TrimSpace(raw.ServerURL)
	cfg.Token = strings.TrimSpace(raw.AppToken)
	if level := strings.ToLower(strings.TrimSpace(raw.LogLevel)); level != "" {
		cfg.LogLevel = level
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}
	if raw.PollSeconds > 0 {
		cfg.PollInterval = time.Duration(raw.PollSeconds) * time.Second
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var env envOverrides
	if err := cleanenv.ReadEnv(&env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	if v := strings.TrimSpace(env.ServerURL); v != "" {
		cfg.ServerAddr = v
	}
	if v := strings.TrimSpace(env.AppToken); v != "" {
		cfg.Token = v
	}
	if v := strings.ToLower(strings.TrimSpace(env.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate reports missing or malformed settings.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			names := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				names = append(names, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(names, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ServerURL returns the Baby Buddy base URL.
func (c Config) ServerURL() string {
	return c.ServerAddr
}

// AppToken returns the API token.
func (c Config) AppToken() string {
	return c.Token
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
