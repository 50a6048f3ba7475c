package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/five82/buddy/internal/babybuddy"
	"github.com/five82/buddy/internal/config"
	"github.com/five82/buddy/internal/logging"
	"github.com/five82/buddy/internal/loop"
	"github.com/five82/buddy/internal/prefs"
	"github.com/five82/buddy/internal/state"
	"github.com/five82/buddy/internal/ui"
)

// Options configure the buddy application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/buddy/prefs.toml
	PollEvery  int    // seconds; zero uses the configured interval
}

// Run boots the buddy TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	events := loop.New()
	client, err := babybuddy.NewClient(cfg, events, babybuddy.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("init baby buddy client: %w", err)
	}

	store := &state.Store{}
	store.SetStatus("Connecting to " + cfg.ServerAddr)
	refresher := NewRefresher(client, store, logger, savedChild(opts.PrefsPath))

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	logger.Info("starting",
		zap.String("server", cfg.ServerAddr),
		zap.Duration("poll", interval),
	)

	// The poller's first tick fires immediately and fills the store.
	StartPoller(ctx, store, refresher.RefreshThen, interval)

	return ui.Run(ui.Options{
		Context:   ctx,
		Loop:      events,
		Client:    client,
		Refresher: refresher,
		Store:     store,
		Logger:    logger,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	})
}

// savedChild reads the last selected child from the prefs file on each call.
// The UI saves it on every switch, so the value follows the user rather than
// the state at launch.
func savedChild(prefsPath string) func() int {
	return func() int {
		p, _ := prefs.Load(prefsPath)
		return p.ChildID
	}
}
