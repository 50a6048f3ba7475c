package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/buddy/internal/babybuddy"
	"github.com/five82/buddy/internal/logtail"
	"github.com/five82/buddy/internal/loop"
	"github.com/five82/buddy/internal/prefs"
	"github.com/five82/buddy/internal/state"
)

// Client is the part of babybuddy.Client the UI acts through.
type Client interface {
	Clock() *babybuddy.Clock
	CreateTimer(child babybuddy.Child, name string, cb babybuddy.Callback[babybuddy.Timer])
	DeleteTimer(id int, cb babybuddy.Callback[bool])
	SetTimerActive(id int, active bool, cb babybuddy.Callback[bool])
	CreateChangeRecord(child babybuddy.Child, wet, solid bool, notes string, cb babybuddy.Callback[bool])
	RemoveTimelineEntry(entry babybuddy.TimelineEntry, cb babybuddy.Callback[bool])
}

// Refresher reloads the store.
type Refresher interface {
	Refresh()
	RefreshChild(childID int)
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Loop      *loop.Loop
	Client    Client
	Refresher Refresher
	Store     *state.Store
	Logger    *zap.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	loop      *loop.Loop
	client    Client
	refresher Refresher
	store     *state.Store
	logger    *zap.Logger
	prefs     prefs.Prefs
	prefsPath string
	logPath   string

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	theme   Theme

	width    int
	height   int
	ready    bool
	showHelp bool
	showLogs bool

	snapshot   state.Snapshot
	logEntries []logtail.Entry
	timerRow   int

	// inFlight counts actions awaiting their callback. Callbacks run on the
	// Update goroutine, so a shared counter needs no locking.
	inFlight *int
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	m := Model{
		ctx:       ctx,
		loop:      opts.Loop,
		client:    opts.Client,
		refresher: opts.Refresher,
		store:     opts.Store,
		logger:    logger,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		theme:     GetTheme(opts.Prefs.Theme),
		inFlight:  new(int),
	}
	m.applyTheme()
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForLoopCmd(m.ctx, m.loop),
		tickCmd(time.Second),
		m.spinner.Tick,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case loopReadyMsg:
		if m.loop != nil {
			m.loop.RunPending()
		}
		m.syncSnapshot()
		return m, waitForLoopCmd(m.ctx, m.loop)

	case tickMsg:
		// Running timers tick even when nothing arrives from the server.
		m.syncSnapshot()
		if m.showLogs {
			m.loadLogs()
		}
		return m, tickCmd(time.Second)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		if m.showLogs {
			m.loadLogs()
		}
	case key.Matches(msg, m.keys.Refresh):
		m.store.SetStatus("Refreshing...")
		m.refresher.Refresh()
	case key.Matches(msg, m.keys.NextChild):
		m.moveChild(1)
	case key.Matches(msg, m.keys.PrevChild):
		m.moveChild(-1)
	case key.Matches(msg, m.keys.NextTimer):
		if m.timerRow < len(m.snapshot.Timers)-1 {
			m.timerRow++
		}
	case key.Matches(msg, m.keys.PrevTimer):
		if m.timerRow > 0 {
			m.timerRow--
		}
	case key.Matches(msg, m.keys.ToggleTimer):
		m.toggleTimer()
	case key.Matches(msg, m.keys.NewTimer):
		m.newTimer()
	case key.Matches(msg, m.keys.DeleteTimer):
		m.deleteTimer()
	case key.Matches(msg, m.keys.WetChange):
		m.recordChange(true, false)
	case key.Matches(msg, m.keys.SolidChange):
		m.recordChange(false, true)
	case key.Matches(msg, m.keys.BothChange):
		m.recordChange(true, true)
	case key.Matches(msg, m.keys.DeleteEntry):
		m.deleteNewestEntry()
	default:
		return m, nil
	}
	m.syncSnapshot()
	return m, nil
}

func (m *Model) syncSnapshot() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	if m.timerRow >= len(m.snapshot.Timers) {
		m.timerRow = max(len(m.snapshot.Timers)-1, 0)
	}
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", zap.Error(err))
	}
}

func (m *Model) loadLogs() {
	if m.logPath == "" {
		m.logEntries = nil
		return
	}
	entries, err := logtail.Read(m.logPath, logRows)
	if err != nil {
		m.logger.Debug("read log failed", zap.Error(err))
		return
	}
	m.logEntries = entries
}

func (m Model) busy() bool {
	return *m.inFlight > 0
}

// Messages

type tickMsg time.Time

type loopReadyMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForLoopCmd blocks until the client loop has callbacks to run. Update
// then drains them on the Bubble Tea goroutine.
func waitForLoopCmd(ctx context.Context, l *loop.Loop) tea.Cmd {
	if l == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-l.Ready():
			return loopReadyMsg{}
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
