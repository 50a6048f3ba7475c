package ui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/buddy/internal/babybuddy"
	"github.com/five82/buddy/internal/loop"
	"github.com/five82/buddy/internal/prefs"
	"github.com/five82/buddy/internal/state"
)

// fakeClient answers every call through the loop, like the real client.
type fakeClient struct {
	loop  *loop.Loop
	clock *babybuddy.Clock
	fail  error

	calls   []string
	changes [][2]bool
	removed []babybuddy.TimelineEntry
}

func (f *fakeClient) Clock() *babybuddy.Clock { return f.clock }

func (f *fakeClient) reply(cb babybuddy.Callback[bool]) {
	f.loop.Post(func() {
		if f.fail != nil {
			cb.Error(f.fail)
			return
		}
		cb.Response(true)
	})
}

func (f *fakeClient) CreateTimer(child babybuddy.Child, name string, cb babybuddy.Callback[babybuddy.Timer]) {
	f.calls = append(f.calls, "create")
	f.loop.Post(func() { cb.Response(babybuddy.Timer{ID: 77}) })
}

func (f *fakeClient) DeleteTimer(id int, cb babybuddy.Callback[bool]) {
	f.calls = append(f.calls, "delete")
	f.reply(cb)
}

func (f *fakeClient) SetTimerActive(id int, active bool, cb babybuddy.Callback[bool]) {
	if active {
		f.calls = append(f.calls, "restart")
	} else {
		f.calls = append(f.calls, "stop")
	}
	f.reply(cb)
}

func (f *fakeClient) CreateChangeRecord(child babybuddy.Child, wet, solid bool, notes string, cb babybuddy.Callback[bool]) {
	f.calls = append(f.calls, "change")
	f.changes = append(f.changes, [2]bool{wet, solid})
	f.reply(cb)
}

func (f *fakeClient) RemoveTimelineEntry(entry babybuddy.TimelineEntry, cb babybuddy.Callback[bool]) {
	f.calls = append(f.calls, "remove")
	f.removed = append(f.removed, entry)
	f.reply(cb)
}

type fakeRefresher struct {
	full     int
	children []int
}

func (r *fakeRefresher) Refresh()                 { r.full++ }
func (r *fakeRefresher) RefreshChild(childID int) { r.children = append(r.children, childID) }

type fixture struct {
	model     Model
	client    *fakeClient
	refresher *fakeRefresher
	store     *state.Store
	loop      *loop.Loop
	prefsPath string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	l := loop.New()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := babybuddy.NewClock(func() time.Time { return now }, nil)
	clock.Observe("Wed, 01 May 2024 12:00:01 GMT")

	store := &state.Store{}
	store.SetChildren([]babybuddy.Child{{ID: 1, FirstName: "Ann"}, {ID: 2, FirstName: "Bo"}}, 1)

	start := now.Add(-90 * time.Second)
	name := "Nap"
	store.SetTimers(1, []babybuddy.Timer{
		{ID: 10, Name: &name, Start: &start, Active: true},
		{ID: 11, Start: &start},
	})
	earlier := now.Add(-time.Hour)
	store.SetEntries(1, babybuddy.EventChange, []babybuddy.TimelineEntry{
		babybuddy.ChangeEntry{TimeEntry: babybuddy.TimeEntry{Type: babybuddy.EventChange, TypeID: 5, Start: &earlier, End: &earlier}, Wet: true},
	})
	store.SetEntries(1, babybuddy.ActivitySleep, []babybuddy.TimelineEntry{
		babybuddy.TimeEntry{Type: babybuddy.ActivitySleep, TypeID: 6, Start: &start},
	})

	client := &fakeClient{loop: l, clock: clock}
	refresher := &fakeRefresher{}
	prefsPath := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{
		Loop:      l,
		Client:    client,
		Refresher: refresher,
		Store:     store,
		Prefs:     prefs.Prefs{Theme: "Nightfox", ChildID: 1},
		PrefsPath: prefsPath,
	})
	return &fixture{model: m, client: client, refresher: refresher, store: store, loop: l, prefsPath: prefsPath}
}

func (f *fixture) press(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := f.model.Update(msg)
		f.model = next.(Model)
	}
}

// drain delivers queued callbacks the way the Bubble Tea program does.
func (f *fixture) drain(t *testing.T) {
	t.Helper()
	next, _ := f.model.Update(loopReadyMsg{})
	f.model = next.(Model)
}

func TestModel_RecordChangeKeys(t *testing.T) {
	f := newFixture(t)
	f.press(t, "w", "s", "b")

	want := [][2]bool{{true, false}, {false, true}, {true, true}}
	if len(f.client.changes) != len(want) {
		t.Fatalf("changes = %v, want %v", f.client.changes, want)
	}
	for i := range want {
		if f.client.changes[i] != want[i] {
			t.Fatalf("change %d = %v, want %v", i, f.client.changes[i], want[i])
		}
	}
	if !f.model.busy() {
		t.Fatalf("model should be busy before callbacks run")
	}

	f.drain(t)
	if f.model.busy() {
		t.Fatalf("model still busy after callbacks ran")
	}
	if len(f.refresher.children) != 3 || f.refresher.children[0] != 1 {
		t.Fatalf("RefreshChild calls = %v, want three for child 1", f.refresher.children)
	}
	if got := f.model.snapshot.Status; got != "Recorded wet+solid change for Ann" {
		t.Fatalf("status = %q", got)
	}
}

func TestModel_ToggleTimerFollowsActiveFlag(t *testing.T) {
	f := newFixture(t)
	f.press(t, " ", "J", " ")
	f.drain(t)

	if strings.Join(f.client.calls, ",") != "stop,restart" {
		t.Fatalf("calls = %v, want stop then restart", f.client.calls)
	}
	if f.model.snapshot.Status != "Started Quick timer #11" {
		t.Fatalf("status = %q", f.model.snapshot.Status)
	}
}

func TestModel_TimerSelectionIsClamped(t *testing.T) {
	f := newFixture(t)
	f.press(t, "K", "J", "J", "J")
	if f.model.timerRow != 1 {
		t.Fatalf("timerRow = %d, want 1", f.model.timerRow)
	}
	f.press(t, "d")
	f.drain(t)
	if f.model.snapshot.Status != "Deleted Quick timer #11" {
		t.Fatalf("status = %q", f.model.snapshot.Status)
	}
}

func TestModel_NewTimer(t *testing.T) {
	f := newFixture(t)
	f.press(t, "n")
	f.drain(t)
	if f.model.snapshot.Status != "Started Quick timer #77" {
		t.Fatalf("status = %q", f.model.snapshot.Status)
	}
}

func TestModel_DeleteNewestEntry(t *testing.T) {
	f := newFixture(t)
	f.press(t, "x")
	if len(f.client.removed) != 1 || f.client.removed[0].Common().TypeID != 6 {
		t.Fatalf("removed = %v, want sleep entry 6", f.client.removed)
	}
}

func TestModel_FailureIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.client.fail = errors.New("request failed with status 500: Internal Server Error")
	f.press(t, "w")
	f.drain(t)

	snap := f.model.snapshot
	if snap.LastError == nil || snap.ConsecutiveFailures != 1 {
		t.Fatalf("snapshot = %+v, want one recorded failure", snap)
	}
	if snap.Status != "Record change failed" {
		t.Fatalf("status = %q", snap.Status)
	}
	if len(f.refresher.children) != 0 {
		t.Fatalf("failed action should not refresh")
	}
}

func TestModel_SwitchChildSavesPrefs(t *testing.T) {
	f := newFixture(t)
	f.press(t, "j")

	if got := f.store.Snapshot().SelectedChild; got != 2 {
		t.Fatalf("SelectedChild = %d, want 2", got)
	}
	if len(f.refresher.children) != 1 || f.refresher.children[0] != 2 {
		t.Fatalf("RefreshChild calls = %v, want [2]", f.refresher.children)
	}
	saved, err := prefs.Load(f.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load returned error: %v", err)
	}
	if saved.ChildID != 2 {
		t.Fatalf("saved ChildID = %d, want 2", saved.ChildID)
	}

	f.press(t, "j")
	if got := f.store.Snapshot().SelectedChild; got != 1 {
		t.Fatalf("SelectedChild = %d after wrap, want 1", got)
	}
}

func TestModel_CycleThemeAndRefresh(t *testing.T) {
	f := newFixture(t)
	f.press(t, "T", "r")

	if f.model.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", f.model.theme.Name)
	}
	if f.refresher.full != 1 {
		t.Fatalf("Refresh calls = %d, want 1", f.refresher.full)
	}
	saved, _ := prefs.Load(f.prefsPath)
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestModel_ViewShowsTimersAndTimeline(t *testing.T) {
	f := newFixture(t)
	next, _ := f.model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	f.model = next.(Model)

	view := f.model.View()
	for _, want := range []string{"Ann", "Bo", "Nap", "Quick timer #11", "1m 30s", "Timeline", "Sleep", "Change"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	f.press(t, "?")
	if !strings.Contains(f.model.View(), "Keyboard Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	f.press(t, "w")
	if !strings.Contains(f.model.View(), "Timers") || len(f.client.changes) != 0 {
		t.Fatalf("key while help is open should only close help")
	}
}

func TestModel_QuitKey(t *testing.T) {
	f := newFixture(t)
	_, cmd := f.model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestModel_LogPaneShowsTail(t *testing.T) {
	f := newFixture(t)
	logPath := filepath.Join(t.TempDir(), "buddy.log")
	line := `{"level":"warn","time":"2024-05-01T12:00:00.000Z","msg":"refresh failed","op":"list timers"}`
	if err := os.WriteFile(logPath, []byte(line+"\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	f.model.logPath = logPath
	next, _ := f.model.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	f.model = next.(Model)

	f.press(t, "L")
	view := f.model.View()
	if !strings.Contains(view, "WARN") || !strings.Contains(view, "refresh failed op=list timers") {
		t.Fatalf("log pane missing entry:\n%s", view)
	}
	f.press(t, "L")
	if strings.Contains(f.model.View(), "refresh failed") {
		t.Fatalf("log pane still shown after toggle")
	}
}
