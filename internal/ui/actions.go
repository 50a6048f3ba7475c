package ui

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/buddy/internal/babybuddy"
)

func (m *Model) moveChild(delta int) {
	children := m.snapshot.Children
	if len(children) == 0 {
		return
	}
	idx := 0
	for i, c := range children {
		if c.ID == m.snapshot.SelectedChild {
			idx = i
			break
		}
	}
	next := (idx + delta + len(children)) % len(children)
	id := children[next].ID
	if !m.store.Select(id) {
		return
	}
	m.timerRow = 0
	m.prefs.ChildID = id
	m.savePrefs()
	m.refresher.RefreshChild(id)
}

func (m Model) selectedTimer() (babybuddy.Timer, bool) {
	if m.timerRow < 0 || m.timerRow >= len(m.snapshot.Timers) {
		return babybuddy.Timer{}, false
	}
	return m.snapshot.Timers[m.timerRow], true
}

func (m Model) toggleTimer() {
	timer, ok := m.selectedTimer()
	if !ok {
		return
	}
	op, verb := "Start timer", "Started"
	if timer.Active {
		op, verb = "Stop timer", "Stopped"
	}
	m.client.SetTimerActive(timer.ID, !timer.Active,
		m.done(op, verb+" "+timer.ReadableName()))
}

func (m Model) newTimer() {
	child, ok := m.snapshot.Child()
	if !ok {
		return
	}
	*m.inFlight++
	m.client.CreateTimer(child, "", babybuddy.Callbacks[babybuddy.Timer]{
		OnResponse: func(t babybuddy.Timer) {
			m.finish("Started " + t.ReadableName())
		},
		OnError: m.fail("Create timer"),
	})
}

func (m Model) deleteTimer() {
	timer, ok := m.selectedTimer()
	if !ok {
		return
	}
	m.client.DeleteTimer(timer.ID, m.done("Delete timer", "Deleted "+timer.ReadableName()))
}

func (m Model) recordChange(wet, solid bool) {
	child, ok := m.snapshot.Child()
	if !ok {
		return
	}
	m.client.CreateChangeRecord(child, wet, solid, "",
		m.done("Record change", fmt.Sprintf("Recorded %s change for %s", changeKind(wet, solid), child.FirstName)))
}

func (m Model) deleteNewestEntry() {
	timeline := m.snapshot.Timeline()
	if len(timeline) == 0 {
		return
	}
	entry := timeline[0]
	m.client.RemoveTimelineEntry(entry, m.done("Delete entry", "Deleted "+entryTitle(entry.Common().Type)))
}

// done counts an action as in flight and returns the callback that settles
// it.
func (m Model) done(op, status string) babybuddy.Callback[bool] {
	*m.inFlight++
	return babybuddy.Callbacks[bool]{
		OnResponse: func(bool) { m.finish(status) },
		OnError:    m.fail(op),
	}
}

func (m Model) finish(status string) {
	*m.inFlight--
	m.store.SetStatus(status)
	m.refresher.RefreshChild(m.store.Snapshot().SelectedChild)
}

func (m Model) fail(op string) func(error) {
	return func(err error) {
		*m.inFlight--
		m.logger.Warn("action failed", zap.String("action", op), zap.Error(err))
		m.store.RecordFailure(err)
		m.store.SetStatus(op + " failed")
	}
}

func changeKind(wet, solid bool) string {
	switch {
	case wet && solid:
		return "wet+solid"
	case solid:
		return "solid"
	case wet:
		return "wet"
	}
	return "dry"
}
