package state

import (
	"slices"
	"sync"
	"time"

	"github.com/five82/buddy/internal/babybuddy"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Children      []babybuddy.Child
	SelectedChild int // child id; 0 when nothing is selected
	Timers        []babybuddy.Timer
	// Entries holds the most recent timeline page per collection, keyed by
	// babybuddy collection name.
	Entries map[string][]babybuddy.TimelineEntry

	Status              string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the server has been unreachable for multiple
// refreshes in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Child returns the selected child.
func (s Snapshot) Child() (babybuddy.Child, bool) {
	for _, c := range s.Children {
		if c.ID == s.SelectedChild {
			return c, true
		}
	}
	return babybuddy.Child{}, false
}

// Timeline merges every collection newest first. Entries without a start
// sort last.
func (s Snapshot) Timeline() []babybuddy.TimelineEntry {
	var merged []babybuddy.TimelineEntry
	for _, entries := range s.Entries {
		merged = append(merged, entries...)
	}
	slices.SortStableFunc(merged, func(a, b babybuddy.TimelineEntry) int {
		as, bs := a.Common().Start, b.Common().Start
		switch {
		case as == nil && bs == nil:
			return compareIdentity(a.Common(), b.Common())
		case as == nil:
			return 1
		case bs == nil:
			return -1
		}
		if c := bs.Compare(*as); c != 0 {
			return c
		}
		return compareIdentity(a.Common(), b.Common())
	})
	return merged
}

func compareIdentity(a, b babybuddy.TimeEntry) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}
	return b.TypeID - a.TypeID
}

// Store coordinates access to the snapshot. Callbacks write it from the UI
// goroutine; the poller and the view read it.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// SetChildren replaces the child list. The selection is kept when that child
// still exists, otherwise preferred is tried, then the first child.
func (s *Store) SetChildren(children []babybuddy.Child, preferred int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Children = slices.Clone(children)
	selected := s.snapshot.SelectedChild
	if !hasChild(children, selected) {
		selected = 0
		if hasChild(children, preferred) {
			selected = preferred
		} else if len(children) > 0 {
			selected = children[0].ID
		}
	}
	if selected != s.snapshot.SelectedChild {
		s.snapshot.Timers = nil
		s.snapshot.Entries = nil
	}
	s.snapshot.SelectedChild = selected
	s.markSuccess()
}

// Select switches the selected child and clears data that belonged to the
// previous one. Unknown ids are ignored.
func (s *Store) Select(childID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !hasChild(s.snapshot.Children, childID) || childID == s.snapshot.SelectedChild {
		return false
	}
	s.snapshot.SelectedChild = childID
	s.snapshot.Timers = nil
	s.snapshot.Entries = nil
	return true
}

// SetTimers replaces the timers of the selected child. Timers for another
// child arrive late after a selection change and are dropped.
func (s *Store) SetTimers(childID int, timers []babybuddy.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if childID != s.snapshot.SelectedChild {
		return
	}
	dup := make([]babybuddy.Timer, len(timers))
	for i, t := range timers {
		dup[i] = t.Clone()
	}
	s.snapshot.Timers = dup
	s.markSuccess()
}

// SetEntries replaces one collection's timeline page for the selected child.
func (s *Store) SetEntries(childID int, collection string, entries []babybuddy.TimelineEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if childID != s.snapshot.SelectedChild {
		return
	}
	if s.snapshot.Entries == nil {
		s.snapshot.Entries = make(map[string][]babybuddy.TimelineEntry)
	}
	s.snapshot.Entries[collection] = slices.Clone(entries)
	s.markSuccess()
}

// SetStatus records a message for the status line.
func (s *Store) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Status = msg
}

// RecordFailure keeps the previous data but records err for visibility.
func (s *Store) RecordFailure(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastError = err
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures++
}

func (s *Store) markSuccess() {
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Children = slices.Clone(s.snapshot.Children)
	if s.snapshot.Timers != nil {
		snap.Timers = make([]babybuddy.Timer, len(s.snapshot.Timers))
		for i, t := range s.snapshot.Timers {
			snap.Timers[i] = t.Clone()
		}
	}
	if s.snapshot.Entries != nil {
		snap.Entries = make(map[string][]babybuddy.TimelineEntry, len(s.snapshot.Entries))
		for k, v := range s.snapshot.Entries {
			snap.Entries[k] = slices.Clone(v)
		}
	}
	return snap
}

func hasChild(children []babybuddy.Child, id int) bool {
	if id == 0 {
		return false
	}
	for _, c := range children {
		if c.ID == id {
			return true
		}
	}
	return false
}
