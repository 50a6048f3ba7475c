package app

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/five82/buddy/internal/babybuddy"
	"github.com/five82/buddy/internal/state"
)

// timelinePage is how many records of each collection are shown.
const timelinePage = 10

// API is the part of babybuddy.Client the refresher reads from.
type API interface {
	ListChildren(cb babybuddy.Callback[[]babybuddy.Child])
	ListTimers(childID *int, cb babybuddy.Callback[[]babybuddy.Timer])
	ListFeedingEntries(childID, offset, count int, cb babybuddy.Callback[[]babybuddy.FeedingEntry])
	ListSleepEntries(childID, offset, count int, cb babybuddy.Callback[[]babybuddy.TimeEntry])
	ListTummyTimeEntries(childID, offset, count int, cb babybuddy.Callback[[]babybuddy.TimeEntry])
	ListChangeEntries(childID, offset, count int, cb babybuddy.Callback[[]babybuddy.ChangeEntry])
}

// Refresher reloads the store from the server. Refresh may be called from
// any goroutine; its callbacks land on the client's loop.
type Refresher struct {
	api       API
	store     *state.Store
	logger    *zap.Logger
	preferred func() int
}

// NewRefresher builds a Refresher. preferred supplies the child to select
// when the current selection disappears; it may be nil.
func NewRefresher(api API, store *state.Store, logger *zap.Logger, preferred func() int) *Refresher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if preferred == nil {
		preferred = func() int { return 0 }
	}
	return &Refresher{api: api, store: store, logger: logger, preferred: preferred}
}

// Refresh reloads the child list, then everything for the selected child.
func (r *Refresher) Refresh() {
	r.RefreshThen(nil)
}

// RefreshThen is Refresh, calling done on the loop once every request it
// issued has settled. done may be nil.
func (r *Refresher) RefreshThen(done func()) {
	b := &batch{done: done}
	b.add(1)
	r.api.ListChildren(tracked(b,
		func(children []babybuddy.Child) {
			r.store.SetChildren(children, r.preferred())
			r.refreshChild(r.store.Snapshot().SelectedChild, b)
		},
		r.fail("list children"),
	))
}

// RefreshChild reloads the timers and timeline of one child. A zero id is a
// no-op.
func (r *Refresher) RefreshChild(childID int) {
	r.refreshChild(childID, &batch{})
}

func (r *Refresher) refreshChild(childID int, b *batch) {
	if childID == 0 {
		return
	}
	b.add(5)
	id := childID
	r.api.ListTimers(&id, tracked(b,
		func(timers []babybuddy.Timer) { r.store.SetTimers(childID, timers) },
		r.fail("list timers"),
	))
	r.api.ListFeedingEntries(childID, 0, timelinePage, tracked(b,
		func(entries []babybuddy.FeedingEntry) {
			r.store.SetEntries(childID, babybuddy.ActivityFeeding, widen(entries))
		},
		r.fail("list feedings"),
	))
	r.api.ListSleepEntries(childID, 0, timelinePage, tracked(b,
		func(entries []babybuddy.TimeEntry) {
			r.store.SetEntries(childID, babybuddy.ActivitySleep, widen(entries))
		},
		r.fail("list sleep"),
	))
	r.api.ListTummyTimeEntries(childID, 0, timelinePage, tracked(b,
		func(entries []babybuddy.TimeEntry) {
			r.store.SetEntries(childID, babybuddy.ActivityTummyTime, widen(entries))
		},
		r.fail("list tummy time"),
	))
	r.api.ListChangeEntries(childID, 0, timelinePage, tracked(b,
		func(entries []babybuddy.ChangeEntry) {
			r.store.SetEntries(childID, babybuddy.EventChange, widen(entries))
		},
		r.fail("list changes"),
	))
}

// batch counts outstanding requests of one refresh. Requests are added
// before the callback that issues them settles, so the count only reaches
// zero once.
type batch struct {
	pending atomic.Int32
	done    func()
}

func (b *batch) add(n int) {
	b.pending.Add(int32(n))
}

func (b *batch) finish() {
	if b.pending.Add(-1) == 0 && b.done != nil {
		b.done()
	}
}

func tracked[R any](b *batch, onResponse func(R), onError func(error)) babybuddy.Callbacks[R] {
	return babybuddy.Callbacks[R]{
		OnResponse: func(v R) {
			onResponse(v)
			b.finish()
		},
		OnError: func(err error) {
			onError(err)
			b.finish()
		},
	}
}

func (r *Refresher) fail(op string) func(error) {
	return func(err error) {
		r.logger.Warn("refresh failed", zap.String("op", op), zap.Error(err))
		r.store.RecordFailure(err)
	}
}

func widen[TE babybuddy.TimelineEntry](entries []TE) []babybuddy.TimelineEntry {
	out := make([]babybuddy.TimelineEntry, len(entries))
	for i, e := range entries {
		out[i] = e
	}
	return out
}
