// Package loop provides the hand-off queue that moves work from background
// goroutines onto a single consumer goroutine.
//
// Producers call Post from anywhere. The owner drains the queue with
// RunPending (when it already has an event loop, such as Bubble Tea's Update)
// or with Run (when the loop is the main thing the goroutine does). Tasks run
// strictly one at a time, in the order they were posted.
package loop

import (
	"context"
	"sync"
	"sync/atomic"
)

// Loop is an unbounded, thread-safe FIFO of tasks with a single consumer.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	ready chan struct{}

	draining atomic.Bool
}

// New returns an empty Loop.
func New() *Loop {
	return &Loop{ready: make(chan struct{}, 1)}
}

// Post queues fn for the consumer. It never blocks and never runs fn itself.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

// Ready is signalled whenever at least one task may be waiting. A receive
// may be spurious; RunPending copes with an empty queue.
func (l *Loop) Ready() <-chan struct{} {
	return l.ready
}

// Pending reports how many tasks are queued.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// RunPending runs every queued task on the calling goroutine, including tasks
// posted while draining, and returns how many ran.
func (l *Loop) RunPending() int {
	l.draining.Store(true)
	defer l.draining.Store(false)

	ran := 0
	for {
		l.mu.Lock()
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Draining reports whether a RunPending call is currently executing tasks.
func (l *Loop) Draining() bool {
	return l.draining.Load()
}

// Run drains the queue on the calling goroutine until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ready:
			l.RunPending()
		}
	}
}
