package app

import (
	"context"
	"time"

	"github.com/five82/buddy/internal/state"
)

const (
	defaultPollInterval = 10 * time.Second
	maxBackoff          = 2 * time.Minute
)

// StartPoller launches a background goroutine that calls refresh at a fixed
// cadence, backing off while the server keeps failing. It returns
// immediately.
//
// refresh must call done once its results are in the store. The next delay
// is computed after that, so backoff sees the failures of the poll that just
// ran. If done has not been called within interval, the poller reschedules
// from the failures recorded so far.
func StartPoller(ctx context.Context, store *state.Store, refresh func(done func()), interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	go func() {
		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			settled := make(chan struct{}, 1)
			refresh(func() {
				select {
				case settled <- struct{}{}:
				default:
				}
			})
			wait := time.NewTimer(interval)
			select {
			case <-ctx.Done():
				wait.Stop()
				return
			case <-settled:
			case <-wait.C:
			}
			wait.Stop()

			timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
		}
	}()
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	backoff := interval
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
