package babybuddy

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	// UnsetOffsetMillis is the offset before any server date was observed.
	UnsetOffsetMillis int64 = -1000

	// serverDateLayout matches the HTTP Date header, e.g.
	// "Mon, 2 Jan 2006 15:04:05 GMT". Single and double digit days both parse.
	serverDateLayout = "Mon, 2 Jan 2006 15:04:05 MST"

	transitLatency = 100 * time.Millisecond
)

// ServerClock approximates the server's current time.
type ServerClock interface {
	Now() time.Time
}

// Clock tracks the offset between device time and server time.
type Clock struct {
	offset atomic.Int64
	device func() time.Time
	logger *zap.Logger
}

// NewClock returns a Clock with the unset offset. A nil device func uses
// time.Now.
func NewClock(device func() time.Time, logger *zap.Logger) *Clock {
	if device == nil {
		device = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Clock{device: device, logger: logger}
	c.offset.Store(UnsetOffsetMillis)
	return c
}

// Observe updates the offset from a response Date header. An empty or
// unparsable header leaves the previous offset in place.
func (c *Clock) Observe(dateHeader string) {
	if dateHeader == "" {
		return
	}
	server, err := time.Parse(serverDateLayout, dateHeader)
	if err != nil {
		c.logger.Debug("ignoring server date", zap.String("date", dateHeader), zap.Error(err))
		return
	}
	offset := server.Sub(c.device()) - transitLatency
	prev := c.offset.Swap(offset.Milliseconds())
	if prev != offset.Milliseconds() {
		c.logger.Debug("server clock offset updated",
			zap.Int64("offset_ms", offset.Milliseconds()),
			zap.Int64("previous_ms", prev),
		)
	}
}

// OffsetMillis returns server time minus device time, in milliseconds.
func (c *Clock) OffsetMillis() int64 {
	return c.offset.Load()
}

// Now returns device time shifted by the current offset.
func (c *Clock) Now() time.Time {
	return c.device().Add(time.Duration(c.OffsetMillis()) * time.Millisecond)
}
