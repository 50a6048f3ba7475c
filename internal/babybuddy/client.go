package babybuddy

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Credentials supplies the server location and app token. They are read on
// every request, so a credential store may change them at any time.
type Credentials interface {
	ServerURL() string
	AppToken() string
}

const defaultUserAgent = "buddy/0.1"

// Client talks to the Baby Buddy REST API. Every operation returns at once;
// its outcome arrives through the callback on the Poster's loop.
type Client struct {
	creds     Credentials
	poster    Poster
	http      *http.Client
	clock     *Clock
	logger    *zap.Logger
	userAgent string
	device    func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithDeviceClock replaces time.Now as the device clock.
func WithDeviceClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.device = now
		}
	}
}

// NewClient builds a Client that delivers callbacks through poster.
func NewClient(creds Credentials, poster Poster, opts ...Option) (*Client, error) {
	if creds == nil {
		return nil, errors.New("credentials are required")
	}
	if poster == nil {
		return nil, errors.New("poster is required")
	}
	c := &Client{
		creds:     creds,
		poster:    poster,
		http:      &http.Client{},
		logger:    zap.NewNop(),
		userAgent: defaultUserAgent,
		device:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.clock = NewClock(c.device, c.logger)
	return c, nil
}

// Clock exposes the server clock estimate.
func (c *Client) Clock() *Clock {
	return c.clock
}

// ServerNow approximates the server's current time.
func (c *Client) ServerNow() time.Time {
	return c.clock.Now()
}

// OffsetMillis returns the current server clock offset.
func (c *Client) OffsetMillis() int64 {
	return c.clock.OffsetMillis()
}

// ListChildren lists every child.
func (c *Client) ListChildren(cb Callback[[]Child]) {
	listGeneric(c, "children", nil, func(raw json.RawMessage) (Child, error) {
		var child Child
		if err := json.Unmarshal(raw, &child); err != nil {
			return Child{}, decodeErr("child", err)
		}
		return child, nil
	}, cb)
}

// ListTimers lists timers, optionally for one child, sorted by id.
func (c *Client) ListTimers(childID *int, cb Callback[[]Timer]) {
	var query QueryValues
	if childID != nil {
		query = NewQueryValues().AddInt("child", *childID)
	}
	decodeTimers := decodeList("timers", decodeTimer)
	dispatch(c, http.MethodGet, listPath("timers", query), nil, func(body []byte) ([]Timer, error) {
		timers, err := decodeTimers(body)
		if err != nil {
			return nil, err
		}
		slices.SortStableFunc(timers, func(a, b Timer) int { return a.ID - b.ID })
		return timers, nil
	}, cb)
}

// GetTimer fetches a single timer.
func (c *Client) GetTimer(id int, cb Callback[Timer]) {
	dispatch(c, http.MethodGet, timerPath(id), nil, decodeJSON[Timer]("timer"), cb)
}

// CreateTimer starts a timer for child, stamped with the server's now.
func (c *Client) CreateTimer(child Child, name string, cb Callback[Timer]) {
	payload := map[string]any{
		"child": child.ID,
		"start": formatStamp(c.clock.Now()),
	}
	if name != "" {
		payload["name"] = name
	}
	dispatch(c, http.MethodPost, "api/timers/", payload, decodeJSON[Timer]("timer"), cb)
}

// DeleteTimer deletes a timer. The response body is not inspected.
func (c *Client) DeleteTimer(id int, cb Callback[bool]) {
	dispatch(c, http.MethodDelete, timerPath(id), nil, ignoreBody, cb)
}

// SetTimerActive restarts (active) or stops (inactive) a timer.
func (c *Client) SetTimerActive(id int, active bool, cb Callback[bool]) {
	action := "stop/"
	if active {
		action = "restart/"
	}
	dispatch(c, http.MethodPatch, timerPath(id)+action, nil, ignoreBody, cb)
}

// CreateSleepRecordFromTimer turns a timer into a sleep record.
func (c *Client) CreateSleepRecordFromTimer(timer Timer, notes string, cb Callback[bool]) {
	payload := map[string]any{
		"timer": timer.ID,
		"notes": notes,
	}
	dispatch(c, http.MethodPost, "api/"+ActivitySleep+"/", payload, ignoreBody, cb)
}

// CreateTummyTimeRecordFromTimer turns a timer into a tummy time record.
func (c *Client) CreateTummyTimeRecordFromTimer(timer Timer, milestone string, cb Callback[bool]) {
	payload := map[string]any{
		"timer":     timer.ID,
		"milestone": milestone,
	}
	dispatch(c, http.MethodPost, "api/"+ActivityTummyTime+"/", payload, ignoreBody, cb)
}

// CreateFeedingRecordFromTimer turns a timer into a feeding record. amount
// is optional.
func (c *Client) CreateFeedingRecordFromTimer(timer Timer, feedingType FeedingType, method FeedingMethod, amount *float64, notes string, cb Callback[bool]) {
	payload := map[string]any{
		"timer":  timer.ID,
		"type":   feedingType.String(),
		"method": method.String(),
		"notes":  notes,
	}
	if amount != nil {
		payload["amount"] = *amount
	}
	dispatch(c, http.MethodPost, "api/"+ActivityFeeding+"/", payload, ignoreBody, cb)
}

// CreateChangeRecord records a diaper change at the server's now.
func (c *Client) CreateChangeRecord(child Child, wet, solid bool, notes string, cb Callback[bool]) {
	payload := map[string]any{
		"child": child.ID,
		"time":  formatStamp(c.clock.Now()),
		"wet":   wet,
		"solid": solid,
		"color": "",
		"notes": notes,
	}
	dispatch(c, http.MethodPost, "api/"+EventChange+"/", payload, ignoreBody, cb)
}

// ListSleepEntries pages through a child's sleep records.
func (c *Client) ListSleepEntries(childID, offset, count int, cb Callback[[]TimeEntry]) {
	readTimeline(c, ActivitySleep, childID, offset, count, DecodeSleepEntry, cb)
}

// ListFeedingEntries pages through a child's feedings.
func (c *Client) ListFeedingEntries(childID, offset, count int, cb Callback[[]FeedingEntry]) {
	readTimeline(c, ActivityFeeding, childID, offset, count, DecodeFeedingEntry, cb)
}

// ListTummyTimeEntries pages through a child's tummy time records.
func (c *Client) ListTummyTimeEntries(childID, offset, count int, cb Callback[[]TimeEntry]) {
	readTimeline(c, ActivityTummyTime, childID, offset, count, DecodeTummyTimeEntry, cb)
}

// ListChangeEntries pages through a child's diaper changes.
func (c *Client) ListChangeEntries(childID, offset, count int, cb Callback[[]ChangeEntry]) {
	readTimeline(c, EventChange, childID, offset, count, DecodeChangeEntry, cb)
}

// RemoveTimelineEntry deletes any timeline record.
func (c *Client) RemoveTimelineEntry(entry TimelineEntry, cb Callback[bool]) {
	dispatch(c, http.MethodDelete, entry.APIPath(), nil, ignoreBody, cb)
}

// UpdateTimelineEntry patches a record with values and delivers the updated
// record decoded as the same kind.
func (c *Client) UpdateTimelineEntry(entry TimelineEntry, values QueryValues, cb Callback[TimelineEntry]) {
	kind := entry.Common().Type
	dispatch(c, http.MethodPatch, entry.APIPath(), values, func(body []byte) (TimelineEntry, error) {
		return DecodeTimelineEntry(kind, body)
	}, cb)
}

func timerPath(id int) string {
	return "api/timers/" + strconv.Itoa(id) + "/"
}

func decodeTimer(raw json.RawMessage) (Timer, error) {
	var t Timer
	if err := json.Unmarshal(raw, &t); err != nil {
		return Timer{}, decodeErr("timer", err)
	}
	return t, nil
}
