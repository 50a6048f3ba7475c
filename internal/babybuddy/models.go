package babybuddy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Activity collections: records that span a start and an end.
const (
	ActivitySleep     = "sleep"
	ActivityTummyTime = "tummy-times"
	ActivityFeeding   = "feedings"
)

// Event collections: records that happen at a single instant.
const (
	EventChange = "changes"
)

// Activities lists the activity collections in their stable order.
var Activities = []string{ActivityFeeding, ActivitySleep, ActivityTummyTime}

// Events lists the event collections in their stable order.
var Events = []string{EventChange}

// ActivityIndex returns the position of name in Activities, or -1.
func ActivityIndex(name string) int {
	return indexOf(Activities, name)
}

// EventIndex returns the position of name in Events, or -1.
func EventIndex(name string) int {
	return indexOf(Events, name)
}

func indexOf(values []string, name string) int {
	for i, v := range values {
		if v == name {
			return i
		}
	}
	return -1
}

// Child is a child profile as returned by api/children/.
type Child struct {
	ID        int    `json:"id"`
	Slug      string `json:"slug"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthDate string `json:"birth_date"`
}

// UnmarshalJSON requires the id field; the rest default to empty strings.
func (c *Child) UnmarshalJSON(data []byte) error {
	type plain Child
	var wire struct {
		ID *int `json:"id"`
		plain
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ID == nil {
		return errors.New("child: missing id")
	}
	*c = Child(wire.plain)
	c.ID = *wire.ID
	return nil
}

// Timer is a running or stopped timer.
type Timer struct {
	ID      int
	ChildID *int
	Name    *string
	Start   *time.Time
	End     *time.Time
	Active  bool
	UserID  int
}

type timerIn struct {
	ID     *int            `json:"id"`
	Child  *int            `json:"child"`
	Name   *string         `json:"name"`
	Start  json.RawMessage `json:"start"`
	End    json.RawMessage `json:"end"`
	Active bool            `json:"active"`
	User   int             `json:"user"`
}

type timerOut struct {
	ID     int     `json:"id"`
	Child  *int    `json:"child"`
	Name   *string `json:"name"`
	Start  *string `json:"start"`
	End    *string `json:"end"`
	Active bool    `json:"active"`
	User   int     `json:"user"`
}

// UnmarshalJSON decodes the wire form, parsing start and end dates.
func (t *Timer) UnmarshalJSON(data []byte) error {
	var wire timerIn
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.ID == nil {
		return errors.New("timer: missing id")
	}
	start, err := parseNullableTime(wire.Start)
	if err != nil {
		return fmt.Errorf("timer %d start: %w", *wire.ID, err)
	}
	end, err := parseNullableTime(wire.End)
	if err != nil {
		return fmt.Errorf("timer %d end: %w", *wire.ID, err)
	}
	*t = Timer{
		ID:      *wire.ID,
		ChildID: wire.Child,
		Name:    wire.Name,
		Start:   start,
		End:     end,
		Active:  wire.Active,
		UserID:  wire.User,
	}
	return nil
}

// MarshalJSON encodes the timer in wire form; absent fields become null.
func (t Timer) MarshalJSON() ([]byte, error) {
	return json.Marshal(timerOut{
		ID:     t.ID,
		Child:  t.ChildID,
		Name:   t.Name,
		Start:  wireTime(t.Start),
		End:    wireTime(t.End),
		Active: t.Active,
		User:   t.UserID,
	})
}

// ReadableName returns the timer's name, or a generated label for unnamed
// timers.
func (t Timer) ReadableName() string {
	if t.Name != nil {
		return *t.Name
	}
	return "Quick timer #" + strconv.Itoa(t.ID)
}

// ComputeCurrentServerEndTime returns End when set. Otherwise the timer is
// still running and the server's current time is used. Nothing is stored.
func (t Timer) ComputeCurrentServerEndTime(clock ServerClock) time.Time {
	if t.End != nil {
		return *t.End
	}
	return clock.Now()
}

// Clone returns a deep copy sharing no pointers with t.
func (t Timer) Clone() Timer {
	out := t
	out.ChildID = clonePtr(t.ChildID)
	out.Name = clonePtr(t.Name)
	out.Start = clonePtr(t.Start)
	out.End = clonePtr(t.End)
	return out
}

// Equal reports whether both timers carry the same values.
func (t Timer) Equal(o Timer) bool {
	return t.ID == o.ID &&
		t.Active == o.Active &&
		t.UserID == o.UserID &&
		equalPtr(t.ChildID, o.ChildID) &&
		equalPtr(t.Name, o.Name) &&
		equalTime(t.Start, o.Start) &&
		equalTime(t.End, o.End)
}

func (t Timer) String() string {
	child := "nil"
	if t.ChildID != nil {
		child = strconv.Itoa(*t.ChildID)
	}
	return fmt.Sprintf("Timer{id=%d, child=%s, name=%q, start=%s, end=%s, active=%t, user=%d}",
		t.ID, child, t.ReadableName(), FormatTime(t.Start), FormatTime(t.End), t.Active, t.UserID)
}

// FeedingMethod is how a feeding was given. The zero value means unknown.
type FeedingMethod int

const (
	FeedingMethodUnset FeedingMethod = iota
	FeedingMethodBottle
	FeedingMethodLeftBreast
	FeedingMethodRightBreast
	FeedingMethodBothBreasts
	FeedingMethodParentFed
	FeedingMethodSelfFed
)

var feedingMethodNames = []struct {
	method FeedingMethod
	wire   string
}{
	{FeedingMethodBottle, "bottle"},
	{FeedingMethodLeftBreast, "left breast"},
	{FeedingMethodRightBreast, "right breast"},
	{FeedingMethodBothBreasts, "both breasts"},
	{FeedingMethodParentFed, "parent fed"},
	{FeedingMethodSelfFed, "self fed"},
}

// ParseFeedingMethod matches a wire value. Unknown values yield
// FeedingMethodUnset.
func ParseFeedingMethod(wire string) FeedingMethod {
	for _, m := range feedingMethodNames {
		if m.wire == wire {
			return m.method
		}
	}
	return FeedingMethodUnset
}

// String returns the wire value, or "" when unset.
func (m FeedingMethod) String() string {
	for _, n := range feedingMethodNames {
		if n.method == m {
			return n.wire
		}
	}
	return ""
}

// FeedingType is what was fed. The zero value means unknown.
type FeedingType int

const (
	FeedingTypeUnset FeedingType = iota
	FeedingTypeBreastMilk
	FeedingTypeFormula
	FeedingTypeFortifiedBreastMilk
	FeedingTypeSolidFood
)

var feedingTypeNames = []struct {
	kind FeedingType
	wire string
}{
	{FeedingTypeBreastMilk, "breast milk"},
	{FeedingTypeFormula, "formula"},
	{FeedingTypeFortifiedBreastMilk, "fortified breast milk"},
	{FeedingTypeSolidFood, "solid food"},
}

// ParseFeedingType matches a wire value. Unknown values yield
// FeedingTypeUnset.
func ParseFeedingType(wire string) FeedingType {
	for _, n := range feedingTypeNames {
		if n.wire == wire {
			return n.kind
		}
	}
	return FeedingTypeUnset
}

// String returns the wire value, or "" when unset.
func (f FeedingType) String() string {
	for _, n := range feedingTypeNames {
		if n.kind == f {
			return n.wire
		}
	}
	return ""
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
