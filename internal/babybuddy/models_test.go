package babybuddy

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

type fixedClock time.Time

func (f fixedClock) Now() time.Time { return time.Time(f) }

func intPtr(v int) *int              { return &v }
func strPtr(v string) *string        { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func TestChild_DecodesWireFields(t *testing.T) {
	var c Child
	raw := `{"id":3,"slug":"ada-l","first_name":"Ada","last_name":"L","birth_date":"2023-12-01","picture":null}`
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	want := Child{ID: 3, Slug: "ada-l", FirstName: "Ada", LastName: "L", BirthDate: "2023-12-01"}
	if c != want {
		t.Fatalf("child = %+v, want %+v", c, want)
	}
}

func TestChild_MissingIDFails(t *testing.T) {
	var c Child
	if err := json.Unmarshal([]byte(`{"slug":"x"}`), &c); err == nil {
		t.Fatalf("expected error for child without id")
	}
}

func TestChild_RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		child Child
	}{
		{"zero value", Child{}},
		{"id only", Child{ID: 1}},
		{"all fields", Child{ID: 3, Slug: "ada-l", FirstName: "Ada", LastName: "L", BirthDate: "2023-12-01"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.child)
			if err != nil {
				t.Fatalf("Marshal returned error: %v", err)
			}
			var got Child
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", out, err)
			}
			if got != tt.child {
				t.Fatalf("round trip = %+v, want %+v", got, tt.child)
			}
		})
	}
}

func TestTimer_DecodeKeepsNulls(t *testing.T) {
	raw := `{"id":7,"child":null,"name":null,"start":"2024-05-01T08:00:00.250+02:00","end":null,"active":true,"user":2}`
	var timer Timer
	if err := json.Unmarshal([]byte(raw), &timer); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if timer.ID != 7 || timer.ChildID != nil || timer.Name != nil || timer.End != nil || !timer.Active || timer.UserID != 2 {
		t.Fatalf("timer = %s", timer)
	}
	if want := mustTime(t, "2024-05-01T06:00:00Z"); timer.Start == nil || !timer.Start.Equal(want) {
		t.Fatalf("Start = %v, want %v", timer.Start, want)
	}

	out, err := json.Marshal(timer)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	for _, fragment := range []string{`"child":null`, `"name":null`, `"end":null`, `"start":"2024-05-01T06:00:00+00:00"`} {
		if !strings.Contains(string(out), fragment) {
			t.Fatalf("encoded timer %s missing %s", out, fragment)
		}
	}
}

func TestTimer_RoundTrip(t *testing.T) {
	start := mustTime(t, "2024-05-01T08:00:00+02:00")
	end := mustTime(t, "2024-05-01T09:30:15Z")

	tests := []struct {
		name  string
		timer Timer
	}{
		{"zero value", Timer{}},
		{"all optional fields null", Timer{ID: 7, Active: true, UserID: 2}},
		{"all fields set", Timer{
			ID:      8,
			ChildID: intPtr(5),
			Name:    strPtr("Nap"),
			Start:   timePtr(start),
			End:     timePtr(end),
			UserID:  1,
		}},
		{"child and start only", Timer{ID: 9, ChildID: intPtr(2), Start: timePtr(start), Active: true}},
		{"name and end only", Timer{ID: 10, Name: strPtr(""), End: timePtr(end), UserID: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.timer)
			if err != nil {
				t.Fatalf("Marshal returned error: %v", err)
			}
			var got Timer
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("Unmarshal(%s) returned error: %v", out, err)
			}
			if !got.Equal(tt.timer) {
				t.Fatalf("round trip = %s, want %s", got, tt.timer)
			}
		})
	}
}

func TestTimer_BadDateIsDateFormatError(t *testing.T) {
	var timer Timer
	err := json.Unmarshal([]byte(`{"id":1,"start":"soon","active":false,"user":1}`), &timer)
	var dfe *DateFormatError
	if !errors.As(err, &dfe) {
		t.Fatalf("error = %v, want *DateFormatError", err)
	}
}

func TestTimer_CloneIsIndependent(t *testing.T) {
	start := mustTime(t, "2024-05-01T08:00:00Z")
	orig := Timer{ID: 1, ChildID: intPtr(4), Name: strPtr("nap"), Start: timePtr(start), Active: true, UserID: 9}

	clone := orig.Clone()
	if !clone.Equal(orig) {
		t.Fatalf("clone = %s, want %s", clone, orig)
	}

	*clone.ChildID = 5
	*clone.Name = "feed"
	*clone.Start = start.Add(time.Hour)
	if *orig.ChildID != 4 || *orig.Name != "nap" || !orig.Start.Equal(start) {
		t.Fatalf("mutating clone changed original: %s", orig)
	}
	if clone.Equal(orig) {
		t.Fatalf("Equal = true after mutation")
	}
}

func TestTimer_EqualComparesValuesNotPointers(t *testing.T) {
	a := Timer{ID: 2, Name: strPtr("x"), Start: timePtr(mustTime(t, "2024-05-01T08:00:00Z"))}
	b := Timer{ID: 2, Name: strPtr("x"), Start: timePtr(mustTime(t, "2024-05-01T10:00:00+02:00"))}
	if !a.Equal(b) {
		t.Fatalf("Equal = false for equal values")
	}
	b.Name = nil
	if a.Equal(b) {
		t.Fatalf("Equal = true with nil vs set name")
	}
}

func TestTimer_ComputeCurrentServerEndTime(t *testing.T) {
	now := mustTime(t, "2024-05-01T09:00:00Z")
	end := mustTime(t, "2024-05-01T08:30:00Z")

	running := Timer{ID: 1}
	if got := running.ComputeCurrentServerEndTime(fixedClock(now)); !got.Equal(now) {
		t.Fatalf("running end = %v, want %v", got, now)
	}
	if running.End != nil {
		t.Fatalf("ComputeCurrentServerEndTime stored an end time")
	}

	stopped := Timer{ID: 1, End: &end}
	if got := stopped.ComputeCurrentServerEndTime(fixedClock(now)); !got.Equal(end) {
		t.Fatalf("stopped end = %v, want %v", got, end)
	}
}

func TestTimer_ReadableName(t *testing.T) {
	if got := (Timer{ID: 12}).ReadableName(); got != "Quick timer #12" {
		t.Fatalf("ReadableName = %q", got)
	}
	if got := (Timer{ID: 12, Name: strPtr("bottle")}).ReadableName(); got != "bottle" {
		t.Fatalf("ReadableName = %q, want bottle", got)
	}
}

func TestActivityAndEventIndex(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string) int
		in   string
		want int
	}{
		{"feedings", ActivityIndex, ActivityFeeding, 0},
		{"sleep", ActivityIndex, ActivitySleep, 1},
		{"tummy", ActivityIndex, ActivityTummyTime, 2},
		{"change_is_not_activity", ActivityIndex, EventChange, -1},
		{"changes", EventIndex, EventChange, 0},
		{"unknown_event", EventIndex, "temperature", -1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.fn(tc.in); got != tc.want {
				t.Fatalf("index(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestFeedingEnums(t *testing.T) {
	if got := ParseFeedingMethod("left breast"); got != FeedingMethodLeftBreast {
		t.Fatalf("ParseFeedingMethod = %v, want left breast", got)
	}
	if got := ParseFeedingMethod("spoon"); got != FeedingMethodUnset {
		t.Fatalf("ParseFeedingMethod(spoon) = %v, want unset", got)
	}
	if got := ParseFeedingType("formula"); got != FeedingTypeFormula {
		t.Fatalf("ParseFeedingType = %v, want formula", got)
	}
	if got := ParseFeedingType("juice"); got != FeedingTypeUnset {
		t.Fatalf("ParseFeedingType(juice) = %v, want unset", got)
	}
	if got := FeedingMethodSelfFed.String(); got != "self fed" {
		t.Fatalf("String = %q, want self fed", got)
	}
	if got := FeedingTypeUnset.String(); got != "" {
		t.Fatalf("unset String = %q, want empty", got)
	}
}
