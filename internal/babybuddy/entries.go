package babybuddy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// TimelineEntry is any record shown on a child's timeline. All kinds share
// the common TimeEntry fields and the api path used to update or delete them.
type TimelineEntry interface {
	Common() TimeEntry
	APIPath() string
}

// TimeEntry holds the fields shared by all timeline records. Type is the
// collection the record belongs to and acts as the discriminant.
type TimeEntry struct {
	Type   string
	TypeID int
	Start  *time.Time
	End    *time.Time
	Notes  string
}

// Common returns the shared fields.
func (e TimeEntry) Common() TimeEntry { return e }

// APIPath returns the record's api path, e.g. "api/feedings/12/".
func (e TimeEntry) APIPath() string {
	return "api/" + e.Type + "/" + strconv.Itoa(e.TypeID) + "/"
}

// UserPath returns the record's path in the web interface, or "" for a type
// that has no page.
func (e TimeEntry) UserPath() string {
	id := strconv.Itoa(e.TypeID)
	switch e.Type {
	case ActivityFeeding:
		return "/feedings/" + id + "/"
	case EventChange:
		return "/changes/" + id + "/"
	case ActivityTummyTime:
		return "/tummy-time/" + id + "/"
	case ActivitySleep:
		return "/sleep/" + id + "/"
	}
	return ""
}

// Equal reports whether both entries carry the same values.
func (e TimeEntry) Equal(o TimeEntry) bool {
	return e.Type == o.Type &&
		e.TypeID == o.TypeID &&
		e.Notes == o.Notes &&
		equalTime(e.Start, o.Start) &&
		equalTime(e.End, o.End)
}

func (e TimeEntry) String() string {
	return fmt.Sprintf("TimeEntry{type=%s, id=%d, start=%s, end=%s, notes=%q}",
		e.Type, e.TypeID, FormatTime(e.Start), FormatTime(e.End), e.Notes)
}

// ChangeEntry is a diaper change. Start and End are the same instant.
type ChangeEntry struct {
	TimeEntry
	Wet   bool
	Solid bool
}

// Equal reports whether both entries carry the same values.
func (e ChangeEntry) Equal(o ChangeEntry) bool {
	return e.TimeEntry.Equal(o.TimeEntry) && e.Wet == o.Wet && e.Solid == o.Solid
}

func (e ChangeEntry) String() string {
	return fmt.Sprintf("ChangeEntry{id=%d, time=%s, wet=%t, solid=%t, notes=%q}",
		e.TypeID, FormatTime(e.Start), e.Wet, e.Solid, e.Notes)
}

// FeedingEntry is a feeding with its method and type.
type FeedingEntry struct {
	TimeEntry
	Method      FeedingMethod
	FeedingType FeedingType
}

// Equal reports whether both entries carry the same values.
func (e FeedingEntry) Equal(o FeedingEntry) bool {
	return e.TimeEntry.Equal(o.TimeEntry) && e.Method == o.Method && e.FeedingType == o.FeedingType
}

func (e FeedingEntry) String() string {
	return fmt.Sprintf("FeedingEntry{id=%d, start=%s, end=%s, method=%q, type=%q, notes=%q}",
		e.TypeID, FormatTime(e.Start), FormatTime(e.End), e.Method, e.FeedingType, e.Notes)
}

// entryWire is the union of every field the timeline decoders read.
type entryWire struct {
	ID        *int            `json:"id"`
	Start     json.RawMessage `json:"start"`
	End       json.RawMessage `json:"end"`
	Time      json.RawMessage `json:"time"`
	Notes     *string         `json:"notes"`
	Milestone *string         `json:"milestone"`
	Method    *string         `json:"method"`
	Type      *string         `json:"type"`
	Wet       *bool           `json:"wet"`
	Solid     *bool           `json:"solid"`
}

func readEntryWire(raw json.RawMessage) (entryWire, error) {
	var w entryWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return entryWire{}, err
	}
	if w.ID == nil {
		return entryWire{}, errors.New("missing id")
	}
	return w, nil
}

// span decodes the common fields, reading the two instants from the named
// wire fields.
func (w entryWire) span(kind string, start, end json.RawMessage, notes *string) (TimeEntry, error) {
	s, err := parseNullableTime(start)
	if err != nil {
		return TimeEntry{}, err
	}
	e, err := parseNullableTime(end)
	if err != nil {
		return TimeEntry{}, err
	}
	return TimeEntry{Type: kind, TypeID: *w.ID, Start: s, End: e, Notes: deref(notes)}, nil
}

// DecodeSleepEntry decodes one record from api/sleep/.
func DecodeSleepEntry(raw json.RawMessage) (TimeEntry, error) {
	w, err := readEntryWire(raw)
	if err != nil {
		return TimeEntry{}, decodeErr("sleep entry", err)
	}
	e, err := w.span(ActivitySleep, w.Start, w.End, w.Notes)
	if err != nil {
		return TimeEntry{}, decodeErr("sleep entry", err)
	}
	return e, nil
}

// DecodeTummyTimeEntry decodes one record from api/tummy-times/. The
// milestone is carried as the entry's notes.
func DecodeTummyTimeEntry(raw json.RawMessage) (TimeEntry, error) {
	w, err := readEntryWire(raw)
	if err != nil {
		return TimeEntry{}, decodeErr("tummy time entry", err)
	}
	e, err := w.span(ActivityTummyTime, w.Start, w.End, w.Milestone)
	if err != nil {
		return TimeEntry{}, decodeErr("tummy time entry", err)
	}
	return e, nil
}

// DecodeFeedingEntry decodes one record from api/feedings/. Method and type
// values that match no known tag are left unset.
func DecodeFeedingEntry(raw json.RawMessage) (FeedingEntry, error) {
	w, err := readEntryWire(raw)
	if err != nil {
		return FeedingEntry{}, decodeErr("feeding entry", err)
	}
	e, err := w.span(ActivityFeeding, w.Start, w.End, w.Notes)
	if err != nil {
		return FeedingEntry{}, decodeErr("feeding entry", err)
	}
	return FeedingEntry{
		TimeEntry:   e,
		Method:      ParseFeedingMethod(deref(w.Method)),
		FeedingType: ParseFeedingType(deref(w.Type)),
	}, nil
}

// DecodeChangeEntry decodes one record from api/changes/. The single time
// field becomes both start and end.
func DecodeChangeEntry(raw json.RawMessage) (ChangeEntry, error) {
	w, err := readEntryWire(raw)
	if err != nil {
		return ChangeEntry{}, decodeErr("change entry", err)
	}
	if w.Wet == nil || w.Solid == nil {
		return ChangeEntry{}, decodeErr("change entry", fmt.Errorf("change %d: missing wet or solid", *w.ID))
	}
	e, err := w.span(EventChange, w.Time, w.Time, w.Notes)
	if err != nil {
		return ChangeEntry{}, decodeErr("change entry", err)
	}
	return ChangeEntry{TimeEntry: e, Wet: *w.Wet, Solid: *w.Solid}, nil
}

// decodeGenericEntry handles collections without a dedicated decoder: notes
// win over milestone, dates come from start and end.
func decodeGenericEntry(kind string, raw json.RawMessage) (TimeEntry, error) {
	w, err := readEntryWire(raw)
	if err != nil {
		return TimeEntry{}, decodeErr(kind+" entry", err)
	}
	notes := w.Milestone
	if w.Notes != nil {
		notes = w.Notes
	}
	e, err := w.span(kind, w.Start, w.End, notes)
	if err != nil {
		return TimeEntry{}, decodeErr(kind+" entry", err)
	}
	return e, nil
}

var entryDecoders = map[string]func(json.RawMessage) (TimelineEntry, error){
	ActivitySleep:     widen(DecodeSleepEntry),
	ActivityTummyTime: widen(DecodeTummyTimeEntry),
	ActivityFeeding:   widen(DecodeFeedingEntry),
	EventChange:       widen(DecodeChangeEntry),
}

// DecodeTimelineEntry decodes raw using the decoder registered for kind.
func DecodeTimelineEntry(kind string, raw json.RawMessage) (TimelineEntry, error) {
	if decode, ok := entryDecoders[kind]; ok {
		return decode(raw)
	}
	return decodeGenericEntry(kind, raw)
}

func widen[TE TimelineEntry](decode func(json.RawMessage) (TE, error)) func(json.RawMessage) (TimelineEntry, error) {
	return func(raw json.RawMessage) (TimelineEntry, error) {
		e, err := decode(raw)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
