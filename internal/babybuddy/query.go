package babybuddy

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// QueryValues collects named parameters for a list query or a PATCH body.
// Adding a name twice keeps the last value.
type QueryValues map[string]string

// NewQueryValues returns an empty QueryValues.
func NewQueryValues() QueryValues {
	return QueryValues{}
}

// Add stores a string value.
func (q QueryValues) Add(name, value string) QueryValues {
	q[name] = value
	return q
}

// AddInt stores an integer value in decimal.
func (q QueryValues) AddInt(name string, value int) QueryValues {
	return q.Add(name, strconv.Itoa(value))
}

// AddTime stores a date in the zone-less UTC query layout.
func (q QueryValues) AddTime(name string, value time.Time) QueryValues {
	return q.Add(name, FormatQueryTime(value))
}

// QueryString renders name=value pairs joined by "&", values percent-encoded.
// Pair order is unspecified. A value that is not valid UTF-8 cannot be
// encoded; the whole rendering is then empty.
func (q QueryValues) QueryString() string {
	pairs := make([]string, 0, len(q))
	for name, value := range q {
		if !utf8.ValidString(value) {
			return ""
		}
		pairs = append(pairs, name+"="+url.QueryEscape(value))
	}
	return strings.Join(pairs, "&")
}

// JSONObject returns a copy of the values for use as a JSON object.
func (q QueryValues) JSONObject() map[string]string {
	out := make(map[string]string, len(q))
	for k, v := range q {
		out[k] = v
	}
	return out
}

// MarshalJSON renders the values as a flat JSON object of strings.
func (q QueryValues) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.JSONObject())
}
