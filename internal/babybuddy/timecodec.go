package babybuddy

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// wireLayout is what the client emits for record dates.
	wireLayout = "2006-01-02T15:04:05-07:00"
	// queryLayout is used for date query parameters, always in UTC.
	queryLayout = "2006-01-02T15:04:05"
	// stampLayout is used when the client stamps "now" into a payload.
	stampLayout = "2006-01-02T15:04:05.000-07:00"
)

var (
	fractionPattern = regexp.MustCompile(`\.[0-9]+([+\-Z])`)
	zuluPattern     = regexp.MustCompile(`Z$`)

	// Zone suffixes accepted after normalization: +02:00, +0200, +02.
	parseLayouts = []string{
		"2006-01-02T15:04:05-07:00",
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05-07",
	}
)

// ParseTime decodes a wire date. The sub-second fraction is dropped and a
// trailing Z is read as +00:00.
func ParseTime(value string) (time.Time, error) {
	normalized := fractionPattern.ReplaceAllString(strings.TrimSpace(value), "$1")
	normalized = zuluPattern.ReplaceAllString(normalized, "+00:00")

	var lastErr error
	for _, layout := range parseLayouts {
		t, err := time.Parse(layout, normalized)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, &DateFormatError{Value: value, Err: lastErr}
}

// FormatTime renders t in the fixed wire layout. A nil instant renders as "".
func FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(wireLayout)
}

// FormatQueryTime renders t for a query parameter: UTC without a zone.
func FormatQueryTime(t time.Time) string {
	return t.UTC().Format(queryLayout)
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

// parseNullableTime decodes a raw JSON field that is either a date string or
// null. Absent and null both yield nil.
func parseNullableTime(raw json.RawMessage) (*time.Time, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("date field: %w", err)
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// wireTime is the encode-side counterpart of parseNullableTime.
func wireTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTime(t)
	return &s
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
