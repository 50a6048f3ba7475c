package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/buddy/internal/babybuddy"
)

// formatElapsed renders a running duration as "1h 02m 03s", "4m 05s" or
// "12s".
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	h, m, s := total/3600, (total/60)%60, total%60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// humanizeAgo renders how long ago something happened.
func humanizeAgo(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func entryTitle(kind string) string {
	switch kind {
	case babybuddy.ActivityFeeding:
		return "Feeding"
	case babybuddy.ActivitySleep:
		return "Sleep"
	case babybuddy.ActivityTummyTime:
		return "Tummy time"
	case babybuddy.EventChange:
		return "Change"
	}
	return kind
}

// entryDetail summarises the kind-specific fields of a timeline entry.
func entryDetail(entry babybuddy.TimelineEntry) string {
	var parts []string
	switch e := entry.(type) {
	case babybuddy.ChangeEntry:
		parts = append(parts, changeKind(e.Wet, e.Solid))
	case babybuddy.FeedingEntry:
		if s := e.FeedingType.String(); s != "" {
			parts = append(parts, s)
		}
		if s := e.Method.String(); s != "" {
			parts = append(parts, s)
		}
	}
	common := entry.Common()
	if common.Start != nil && common.End != nil && common.End.After(*common.Start) {
		parts = append(parts, formatElapsed(common.End.Sub(*common.Start)))
	}
	if notes := strings.TrimSpace(common.Notes); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, " · ")
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
