package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// zapTimeLayout matches zapcore.ISO8601TimeEncoder.
const zapTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Entry is one decoded line of the log file.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
}

// Read returns at most maxLines entries from the end of the file at path,
// oldest first. maxLines <= 0 reads the whole file. A missing file is empty.
func Read(path string, maxLines int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var ring []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if maxLines <= 0 {
			ring = append(ring, line)
			continue
		}
		if ring == nil {
			ring = make([]string, maxLines)
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	var lines []string
	switch {
	case maxLines <= 0:
		lines = ring
	case count == maxLines:
		lines = append(ring[idx:], ring[:idx]...)
	default:
		lines = ring[:count]
	}

	entries := make([]Entry, len(lines))
	for i, line := range lines {
		entries[i] = Parse(line)
	}
	return entries, nil
}

// Parse decodes one zap JSON line. Lines that are not JSON objects come back
// as a message with no level.
func Parse(line string) Entry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Message: line}
	}

	var e Entry
	for k, v := range raw {
		switch k {
		case "level":
			e.Level, _ = v.(string)
		case "msg":
			e.Message, _ = v.(string)
		case "time":
			if s, ok := v.(string); ok {
				e.Time, _ = time.Parse(zapTimeLayout, s)
			}
		case "caller", "stacktrace":
		default:
			if e.Fields == nil {
				e.Fields = make(map[string]string)
			}
			e.Fields[k] = fieldString(v)
		}
	}
	return e
}

// Summary renders the message followed by its fields in key order.
func (e Entry) Summary() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(e.Message)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, e.Fields[k])
	}
	return b.String()
}

func fieldString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case nil:
		return "null"
	default:
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
}
