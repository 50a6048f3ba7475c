// Package logtail reads the end of buddy's JSON log for the UI's log pane.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// bounded by the pane size rather than the file size. Each line is decoded
// into an Entry: the zap level, message and time are lifted out, caller and
// stacktrace are dropped, and every other key becomes a display field.
//
//	entries, err := logtail.Read(cfg.LogFile, 200)
//	for _, e := range entries {
//		fmt.Println(e.Level, e.Summary())
//	}
package logtail
