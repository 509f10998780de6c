package reconcile

import (
	"context"
	"fmt"
	"log/slog"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the level name used in logs.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a per-record progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// ID is the painting the event is about, empty for batch-level events.
	ID string
}

// Summary counts the outcome of one pass. Every processed record lands in
// exactly one counter.
type Summary struct {
	Processed int

	Downloaded int
	Found      int
	NotFound   int
	Cached     int
	Absent     int
	Skipped    int
	Failed     int

	// Removed counts deleted asset files.
	Removed int
}

func (s Summary) String() string {
	return fmt.Sprintf("processed %d, downloaded %d, found %d, not found %d, cached %d, absent %d, skipped %d, failed %d, removed %d",
		s.Processed, s.Downloaded, s.Found, s.NotFound, s.Cached, s.Absent, s.Skipped, s.Failed, s.Removed)
}

// reporter fans progress out to the slog logger and the optional callback.
type reporter struct {
	logger     *slog.Logger
	onProgress func(ProgressEvent)
	every      int
}

func (r *reporter) progress(event ProgressEvent) {
	// The callback already shows routine events; keep them out of the log
	// unless debugging.
	level := slog.LevelInfo
	if r.onProgress != nil {
		level = slog.LevelDebug
	}
	switch event.Level {
	case LevelVerbose:
		level = slog.LevelDebug
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	if event.ID != "" {
		r.logger.Log(context.Background(), level, event.Message, "id", event.ID)
	} else {
		r.logger.Log(context.Background(), level, event.Message)
	}

	if r.onProgress != nil {
		r.onProgress(event)
	}
}

// checkpoint emits the aggregate counters every N processed records.
func (r *reporter) checkpoint(s Summary, total int) {
	if r.every <= 0 || s.Processed == 0 || s.Processed%r.every != 0 {
		return
	}
	r.progress(ProgressEvent{
		Message: fmt.Sprintf("Progress: %d/%d (%s)", s.Processed, total, s),
		Level:   LevelInfo,
	})
}
