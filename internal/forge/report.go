package forge

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/forge/internal/watcher"
)

const previewLen = 40

// LogReporter is the default watcher.Reporter: one operator-facing log
// line per operation (timing, kind, path, a compact content preview),
// suppressed when the operation's processing wall time falls inside
// [min, max] — that window empirically brackets an editor's atomic-save
// delay and is therefore noise, not signal, for a human watching the
// stream.
type LogReporter struct {
	min, max time.Duration
}

func NewLogReporter(min, max time.Duration) *LogReporter {
	return &LogReporter{min: min, max: max}
}

func (r *LogReporter) Report(op *watcher.Operation, elapsed time.Duration) {
	if elapsed >= r.min && elapsed <= r.max {
		return
	}

	event := log.Info().
		Dur("took", elapsed).
		Str("kind", op.Kind.String()).
		Str("path", op.FilePath)

	if preview := contentPreview(op); preview != "" {
		event = event.Str("preview", preview)
	}
	event.Msg("operation")
}

func contentPreview(op *watcher.Operation) string {
	var s string
	switch op.Kind {
	case watcher.OpInsert, watcher.OpFileCreate:
		s = op.Content
	case watcher.OpReplace:
		s = op.NewContent
	default:
		return ""
	}
	s = strings.ReplaceAll(s, "\n", "\\n")
	if len(s) > previewLen {
		return s[:previewLen] + "..."
	}
	return s
}
