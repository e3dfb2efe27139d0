package forge

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sjzar/forge/internal/watcher"
)

func TestContentPreviewTruncatesLongInsert(t *testing.T) {
	op := &watcher.Operation{
		ID:   uuid.New(),
		Kind: watcher.OpInsert,
		Content: "this is a pretty long line of inserted text that exceeds the preview length",
	}
	preview := contentPreview(op)
	if len(preview) > previewLen+3 {
		t.Fatalf("expected preview to be truncated, got %d chars: %q", len(preview), preview)
	}
}

func TestContentPreviewEmptyForFileDelete(t *testing.T) {
	op := &watcher.Operation{ID: uuid.New(), Kind: watcher.OpFileDelete}
	if p := contentPreview(op); p != "" {
		t.Fatalf("expected empty preview for file delete, got %q", p)
	}
}

type recordingReporter struct {
	reported []*watcher.Operation
}

func (r *recordingReporter) Report(op *watcher.Operation, elapsed time.Duration) {
	_ = elapsed
	r.reported = append(r.reported, op)
}

func TestLogReporterSuppressesWithinWindow(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	r := NewLogReporter(5*time.Millisecond, 15*time.Millisecond)
	r.Report(&watcher.Operation{ID: uuid.New(), Kind: watcher.OpInsert, FilePath: "a.txt"}, 10*time.Millisecond)
	if buf.Len() != 0 {
		t.Fatalf("expected no log line inside the window, got %q", buf.String())
	}
	r.Report(&watcher.Operation{ID: uuid.New(), Kind: watcher.OpInsert, FilePath: "a.txt"}, 1*time.Millisecond)
	if buf.Len() == 0 {
		t.Fatal("expected a log line outside the window")
	}
}
