package forge

import (
	"testing"

	"github.com/sjzar/forge/internal/watcher"
)

type fakeLogSink struct{}

func (fakeLogSink) Append(op *watcher.Operation) (bool, error) { return true, nil }

func TestNewRequiresActorIDOnFreshRepo(t *testing.T) {
	dir := t.TempDir()
	if _, err := New(Options{Root: dir, LogSink: fakeLogSink{}}); err == nil {
		t.Fatal("expected New to fail on a fresh repo with no actor id")
	}
}

func TestNewBootstrapsAndStatsReflectWatcher(t *testing.T) {
	dir := t.TempDir()
	m, err := New(Options{Root: dir, ActorID: "actor-1", LogSink: fakeLogSink{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	stats := m.Stats()
	if stats.SnapshotCount != 0 {
		t.Fatalf("expected zero snapshots before Start, got %d", stats.SnapshotCount)
	}
	if m.WorkerCount() != 0 {
		t.Fatalf("expected zero worker count before Start, got %d", m.WorkerCount())
	}
}
