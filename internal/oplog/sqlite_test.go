package oplog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sjzar/forge/internal/watcher"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "ops.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAppendAndQuery(t *testing.T) {
	s := openTestStore(t)

	op := &watcher.Operation{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		ActorID:   "actor-1",
		FilePath:  "/repo/a.txt",
		Kind:      watcher.OpInsert,
		Position:  &watcher.Position{Lamport: 1, ActorID: "actor-1", Offset: 0, Line: 1, Column: 1},
		Content:   "hello",
		Length:    5,
	}

	inserted, err := s.Append(op)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !inserted {
		t.Fatal("expected first append to report inserted")
	}

	inserted, err = s.Append(op)
	if err != nil {
		t.Fatalf("second Append: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate id append to report not-inserted")
	}

	ops, err := s.Operations("/repo/a.txt")
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("expected exactly one stored operation, got %d", len(ops))
	}
	if ops[0].Content.String != "hello" {
		t.Fatalf("expected content 'hello', got %q", ops[0].Content.String)
	}
}

func TestStoreAppendFileLevelOperation(t *testing.T) {
	s := openTestStore(t)

	op := &watcher.Operation{
		ID:       uuid.New(),
		ActorID:  "actor-1",
		FilePath: "/repo/new.txt",
		Kind:     watcher.OpFileCreate,
		Content:  "fresh file",
	}

	inserted, err := s.Append(op)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !inserted {
		t.Fatal("expected insert for new file-create operation")
	}

	ops, err := s.Operations("/repo/new.txt")
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(ops) != 1 || ops[0].Lamport.Valid {
		t.Fatalf("expected one row with no lamport value, got %+v", ops)
	}
}
