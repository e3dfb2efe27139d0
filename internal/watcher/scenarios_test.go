package watcher

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) int64 {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat(%s): %v", path, err)
	}
	return info.Size()
}

// capturingBroadcaster records every published operation for assertions.
type capturingBroadcaster struct {
	ops []*Operation
}

func (c *capturingBroadcaster) Publish(op *Operation) {
	c.ops = append(c.ops, op)
}

// newCapturingDetector wires a QualityDetector over a real temp directory,
// with an in-memory log sink, for the end-to-end scenarios below. It
// bypasses the fsnotify pump entirely: each scenario drives
// ProcessWrite/Remove directly against files written with os.WriteFile,
// which is deterministic and avoids depending on OS filesystem-event
// timing.
func newCapturingDetector(t *testing.T) (*QualityDetector, string, *capturingBroadcaster) {
	t.Helper()
	dir := t.TempDir()
	pool := NewHandlePool()
	snapshots := NewSnapshotStore(0)
	builder := NewBuilder(NewClock(), "actor-1")
	logSink := newFakeLogSink()
	cap := &capturingBroadcaster{}
	sink := NewEmissionSink(logSink, cap)
	q := NewQualityDetector(pool, snapshots, builder, sink, MaxTrackedFileBytes, false)
	return q, dir, cap
}

func TestScenarioS1CreateThenModify(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "a.txt")

	size := writeFile(t, path, "hello")
	if err := q.ProcessWrite(path, size); err != nil {
		t.Fatalf("ProcessWrite: %v", err)
	}
	if len(cap.ops) != 1 || cap.ops[0].Kind != OpFileCreate || cap.ops[0].Content != "hello" {
		t.Fatalf("expected one FileCreate(hello), got %+v", cap.ops)
	}
	firstID := cap.ops[0].ID

	q.pool.Drop(path) // force a fresh read instead of relying on the pool's mmap staying in sync
	size = writeFile(t, path, "hello world")
	if err := q.ProcessWrite(path, size); err != nil {
		t.Fatalf("ProcessWrite: %v", err)
	}
	if len(cap.ops) != 2 {
		t.Fatalf("expected a second operation, got %d", len(cap.ops))
	}
	second := cap.ops[1]
	if second.Kind != OpInsert || second.Content != " world" || second.Position.Offset != 5 {
		t.Fatalf("expected Insert(' world') at offset 5, got %+v", second)
	}
	if len(second.ParentOps) != 1 || second.ParentOps[0] != firstID {
		t.Fatalf("expected parent to be the FileCreate op, got %v", second.ParentOps)
	}
}

func TestScenarioS2DeleteTail(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "a.txt")

	size := writeFile(t, path, "abcdef")
	q.ProcessWrite(path, size)
	q.pool.Drop(path)
	size = writeFile(t, path, "abc")
	q.ProcessWrite(path, size)

	op := cap.ops[len(cap.ops)-1]
	if op.Kind != OpDelete || op.Position.Offset != 3 || op.Length != 3 {
		t.Fatalf("expected Delete at offset 3 length 3, got %+v", op)
	}
}

func TestScenarioS3MidStringReplace(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "a.txt")

	size := writeFile(t, path, "foo bar baz")
	q.ProcessWrite(path, size)
	q.pool.Drop(path)
	size = writeFile(t, path, "foo QUX baz")
	q.ProcessWrite(path, size)

	op := cap.ops[len(cap.ops)-1]
	if op.Kind != OpReplace || op.Position.Offset != 4 || op.OldContent != "bar" || op.NewContent != "QUX" {
		t.Fatalf("expected Replace(bar->QUX) at offset 4, got %+v", op)
	}
}

func TestScenarioS5RenameTrackedFile(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	oldPath := filepath.Join(dir, "old.txt")
	newPath := filepath.Join(dir, "new.txt")

	size := writeFile(t, oldPath, "hello")
	q.ProcessWrite(oldPath, size)

	if err := os.Rename(oldPath, newPath); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if err := q.ProcessRenameMove(oldPath, newPath); err != nil {
		t.Fatalf("ProcessRenameMove: %v", err)
	}
	renameOp := cap.ops[len(cap.ops)-1]
	if renameOp.Kind != OpFileRename || renameOp.OldPath != oldPath || renameOp.NewPath != newPath {
		t.Fatalf("expected FileRename, got %+v", renameOp)
	}

	q.pool.Drop(newPath)
	size = writeFile(t, newPath, "hello world")
	q.ProcessWrite(newPath, size)
	edit := cap.ops[len(cap.ops)-1]
	if len(edit.ParentOps) != 1 || edit.ParentOps[0] != renameOp.ID {
		t.Fatalf("expected edit after rename to chain from the rename op, got %v want [%v]", edit.ParentOps, renameOp.ID)
	}
}

func TestScenarioS7OversizeFile(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "big.txt")

	if err := q.ProcessWrite(path, MaxTrackedFileBytes+1); err != nil {
		t.Fatalf("ProcessWrite: %v", err)
	}
	if len(cap.ops) != 0 {
		t.Fatalf("expected no operation for an oversize file, got %+v", cap.ops)
	}
	if _, ok := q.snapshots.Get(path); ok {
		t.Fatal("expected no snapshot for an oversize file")
	}
}

func TestScenarioS8NonUTF8(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "a.bin")
	if err := os.WriteFile(path, []byte{0xFF, 0xFE, 0xFD}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	info, _ := os.Stat(path)

	if err := q.ProcessWrite(path, info.Size()); err != nil {
		t.Fatalf("ProcessWrite: %v", err)
	}
	if len(cap.ops) != 0 {
		t.Fatalf("expected no operation for non-UTF-8 content, got %+v", cap.ops)
	}
}

func TestScenarioS4AtomicSaveCollapse(t *testing.T) {
	q, dir, cap := newCapturingDetector(t)
	path := filepath.Join(dir, "a.txt")
	tmpPath := filepath.Join(dir, "a.txt.tmp")

	size := writeFile(t, path, "hello")
	q.ProcessWrite(path, size)

	writeFile(t, tmpPath, "hello world")
	content, ok := q.pool.Read(tmpPath)
	if !ok {
		t.Fatalf("expected to read temp content")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	q.pool.Drop(path)
	if err := q.ProcessRenameAgainstTemp(path, content); err != nil {
		t.Fatalf("ProcessRenameAgainstTemp: %v", err)
	}

	for _, op := range cap.ops {
		if op.Kind == OpFileCreate && op.FilePath == tmpPath {
			t.Fatalf("temp file must never produce a FileCreate, got %+v", op)
		}
	}
	last := cap.ops[len(cap.ops)-1]
	if last.Kind != OpInsert || last.Content != " world" || last.Position.Offset != 5 {
		t.Fatalf("expected a single Insert(' world') at offset 5 for the collapsed save, got %+v", last)
	}
}
