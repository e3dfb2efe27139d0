package watcher

import "testing"

func newTestBuilder() *Builder {
	return NewBuilder(NewClock(), "actor-1")
}

func TestDiffIdentity(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("hello world")
	op, snap := b.diff("f.txt", old, "hello world")
	if op != nil {
		t.Fatalf("expected no operation, got %+v", op)
	}
	if snap.Content != "hello world" {
		t.Fatalf("snapshot mutated on identity diff")
	}
}

func TestDiffAppend(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("hello")
	op, snap := b.diff("f.txt", old, "hello world")
	if op == nil || op.Kind != OpInsert {
		t.Fatalf("expected Insert, got %+v", op)
	}
	if op.Content != " world" {
		t.Fatalf("expected appended content ' world', got %q", op.Content)
	}
	if op.Position.Offset != 5 {
		t.Fatalf("expected offset 5, got %d", op.Position.Offset)
	}
	if snap.Content != "hello world" {
		t.Fatalf("snapshot not extended: %q", snap.Content)
	}
}

func TestDiffSingleEditInsert(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("ac")
	op, _ := b.diff("f.txt", old, "abc")
	if op == nil || op.Kind != OpInsert {
		t.Fatalf("expected Insert, got %+v", op)
	}
	if op.Content != "b" || op.Position.Offset != 1 {
		t.Fatalf("expected insert 'b' at offset 1, got %q at %d", op.Content, op.Position.Offset)
	}
}

func TestDiffSingleEditDelete(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("abc")
	op, _ := b.diff("f.txt", old, "ac")
	if op == nil || op.Kind != OpDelete {
		t.Fatalf("expected Delete, got %+v", op)
	}
	if op.Length != 1 || op.Position.Offset != 1 {
		t.Fatalf("expected delete length 1 at offset 1, got length=%d offset=%d", op.Length, op.Position.Offset)
	}
}

func TestDiffGeneralReplace(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("the quick brown fox jumps over the lazy dog")
	op, _ := b.diff("f.txt", old, "the quick brown hare leaps over the lazy dog")
	if op == nil || op.Kind != OpReplace {
		t.Fatalf("expected Replace, got %+v", op)
	}
	if op.OldContent == "" || op.NewContent == "" {
		t.Fatalf("expected both old and new content on replace, got %+v", op)
	}
}

func TestDiffEmptyToNonEmpty(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("")
	op, _ := b.diff("f.txt", old, "hello")
	if op == nil || op.Kind != OpInsert {
		t.Fatalf("expected Insert, got %+v", op)
	}
	if op.Position.Line != 1 || op.Position.Column != 1 || op.Position.Offset != 0 {
		t.Fatalf("expected (line 1, col 1, offset 0), got %+v", op.Position)
	}
}

func TestDiffNonEmptyToEmpty(t *testing.T) {
	b := newTestBuilder()
	old := buildSnapshot("a very long line of text well beyond the slack window for sure")
	op, _ := b.diff("f.txt", old, "")
	if op == nil || op.Kind != OpDelete {
		t.Fatalf("expected Delete, got %+v", op)
	}
	if op.Length != old.CharLen {
		t.Fatalf("expected delete covering whole content, got length %d want %d", op.Length, old.CharLen)
	}
}
