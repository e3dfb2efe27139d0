package watcher

import (
	"fmt"
	"testing"
)

func TestSnapshotStorePutGet(t *testing.T) {
	s := NewSnapshotStore(0)
	snap := buildSnapshot("hello")
	s.Put("f.txt", snap)
	got, ok := s.Get("f.txt")
	if !ok || got.Content != "hello" {
		t.Fatalf("expected to retrieve stored snapshot, got %+v ok=%v", got, ok)
	}
}

func TestSnapshotStoreMove(t *testing.T) {
	s := NewSnapshotStore(0)
	s.Put("old.txt", buildSnapshot("hello"))
	s.Move("old.txt", "new.txt")
	if _, ok := s.Get("old.txt"); ok {
		t.Fatal("old path must no longer have a snapshot after Move")
	}
	got, ok := s.Get("new.txt")
	if !ok || got.Content != "hello" {
		t.Fatalf("expected new path to carry the moved snapshot, got %+v ok=%v", got, ok)
	}
}

func TestSnapshotStoreBoundedEviction(t *testing.T) {
	limit := 50
	s := NewSnapshotStore(limit)
	for i := 0; i < limit+150; i++ {
		s.Put(fmt.Sprintf("f%d.txt", i), buildSnapshot("x"))
	}
	if s.Len() > limit+100 {
		t.Fatalf("expected eviction to keep store near its limit, got %d entries for limit %d", s.Len(), limit)
	}
}
