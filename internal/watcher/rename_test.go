package watcher

import "testing"

func TestRenameBufferRememberAndTake(t *testing.T) {
	r := NewRenameBuffer()
	r.Remember("old.txt")
	if !r.Take("old.txt") {
		t.Fatal("expected old.txt to be remembered")
	}
	if r.Take("old.txt") {
		t.Fatal("Take must clear the entry on consumption")
	}
}

func TestRenameBufferTakeAny(t *testing.T) {
	r := NewRenameBuffer()
	if _, ok := r.TakeAny(); ok {
		t.Fatal("TakeAny on an empty buffer must report false")
	}
	r.Remember("old.txt")
	got, ok := r.TakeAny()
	if !ok || got != "old.txt" {
		t.Fatalf("expected (old.txt, true), got (%q, %v)", got, ok)
	}
	if _, ok := r.TakeAny(); ok {
		t.Fatal("TakeAny must clear the buffer")
	}
}

func TestTempContentCacheCaptureAndTake(t *testing.T) {
	c := NewTempContentCache()
	c.Capture("scratch.tmp", "draft content")
	content, ok := c.Take("scratch.tmp")
	if !ok || content != "draft content" {
		t.Fatalf("expected (draft content, true), got (%q, %v)", content, ok)
	}
	if _, ok := c.Take("scratch.tmp"); ok {
		t.Fatal("Take must clear the entry on consumption")
	}
}

func TestTempContentCacheBounded(t *testing.T) {
	c := NewTempContentCache()
	for i := 0; i < TempCacheLimit+50; i++ {
		c.Capture(pathFor(i), "x")
	}
	if c.sm.Len() > TempCacheLimit {
		t.Fatalf("expected cache to stay bounded at %d, got %d", TempCacheLimit, c.sm.Len())
	}
}

func pathFor(i int) string {
	return "f" + string(rune('a'+i%26)) + string(rune(i))
}

func TestClassifyRename(t *testing.T) {
	cases := []struct {
		oldClass, newClass Class
		want               RenameAction
	}{
		{ClassTrackable, ClassTrackable, RenameActionMove},
		{ClassTemp, ClassTrackable, RenameActionDiffAgainstTemp},
		{ClassTrackable, ClassTemp, RenameActionDeleteOld},
		{ClassIgnored, ClassIgnored, RenameActionIgnore},
		{ClassIgnored, ClassTrackable, RenameActionIgnore},
	}
	for _, c := range cases {
		got := ClassifyRename(c.oldClass, c.newClass)
		if got != c.want {
			t.Errorf("ClassifyRename(%v, %v) = %v, want %v", c.oldClass, c.newClass, got, c.want)
		}
	}
}
