package watcher

import (
	"sync"
	"time"

	"github.com/sjzar/forge/pkg/util/zstd"
)

// RenameBuffer remembers the source side of a rename until its paired
// "to" notification arrives. Consumed entries are always cleared,
// independent of how the pairing resolved.
type RenameBuffer struct {
	mu      sync.Mutex
	pending map[string]time.Time // old path -> observed time; TakeAny picks the newest, entries never expire
}

func NewRenameBuffer() *RenameBuffer {
	return &RenameBuffer{pending: make(map[string]time.Time)}
}

func (r *RenameBuffer) Remember(oldPath string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[oldPath] = time.Now()
}

// Take removes and reports whether oldPath was remembered as a pending
// rename source.
func (r *RenameBuffer) Take(oldPath string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.pending[oldPath]
	delete(r.pending, oldPath)
	return ok
}

// TakeAny removes and returns the single most recently remembered
// pending rename source, if any. fsnotify does not hand the pump a
// single paired rename event on every platform, so the pump pairs a
// rename-to notification with whichever rename-from is outstanding —
// correct for the overwhelmingly common single-file-at-a-time save, not
// guaranteed under concurrent renames of multiple files at once.
func (r *RenameBuffer) TakeAny() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var newest string
	var newestAt time.Time
	found := false
	for path, at := range r.pending {
		if !found || at.After(newestAt) {
			newest, newestAt, found = path, at, true
		}
	}
	if !found {
		return "", false
	}
	delete(r.pending, newest)
	return newest, true
}

// tempEntry is one captured snapshot of an atomic-save scratch file,
// compressed at rest since its content is usually a full near-duplicate
// of the file it is about to replace.
type tempEntry struct {
	compressed []byte
	capturedAt time.Time
}

// TempContentCache recovers the content of an atomic-save temp file once
// its final path is revealed by a rename, bounded to TempCacheLimit by
// arbitrary eviction.
type TempContentCache struct {
	sm *ShardedMap[tempEntry]
}

func NewTempContentCache() *TempContentCache {
	return &TempContentCache{sm: NewShardedMap[tempEntry]()}
}

func (c *TempContentCache) Capture(path, content string) {
	compressed, err := zstd.Compress([]byte(content))
	if err != nil {
		// Compression failure degrades to storing raw bytes rather than
		// losing the capture outright.
		compressed = []byte(content)
	}
	c.sm.Set(path, tempEntry{compressed: compressed, capturedAt: time.Now()})
	if c.sm.Len() > TempCacheLimit {
		c.sm.EvictSome(c.sm.Len() - TempCacheLimit)
	}
}

func (c *TempContentCache) Take(path string) (string, bool) {
	entry, ok := c.sm.Get(path)
	if !ok {
		return "", false
	}
	c.sm.Delete(path)
	raw, err := zstd.Decompress(entry.compressed)
	if err != nil {
		return string(entry.compressed), true
	}
	return string(raw), true
}

func (c *TempContentCache) Drop(path string) {
	c.sm.Delete(path)
}

// RenameAction names what the pump should do next for a paired rename;
// ClassifyRename picks it. Neither touches disk or the snapshot store —
// it only names the action, leaving the actual snapshot move, FileRename
// emission, or diff dispatch to the caller.
type RenameAction int

const (
	// RenameActionMove: both sides trackable, neither temp — move
	// Snapshot+LastOperation from old to new, emit one FileRename.
	RenameActionMove RenameAction = iota
	// RenameActionDiffAgainstTemp: old was a temp scratch file, new is
	// trackable — diff the new path against the captured temp content
	// instead of reading disk, collapsing an atomic save into one edit.
	RenameActionDiffAgainstTemp
	// RenameActionDeleteOld: old was trackable, new is a temp file —
	// treat as though old was deleted.
	RenameActionDeleteOld
	// RenameActionIgnore: every other pairing, including those with a
	// single trackable side (ignored -> trackable, trackable -> ignored);
	// the pump takes no action for any of them.
	RenameActionIgnore
)

func ClassifyRename(oldClass, newClass Class) RenameAction {
	oldTrackable := oldClass == ClassTrackable
	newTrackable := newClass == ClassTrackable
	oldTemp := oldClass == ClassTemp
	newTemp := newClass == ClassTemp

	switch {
	case oldTrackable && newTrackable && !oldTemp && !newTemp:
		return RenameActionMove
	case !oldTrackable && newTrackable && oldTemp && !newTemp:
		return RenameActionDiffAgainstTemp
	case oldTrackable && !newTrackable && !oldTemp && newTemp:
		return RenameActionDeleteOld
	default:
		return RenameActionIgnore
	}
}
