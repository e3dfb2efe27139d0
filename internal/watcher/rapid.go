package watcher

import "sync/atomic"

// RapidDetector is the zero-I/O first tier: a process-wide monotonic
// sequence counter plus a per-path cache of the last sequence observed
// for that path, used to collapse near-simultaneous duplicate
// notifications (the same save triggering more than one fsnotify event)
// without touching disk.
type RapidDetector struct {
	seq      atomic.Uint64
	cache    *ShardedMap[uint64]
	disabled bool
}

func NewRapidDetector() *RapidDetector {
	return &RapidDetector{cache: NewShardedMap[uint64]()}
}

// NewDisabledRapidDetector builds a rapid tier that never suppresses,
// passing every event straight through to quality detection — the
// DX_DISABLE_RAPID_MODE benchmarking toggle.
func NewDisabledRapidDetector() *RapidDetector {
	return &RapidDetector{cache: NewShardedMap[uint64](), disabled: true}
}

// Check reports whether the event for path should proceed to the quality
// tier. When enabled it always advances the counter; only the per-path suppression
// decision depends on how recently this path was last seen.
func (r *RapidDetector) Check(path string) bool {
	if r.disabled {
		return true
	}
	seq := r.seq.Add(1)

	prev, ok := r.cache.Get(path)
	r.cache.Set(path, seq)

	if !ok {
		return true
	}
	if seq-prev < rapidSeqWindow {
		return false
	}
	return true
}

// Forget drops path's cached sequence, used on a remove event so a later
// re-creation is never mistaken for a duplicate of the old file.
func (r *RapidDetector) Forget(path string) {
	r.cache.Delete(path)
}
