package watcher

import "time"

// Tunables. All have sane defaults; Config overrides most of them.
// Config.TempCacheLimit and Config.DisplaySuppressMin/Max are filled in
// by withDefaults but not read: TempContentCache uses TempCacheLimit, and
// the reporter is built from the DisplaySuppress constants.
const (
	QueueCapacity        = 10000
	BacklogWarnThreshold = 8000
	PrevStateLimit       = 2048
	TempCacheLimit       = 256
	MaxTrackedFileBytes  = 1_000_000
	MaxFileSizeWarm      = 10_485_760

	Debounce = time.Millisecond

	RapidTargetMicros   = 20
	QualityTargetMicros = 60

	// rapidSeqWindow bounds how many intervening rapid-detector sequence
	// numbers, on any path, still count as "near-simultaneous" for the
	// path that issued the first one. Chosen arbitrarily; a busy enough
	// neighboring path could in principle mask a second independent edit
	// on this one before it ages out of the window.
	rapidSeqWindow = 100

	// DisplaySuppressMin/Max bound the operator-print-stream suppression
	// window: empirically brackets editor atomic-save delay, and is
	// configurable since the right window varies by host OS and editor.
	DisplaySuppressMin = 5 * time.Millisecond
	DisplaySuppressMax = 15 * time.Millisecond
)

// Config holds the tunables a Watcher is constructed with. Zero value
// fields fall back to the package defaults above in New.
type Config struct {
	Root     string
	ActorID  string
	RepoID   string

	QueueCapacity        int
	BacklogWarnThreshold int
	PrevStateLimit       int
	TempCacheLimit       int
	MaxTrackedFileBytes  int64
	MaxFileSizeWarm      int64
	Debounce             time.Duration

	// DisableRapid runs quality detection directly on every event,
	// bypassing the rapid tier entirely (DX_DISABLE_RAPID_MODE).
	DisableRapid bool

	// Profile logs per-event rapid/quality timings (DX_WATCH_PROFILE).
	Profile bool

	DisplaySuppressMin time.Duration
	DisplaySuppressMax time.Duration

	// WorkerCount bounds the event-pump worker pool (default equal to CPU
	// count, cap 10). Zero means derive it when the pump starts.
	WorkerCount int
}

func (c *Config) withDefaults() {
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = QueueCapacity
	}
	if c.BacklogWarnThreshold <= 0 {
		c.BacklogWarnThreshold = BacklogWarnThreshold
	}
	if c.PrevStateLimit <= 0 {
		c.PrevStateLimit = PrevStateLimit
	}
	if c.TempCacheLimit <= 0 {
		c.TempCacheLimit = TempCacheLimit
	}
	if c.MaxTrackedFileBytes <= 0 {
		c.MaxTrackedFileBytes = MaxTrackedFileBytes
	}
	if c.MaxFileSizeWarm <= 0 {
		c.MaxFileSizeWarm = MaxFileSizeWarm
	}
	if c.Debounce <= 0 {
		c.Debounce = Debounce
	}
	if c.DisplaySuppressMin <= 0 {
		c.DisplaySuppressMin = DisplaySuppressMin
	}
	if c.DisplaySuppressMax <= 0 {
		c.DisplaySuppressMax = DisplaySuppressMax
	}
}
