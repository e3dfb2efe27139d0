package watcher

import (
	"time"

	"github.com/rs/zerolog/log"
)

// defaultRecordProfileTiming logs per-event rapid/quality timings when the
// profile flag (DX_WATCH_PROFILE) is set. Callers go through the package
// variable recordProfileTiming (quality.go), which points here, so tests
// can swap in a recorder.
func defaultRecordProfileTiming(stage, path string, d time.Duration) {
	log.Debug().Str("stage", stage).Str("path", path).Dur("elapsed", d).Msg("timing")
}
