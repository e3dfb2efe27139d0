package watcher

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
)

// Warm walks root with classifier, and opens+maps every trackable file no
// larger than maxBytes into pool, in parallel. Snapshots are deliberately
// left unpopulated: the first edit to each file still takes the
// no-prior-snapshot path, deferring the char/line index cost until the
// file is actually touched.
func Warm(root string, classifier *Classifier, pool *HandlePool, maxBytes int64) {
	workers := warmWorkerCount()
	paths := make(chan string, workers*4)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range paths {
				if _, err := pool.open(p); err != nil {
					log.Debug().Err(err).Str("path", p).Msg("cache warm skipped")
				}
			}
		}()
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.Size() > maxBytes {
			return nil
		}
		if !classifier.Trackable(path, info.Size()) {
			return nil
		}
		paths <- path
		return nil
	})
	close(paths)
	wg.Wait()

	if err != nil {
		log.Warn().Err(err).Str("root", root).Msg("cache warm walk ended early")
	}
}

// warmWorkerCount mirrors the event-pump worker pool sizing: CPU count,
// capped at 10, at least 1.
func warmWorkerCount() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
