package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	forgeerrors "github.com/sjzar/forge/internal/errors"
)

// Pump owns the native filesystem notification source and drains it
// through a bounded, debounced channel into a worker pool running the
// rapid+quality pipeline.
type Pump struct {
	root       string
	fs         *fsnotify.Watcher
	classifier *Classifier
	renames    *RenameBuffer
	tempCache  *TempContentCache
	rapid      *RapidDetector
	quality    *QualityDetector
	cfg        *Config

	queue     chan fsnotify.Event
	dropped   atomic.Uint64
	warnArmed atomic.Bool

	debounceMu sync.Mutex
	pending    map[string]*time.Timer

	stopCh  chan struct{}
	wg      sync.WaitGroup
	workers int
}

func NewPump(cfg *Config, classifier *Classifier, renames *RenameBuffer, tempCache *TempContentCache, rapid *RapidDetector, quality *QualityDetector) (*Pump, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	p := &Pump{
		root:       cfg.Root,
		fs:         fw,
		classifier: classifier,
		renames:    renames,
		tempCache:  tempCache,
		rapid:      rapid,
		quality:    quality,
		cfg:        cfg,
		queue:      make(chan fsnotify.Event, cfg.QueueCapacity),
		pending:    make(map[string]*time.Timer),
		stopCh:     make(chan struct{}),
	}
	p.warnArmed.Store(true)
	return p, nil
}

// Start recursively subscribes under root, then launches the worker pool
// and the dispatch loop.
func (p *Pump) Start() error {
	if err := p.addRecursive(p.root); err != nil {
		return err
	}

	workers := p.cfg.WorkerCount
	if workers <= 0 {
		workers = warmWorkerCount()
	}
	p.workers = workers
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	p.wg.Add(1)
	go p.loop()
	return nil
}

// QueueOccupancy, Dropped, and WorkerCount back the diagnostics surface.
func (p *Pump) QueueOccupancy() int { return len(p.queue) }
func (p *Pump) Dropped() uint64     { return p.dropped.Load() }
func (p *Pump) WorkerCount() int    { return p.workers }

func (p *Pump) Stop() {
	close(p.stopCh)
	_ = p.fs.Close()
	p.wg.Wait()
}

func (p *Pump) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p.classifier.Classify(path, -1) == ClassIgnored {
			return filepath.SkipDir
		}
		return p.fs.Add(path)
	})
}

// loop reads raw fsnotify events and debounces per-path before enqueueing
// onto the bounded worker queue.
func (p *Pump) loop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case ev, ok := <-p.fs.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if p.classifier.Classify(ev.Name, -1) != ClassIgnored {
						_ = p.fs.Add(ev.Name)
					}
					continue
				}
			}
			p.debounce(ev)
		case err, ok := <-p.fs.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Msg("filesystem watcher error")
		}
	}
}

func (p *Pump) debounce(ev fsnotify.Event) {
	p.debounceMu.Lock()
	defer p.debounceMu.Unlock()

	if t, ok := p.pending[ev.Name]; ok {
		t.Stop()
	}
	p.pending[ev.Name] = time.AfterFunc(p.cfg.Debounce, func() {
		p.debounceMu.Lock()
		delete(p.pending, ev.Name)
		p.debounceMu.Unlock()
		p.enqueue(ev)
	})
}

// enqueue applies backpressure: a full queue drops the incoming event
// (never reorders by evicting the oldest) and increments a counter. A
// warning fires at most once per arm/disarm cycle once occupancy crosses
// BacklogWarnThreshold, rearming once occupancy falls back below half of it.
func (p *Pump) enqueue(ev fsnotify.Event) {
	select {
	case p.queue <- ev:
	default:
		p.dropped.Add(1)
	}
	p.checkBacklog()
}

func (p *Pump) checkBacklog() {
	occ := len(p.queue)
	switch {
	case occ >= p.cfg.BacklogWarnThreshold:
		if p.warnArmed.CompareAndSwap(true, false) {
			log.Warn().Int("occupancy", occ).Err(forgeerrors.QueueOverflow(p.dropped.Load())).Msg("event queue backlog crossed warning threshold")
		}
	case occ < p.cfg.BacklogWarnThreshold/2:
		p.warnArmed.Store(true)
	}
}

func (p *Pump) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopCh:
			return
		case ev, ok := <-p.queue:
			if !ok {
				return
			}
			p.dispatch(ev)
		}
	}
}

func (p *Pump) dispatch(ev fsnotify.Event) {
	switch {
	case ev.Op&fsnotify.Remove != 0:
		p.handleRemove(ev.Name)
	case ev.Op&fsnotify.Rename != 0:
		p.handleRenameFrom(ev.Name)
	case ev.Op&fsnotify.Create != 0:
		if oldPath, ok := p.renames.TakeAny(); ok {
			p.HandleRenameTo(oldPath, ev.Name)
			return
		}
		p.handleWrite(ev.Name)
	case ev.Op&fsnotify.Write != 0:
		p.handleWrite(ev.Name)
	}
}

func (p *Pump) handleWrite(path string) {
	class := p.classifier.Classify(path, -1)
	if class == ClassIgnored {
		return
	}
	rapidStart := time.Now()
	pass := p.rapid.Check(path)
	if p.cfg.Profile {
		recordProfileTiming("rapid", path, time.Since(rapidStart))
	}
	if !pass {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		log.Debug().Err(classifyReadFailure(path, err)).Str("path", path).Msg("skipping event")
		return
	}

	if class == ClassTemp {
		content, ok := p.quality.pool.Read(path)
		if ok {
			p.tempCache.Capture(path, content)
		}
		return
	}

	if err := p.quality.ProcessWrite(path, info.Size()); err != nil {
		log.Error().Err(err).Str("path", path).Msg("append failed")
	}
}

func (p *Pump) handleRemove(path string) {
	class := p.classifier.Classify(path, -1)
	p.rapid.Forget(path)
	if class == ClassTemp {
		p.tempCache.Drop(path)
		return
	}
	if err := p.quality.ProcessRemove(path); err != nil {
		log.Error().Err(err).Str("path", path).Msg("append failed")
	}
}

func (p *Pump) handleRenameFrom(path string) {
	class := p.classifier.Classify(path, -1)
	if class == ClassTemp {
		if content, ok := p.quality.pool.Read(path); ok {
			p.tempCache.Capture(path, content)
		}
	}
	p.renames.Remember(path)
}

// HandleRenameTo is invoked once a paired rename-to event is observed
// (fsnotify delivers rename as two separate Remove/Create-like events on
// most platforms; the caller pairs them via RenameBuffer before calling
// this).
func (p *Pump) HandleRenameTo(oldPath, newPath string) {
	oldClass := p.classifier.Classify(oldPath, -1)
	newClass := p.classifier.Classify(newPath, -1)

	switch ClassifyRename(oldClass, newClass) {
	case RenameActionMove:
		if err := p.quality.ProcessRenameMove(oldPath, newPath); err != nil {
			log.Error().Err(err).Str("from", oldPath).Str("to", newPath).Msg("append failed")
		}
	case RenameActionDiffAgainstTemp:
		captured, _ := p.tempCache.Take(oldPath)
		if err := p.quality.ProcessRenameAgainstTemp(newPath, captured); err != nil {
			log.Error().Err(err).Str("to", newPath).Msg("append failed")
		}
	case RenameActionDeleteOld:
		if err := p.quality.ProcessRenameDeleteOld(oldPath); err != nil {
			log.Error().Err(err).Str("path", oldPath).Msg("append failed")
		}
	case RenameActionIgnore:
	}
}
