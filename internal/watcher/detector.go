package watcher

import "github.com/rs/zerolog/log"

// Watcher is the top-level handle on a running detector: classifier,
// stores, reader pool, rapid/quality tiers, and the event pump, wired
// together for one repository root.
type Watcher struct {
	cfg        *Config
	classifier *Classifier
	pool       *HandlePool
	snapshots  *SnapshotStore
	builder    *Builder
	clock      *Clock
	renames    *RenameBuffer
	tempCache  *TempContentCache
	rapid      *RapidDetector
	quality    *QualityDetector
	pump       *Pump
	bcast      *ChannelBroadcaster
}

// New wires a Watcher for cfg.Root, backed by logSink for durable operation
// storage. cfg.ActorID identifies this process in every Position this
// instance produces. reporter is optional (nil disables operator-facing
// print-stream reporting entirely).
func New(cfg Config, logSink LogSink, reporter Reporter) (*Watcher, error) {
	cfg.withDefaults()

	classifier := NewClassifier(cfg.Root)
	pool := NewHandlePool()
	snapshots := NewSnapshotStore(cfg.PrevStateLimit)
	clock := NewClock()
	builder := NewBuilder(clock, cfg.ActorID)
	renames := NewRenameBuffer()
	tempCache := NewTempContentCache()
	var rapid *RapidDetector
	if cfg.DisableRapid {
		rapid = NewDisabledRapidDetector()
	} else {
		rapid = NewRapidDetector()
	}
	bcast := NewChannelBroadcaster(cfg.QueueCapacity)
	sink := NewEmissionSink(logSink, bcast)
	quality := NewQualityDetector(pool, snapshots, builder, sink, cfg.MaxTrackedFileBytes, cfg.Profile).WithReporter(reporter)

	pump, err := NewPump(&cfg, classifier, renames, tempCache, rapid, quality)
	if err != nil {
		return nil, err
	}

	return &Watcher{
		cfg:        &cfg,
		classifier: classifier,
		pool:       pool,
		snapshots:  snapshots,
		builder:    builder,
		clock:      clock,
		renames:    renames,
		tempCache:  tempCache,
		rapid:      rapid,
		quality:    quality,
		pump:       pump,
		bcast:      bcast,
	}, nil
}

// Start warms the handle-pool cache, then begins watching.
func (w *Watcher) Start() error {
	Warm(w.cfg.Root, w.classifier, w.pool, w.cfg.MaxFileSizeWarm)
	if err := w.pump.Start(); err != nil {
		return err
	}
	log.Info().Str("root", w.cfg.Root).Str("actor_id", w.cfg.ActorID).Msg("watcher started")
	return nil
}

func (w *Watcher) Stop() {
	w.pump.Stop()
}

// Operations exposes the broadcast channel of successfully emitted
// operations for an in-process subscriber (e.g. the operator dashboard).
func (w *Watcher) Operations() <-chan *Operation {
	return w.bcast.Subscribe()
}

// SnapshotCount reports the current size of the snapshot store, used by
// /metrics and the operator dashboard.
func (w *Watcher) SnapshotCount() int {
	return w.snapshots.Len()
}

// QueueOccupancy, Dropped, WorkerCount, and OpsPerSecond expose pump and
// sink counters for the diagnostics HTTP service and the TUI dashboard.
func (w *Watcher) QueueOccupancy() int  { return w.pump.QueueOccupancy() }
func (w *Watcher) Dropped() uint64      { return w.pump.Dropped() }
func (w *Watcher) WorkerCount() int     { return w.pump.WorkerCount() }
func (w *Watcher) OpsPerSecond() float64 { return w.quality.sink.Rate() }
