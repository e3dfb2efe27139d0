package watcher

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	forgeerrors "github.com/sjzar/forge/internal/errors"
)

// LogSink is the external collaborator responsible for durable,
// idempotent storage of operations. Append returns true for a newly
// inserted operation and false when id was already observed — the
// emission sink never republishes a duplicate.
type LogSink interface {
	Append(op *Operation) (inserted bool, err error)
}

// Broadcaster fans a successfully-appended operation out to subscribers.
// Publish must not block the caller on a slow or absent subscriber.
type Broadcaster interface {
	Publish(op *Operation)
}

// ChannelBroadcaster is a Broadcaster over a single buffered channel; a
// full channel (no subscriber draining it) is treated as "no subscribers"
// and the send is simply dropped.
type ChannelBroadcaster struct {
	ch chan *Operation
}

func NewChannelBroadcaster(buffer int) *ChannelBroadcaster {
	return &ChannelBroadcaster{ch: make(chan *Operation, buffer)}
}

func (b *ChannelBroadcaster) Publish(op *Operation) {
	select {
	case b.ch <- op:
	default:
	}
}

func (b *ChannelBroadcaster) Subscribe() <-chan *Operation {
	return b.ch
}

// throughputMeter tracks a rolling operations/second count, emitting a
// snapshot every reportEvery operations provided at least one second has
// elapsed since the last one.
type throughputMeter struct {
	mu          sync.Mutex
	count       uint64
	windowAt    time.Time
	reportEvery uint64
	lastRate    float64
}

func newThroughputMeter(reportEvery uint64) *throughputMeter {
	return &throughputMeter{windowAt: time.Now(), reportEvery: reportEvery}
}

func (m *throughputMeter) record() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	if m.count < m.reportEvery {
		return
	}
	elapsed := time.Since(m.windowAt)
	if elapsed < time.Second {
		return
	}
	rate := float64(m.count) / elapsed.Seconds()
	log.Info().Float64("ops_per_sec", rate).Uint64("ops", m.count).Msg("throughput")
	m.lastRate = rate
	m.count = 0
	m.windowAt = time.Now()
}

// Rate returns the most recently reported operations/second figure, 0
// until the first report window closes.
func (m *throughputMeter) Rate() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRate
}

// EmissionSink drives LogSink.Append, publishes on success only, and
// records throughput. A failed append is returned to the caller as an
// error; operations are emitted at-most-once under that failure, since
// any snapshot mutation made before the append attempt is already
// committed.
type EmissionSink struct {
	log   LogSink
	bcast Broadcaster
	meter *throughputMeter
}

func NewEmissionSink(logSink LogSink, bcast Broadcaster) *EmissionSink {
	return &EmissionSink{log: logSink, bcast: bcast, meter: newThroughputMeter(100)}
}

// Rate reports the emission sink's most recent operations/second figure.
func (s *EmissionSink) Rate() float64 {
	return s.meter.Rate()
}

func (s *EmissionSink) Emit(op *Operation) error {
	inserted, err := s.log.Append(op)
	if err != nil {
		return forgeerrors.AppendFailed(op.FilePath, err)
	}
	if !inserted {
		return nil
	}
	if s.bcast != nil {
		s.bcast.Publish(op)
	}
	s.meter.record()
	return nil
}
