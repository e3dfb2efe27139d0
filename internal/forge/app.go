// Package forge wires a repository's context, config, watcher, and
// diagnostics surface into a single runnable Manager.
package forge

import (
	"github.com/rs/zerolog/log"

	"github.com/sjzar/forge/internal/forge/ctx"
	forgehttp "github.com/sjzar/forge/internal/forge/http"
	"github.com/sjzar/forge/internal/watcher"
)

// Manager owns one repository's watcher plus whichever operator surfaces
// (HTTP diagnostics, TUI) are enabled for this run.
type Manager struct {
	ctx  *ctx.Context
	w    *watcher.Watcher
	http *forgehttp.Service

	httpAddr string
}

// Options configures one Manager run.
type Options struct {
	Root     string
	ActorID  string
	HTTPAddr string // empty disables the diagnostics HTTP surface
	LogSink  watcher.LogSink
}

func New(opts Options) (*Manager, error) {
	c, err := ctx.New(opts.Root, opts.ActorID)
	if err != nil {
		return nil, err
	}

	cfg := watcher.Config{
		Root:         c.Root,
		ActorID:      c.ActorID,
		RepoID:       c.RepoID,
		Profile:      c.Profile,
		DisableRapid: c.DisableRapid,
	}

	reporter := NewLogReporter(watcher.DisplaySuppressMin, watcher.DisplaySuppressMax)
	w, err := watcher.New(cfg, opts.LogSink, reporter)
	if err != nil {
		return nil, err
	}

	m := &Manager{ctx: c, w: w, httpAddr: opts.HTTPAddr}
	if opts.HTTPAddr != "" {
		m.http = forgehttp.NewService(opts.HTTPAddr, m)
	}
	return m, nil
}

// Start begins watching and, if configured, the diagnostics HTTP surface.
func (m *Manager) Start() error {
	if err := m.w.Start(); err != nil {
		return err
	}
	if m.http != nil {
		if err := m.http.Start(); err != nil {
			m.w.Stop()
			return err
		}
	}
	log.Info().Str("root", m.ctx.Root).Str("repo_id", m.ctx.RepoID).Msg("forge manager started")
	return nil
}

// Stop shuts down the diagnostics surface before the watcher, mirroring
// the reverse-dependency-order shutdown a Manager follows elsewhere.
func (m *Manager) Stop() {
	if m.http != nil {
		if err := m.http.Stop(); err != nil {
			log.Error().Err(err).Msg("diagnostics http server stop failed")
		}
	}
	m.w.Stop()
}

// Operations exposes the watcher's broadcast channel for an in-process
// subscriber such as the TUI dashboard.
func (m *Manager) Operations() <-chan *watcher.Operation {
	return m.w.Operations()
}

// Stats implements forgehttp.StatsProvider.
func (m *Manager) Stats() forgehttp.Stats {
	return forgehttp.Stats{
		SnapshotCount:  m.w.SnapshotCount(),
		QueueOccupancy: m.w.QueueOccupancy(),
		Dropped:        m.w.Dropped(),
		OpsPerSecond:   m.w.OpsPerSecond(),
		WorkerCount:    m.w.WorkerCount(),
	}
}

// ConfigDir exposes where this repo's config.json lives, for CLI commands
// that print or edit it.
func (m *Manager) ConfigDir() string {
	return m.ctx.ConfigDir()
}

// The accessors below satisfy internal/forge/tui.StatsProvider, letting
// the operator dashboard poll the same counters /metrics reports.
func (m *Manager) SnapshotCount() int    { return m.w.SnapshotCount() }
func (m *Manager) QueueOccupancy() int   { return m.w.QueueOccupancy() }
func (m *Manager) Dropped() uint64       { return m.w.Dropped() }
func (m *Manager) OpsPerSecond() float64 { return m.w.OpsPerSecond() }
func (m *Manager) WorkerCount() int      { return m.w.WorkerCount() }
