// Package tui is an optional operator dashboard: a live stream of emitted
// operations alongside a throughput meter and a backlog gauge. It renders
// a richer view of the same operator-facing signal the plain log lines in
// report.go already carry — not part of the watcher's protocol.
package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/shirou/gopsutil/v4/load"

	"github.com/sjzar/forge/internal/watcher"
)

const refreshInterval = 500 * time.Millisecond

// StatsProvider mirrors forgehttp.StatsProvider without importing that
// package, keeping the TUI's only hard dependency on internal/watcher.
type StatsProvider interface {
	SnapshotCount() int
	QueueOccupancy() int
	Dropped() uint64
	OpsPerSecond() float64
	WorkerCount() int
}

// Dashboard is a tview application showing the live operation stream plus
// a small status table of pipeline counters.
type Dashboard struct {
	*tview.Application

	provider StatsProvider
	ops      <-chan *watcher.Operation

	stream *tview.TextView
	status *tview.Table

	stop chan struct{}
}

func New(provider StatsProvider, ops <-chan *watcher.Operation) *Dashboard {
	d := &Dashboard{
		Application: tview.NewApplication(),
		provider:    provider,
		ops:         ops,
		stream:      tview.NewTextView().SetDynamicColors(true).SetScrollable(true),
		status:      tview.NewTable(),
		stop:        make(chan struct{}),
	}
	d.stream.SetBorder(true).SetTitle(" operations ")
	d.status.SetBorder(true).SetTitle(" status ")
	d.initStatusRows()
	return d
}

func (d *Dashboard) initStatusRows() {
	labels := []string{"snapshots", "queue", "dropped", "ops/sec", "workers", "host load"}
	for i, l := range labels {
		d.status.SetCell(i, 0, tview.NewTableCell(" "+l+":").SetTextColor(tcell.ColorYellow))
		d.status.SetCell(i, 1, tview.NewTableCell(""))
	}
}

func (d *Dashboard) Run() error {
	flex := tview.NewFlex().
		AddItem(d.stream, 0, 3, true).
		AddItem(d.status, 28, 1, false)

	go d.consumeOperations()
	go d.refreshStatus()

	return d.SetRoot(flex, true).EnableMouse(false).Run()
}

func (d *Dashboard) Stop() {
	close(d.stop)
	d.Application.Stop()
}

func (d *Dashboard) consumeOperations() {
	for {
		select {
		case <-d.stop:
			return
		case op, ok := <-d.ops:
			if !ok {
				return
			}
			line := formatOperation(op)
			d.QueueUpdateDraw(func() {
				fmt.Fprintln(d.stream, line)
			})
		}
	}
}

func (d *Dashboard) refreshStatus() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			hostLoad := "n/a"
			if avg, err := load.Avg(); err == nil {
				hostLoad = fmt.Sprintf("%.2f", avg.Load1)
			}
			d.QueueUpdateDraw(func() {
				d.status.SetCell(0, 1, tview.NewTableCell(fmt.Sprintf("%d", d.provider.SnapshotCount())))
				d.status.SetCell(1, 1, tview.NewTableCell(fmt.Sprintf("%d", d.provider.QueueOccupancy())))
				d.status.SetCell(2, 1, tview.NewTableCell(fmt.Sprintf("%d", d.provider.Dropped())))
				d.status.SetCell(3, 1, tview.NewTableCell(fmt.Sprintf("%.1f", d.provider.OpsPerSecond())))
				d.status.SetCell(4, 1, tview.NewTableCell(fmt.Sprintf("%d", d.provider.WorkerCount())))
				d.status.SetCell(5, 1, tview.NewTableCell(hostLoad))
			})
		}
	}
}

func formatOperation(op *watcher.Operation) string {
	switch op.Kind {
	case watcher.OpInsert:
		return fmt.Sprintf("[green]+[white] %s  insert %d chars @%d", op.FilePath, op.Length, op.Position.Offset)
	case watcher.OpDelete:
		return fmt.Sprintf("[red]-[white] %s  delete %d chars @%d", op.FilePath, op.Length, op.Position.Offset)
	case watcher.OpReplace:
		return fmt.Sprintf("[yellow]~[white] %s  replace @%d", op.FilePath, op.Position.Offset)
	case watcher.OpFileCreate:
		return fmt.Sprintf("[green]*[white] %s  created", op.FilePath)
	case watcher.OpFileDelete:
		return fmt.Sprintf("[red]x[white] %s  deleted", op.FilePath)
	case watcher.OpFileRename:
		return fmt.Sprintf("[blue]>[white] %s -> %s", op.OldPath, op.NewPath)
	default:
		return op.FilePath
	}
}
