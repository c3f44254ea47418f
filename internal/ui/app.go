package ui

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

// App is the live view of the process table.
type App struct {
	tapp      *tview.Application
	mon       *monitor.Monitor
	mode      safety.Mode
	threshold int

	dashboard   *Dashboard
	recordTable *RecordTable
	killPanel   *KillPanel

	mu        sync.RWMutex
	records   []monitor.Record
	stats     monitor.CycleStats
	killed    int
	lastKill  time.Time
	startTime time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application around a monitor. The caller keeps
// ownership of the monitor's OnKilled callback and forwards kills through
// HandleKilled.
func NewApp(mon *monitor.Monitor, mode safety.Mode, threshold int) *App {
	app := &App{
		tapp:      tview.NewApplication(),
		mon:       mon,
		mode:      mode,
		threshold: threshold,
		startTime: time.Now(),
	}

	app.ctx, app.cancel = context.WithCancel(context.Background())

	app.dashboard = NewDashboard(app)
	app.recordTable = NewRecordTable(app)
	app.killPanel = NewKillPanel(app)

	return app
}

// Run starts the monitor loop and blocks until the user quits.
func (a *App) Run() error {
	mainFlex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.dashboard.view, 3, 0, false).
		AddItem(a.recordTable.table, 0, 3, true).
		AddItem(a.killPanel.view, 8, 0, false).
		AddItem(a.createFooter(), 1, 0, false)

	a.tapp.SetRoot(mainFlex, true)
	setupKeybindings(a)

	a.mon.OnUpdate(func(records []monitor.Record, stats monitor.CycleStats) {
		a.mu.Lock()
		a.records = records
		a.stats = stats
		a.mu.Unlock()

		a.tapp.QueueUpdateDraw(func() {
			a.dashboard.Update()
			a.recordTable.Update(records)
		})
	})

	go func() {
		if err := a.mon.Start(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.tapp.Stop()
		}
	}()

	return a.tapp.Run()
}

// HandleKilled shows a finished suppression pass.
func (a *App) HandleKilled(killed []monitor.Record) {
	now := time.Now()
	a.mu.Lock()
	a.killed += len(killed)
	a.lastKill = now
	a.mu.Unlock()

	a.tapp.QueueUpdateDraw(func() {
		a.killPanel.Add(now, killed, a.mode == safety.ModeDryRun)
		a.dashboard.Update()
	})
}

func (a *App) createFooter() *tview.TextView {
	footer := tview.NewTextView().
		SetDynamicColors(true).
		SetText(" [yellow]s[white]:Sort [yellow]f[white]:Filter state [yellow]c[white]:Clear kills [yellow]q[white]:Quit")
	footer.SetBackgroundColor(tcell.ColorDarkSlateGray)
	return footer
}

func (a *App) stop() {
	a.cancel()
	a.tapp.Stop()
}

func (a *App) getRecords() []monitor.Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.records
}
