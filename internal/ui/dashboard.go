package ui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rivo/tview"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

// Dashboard is the top status bar.
type Dashboard struct {
	app  *App
	view *tview.TextView
}

// NewDashboard creates the dashboard widget.
func NewDashboard(app *App) *Dashboard {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBorder(true).
		SetTitle(" mem-cleaner ").
		SetBorderPadding(0, 0, 1, 1)

	return &Dashboard{app: app, view: tv}
}

// Update refreshes the dashboard display.
func (d *Dashboard) Update() {
	d.app.mu.RLock()
	records := d.app.records
	stats := d.app.stats
	killed := d.app.killed
	lastKill := d.app.lastKill
	d.app.mu.RUnlock()

	counts := countStates(records)
	runtime := time.Since(d.app.startTime).Truncate(time.Second)

	modeColor := "[green]"
	if d.app.mode == safety.ModeDryRun {
		modeColor = "[yellow]"
	}

	last := "never"
	if !lastKill.IsZero() {
		last = humanize.Time(lastKill)
	}

	text := fmt.Sprintf(
		" [yellow]Runtime:[white] %s | [yellow]Mode:[white] %s%s[white] | [yellow]Threshold:[white] %d | "+
			"[yellow]Tracked:[white] %d ([red]%d[white] reclaimable, [blue]%d[white] ambiguous, [gray]%d[white] inert) | "+
			"[yellow]Cycle:[white] %s | [yellow]Killed:[white] %d (last %s)",
		runtime, modeColor, d.app.mode, d.app.threshold,
		len(records), counts[monitor.StateReclaimable], counts[monitor.StateAmbiguous], counts[monitor.StateInert],
		stats.Duration.Truncate(time.Microsecond), killed, last,
	)

	d.view.SetText(text)
}

func countStates(records []monitor.Record) map[monitor.State]int {
	counts := make(map[monitor.State]int)
	for _, r := range records {
		counts[r.State]++
	}
	return counts
}
