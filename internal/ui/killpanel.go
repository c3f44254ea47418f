package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/notification"
)

const maxKillLines = 200

// KillPanel lists recent suppression results.
type KillPanel struct {
	app   *App
	view  *tview.TextView
	lines []string
}

// NewKillPanel creates the kill panel.
func NewKillPanel(app *App) *KillPanel {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)

	tv.SetBorder(true).
		SetTitle(" Suppressed ").
		SetBorderPadding(0, 0, 1, 1)

	return &KillPanel{app: app, view: tv}
}

// Add appends one line per killed record.
func (kp *KillPanel) Add(at time.Time, killed []monitor.Record, dryRun bool) {
	verb := "[red]killed[white]"
	if dryRun {
		verb = "[yellow]would kill[white]"
	}
	ts := notification.FormatTimestamp(at)
	for _, r := range killed {
		kp.lines = append(kp.lines,
			fmt.Sprintf("[gray]%s[white] %s pid=%-6d score=%-5d %s", ts, verb, r.PID, r.Score, r.Name))
	}
	if len(kp.lines) > maxKillLines {
		kp.lines = kp.lines[len(kp.lines)-maxKillLines:]
	}
	kp.view.SetText(strings.Join(kp.lines, "\n"))
	kp.view.ScrollToEnd()
}

// Clear empties the panel.
func (kp *KillPanel) Clear() {
	kp.lines = nil
	kp.view.SetText("")
}

// Message shows a transient status line.
func (kp *KillPanel) Message(msg string) {
	kp.view.SetText(strings.Join(append(kp.lines, "[yellow]"+msg), "\n"))
	kp.view.ScrollToEnd()
}
