package ui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
)

// SortField determines how the record table is sorted.
type SortField int

const (
	SortByScore SortField = iota
	SortByPID
	SortByName
	SortByState
)

var sortFieldNames = []string{"SCORE", "PID", "NAME", "STATE"}

// RecordTable displays tracked records.
type RecordTable struct {
	app       *App
	table     *tview.Table
	sortField SortField
	filter    *monitor.State
}

// NewRecordTable creates the record table.
func NewRecordTable(app *App) *RecordTable {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetFixed(1, 0).
		SetSeparator(tview.Borders.Vertical)

	table.SetBorder(true).
		SetTitle(" Tracked processes ").
		SetBorderPadding(0, 0, 0, 0)

	rt := &RecordTable{
		app:       app,
		table:     table,
		sortField: SortByScore,
	}

	rt.setHeaders()
	return rt
}

func (rt *RecordTable) setHeaders() {
	headers := []string{"PID", "UID", "STATE", "SCORE", "", "NAME"}
	for i, h := range headers {
		cell := tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false).
			SetExpansion(1)
		rt.table.SetCell(0, i, cell)
	}
}

// Update refreshes the table with new data.
func (rt *RecordTable) Update(records []monitor.Record) {
	rows := make([]monitor.Record, 0, len(records))
	for _, r := range records {
		if rt.filter != nil && r.State != *rt.filter {
			continue
		}
		rows = append(rows, r)
	}
	rt.sortRecords(rows)

	for r := rt.table.GetRowCount() - 1; r >= 1; r-- {
		rt.table.RemoveRow(r)
	}

	for i, r := range rows {
		row := i + 1

		stateColor := tcell.ColorWhite
		switch r.State {
		case monitor.StateInert:
			stateColor = tcell.ColorGray
		case monitor.StateAmbiguous:
			stateColor = tcell.ColorBlue
		case monitor.StateReclaimable:
			stateColor = tcell.ColorGreen
		}

		score := "-"
		if r.Score != monitor.UnknownScore {
			score = fmt.Sprintf("%d", r.Score)
		}

		mark := ""
		if r.State == monitor.StateReclaimable && r.Score >= rt.app.threshold {
			mark = "!"
			stateColor = tcell.ColorRed
		}

		rt.table.SetCell(row, 0, tview.NewTableCell(fmt.Sprintf("%d", r.PID)).SetTextColor(tcell.ColorWhite))
		rt.table.SetCell(row, 1, tview.NewTableCell(fmt.Sprintf("%d", r.Owner)).SetTextColor(tcell.ColorWhite))
		rt.table.SetCell(row, 2, tview.NewTableCell(r.State.String()).SetTextColor(stateColor))
		rt.table.SetCell(row, 3, tview.NewTableCell(score).SetTextColor(tcell.ColorWhite))
		rt.table.SetCell(row, 4, tview.NewTableCell(mark).SetTextColor(tcell.ColorRed))
		rt.table.SetCell(row, 5, tview.NewTableCell(truncate(r.Name, 60)).SetTextColor(stateColor))
	}
}

// CycleSort advances to the next sort field.
func (rt *RecordTable) CycleSort() {
	rt.sortField = (rt.sortField + 1) % SortField(len(sortFieldNames))
}

// SortName returns the current sort field name.
func (rt *RecordTable) SortName() string {
	return sortFieldNames[rt.sortField]
}

// CycleFilter steps through all, Reclaimable, Ambiguous, Inert.
func (rt *RecordTable) CycleFilter() {
	next := func(s monitor.State) *monitor.State { return &s }
	switch {
	case rt.filter == nil:
		rt.filter = next(monitor.StateReclaimable)
	case *rt.filter == monitor.StateReclaimable:
		rt.filter = next(monitor.StateAmbiguous)
	case *rt.filter == monitor.StateAmbiguous:
		rt.filter = next(monitor.StateInert)
	default:
		rt.filter = nil
	}
}

// FilterName returns the current filter.
func (rt *RecordTable) FilterName() string {
	if rt.filter == nil {
		return "All"
	}
	return rt.filter.String()
}

func (rt *RecordTable) sortRecords(records []monitor.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch rt.sortField {
		case SortByPID:
			return a.PID < b.PID
		case SortByName:
			return a.Name < b.Name
		case SortByState:
			if a.State != b.State {
				return a.State < b.State
			}
			return a.PID < b.PID
		default:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			return a.PID < b.PID
		}
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
