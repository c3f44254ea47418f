package monitor

import (
	"time"

	"github.com/rogerwwx/mem-cleaner/internal/metrics"
)

// CycleStats summarises one update cycle.
type CycleStats struct {
	Live     int // pids in the snapshot
	Created  int
	Skipped  int // new pids whose owner could not be read
	Evicted  int
	Duration time.Duration
}

// Engine runs update cycles against a table.
type Engine struct {
	source     Source
	classifier *Classifier
}

// NewEngine creates an update engine.
func NewEngine(source Source, classifier *Classifier) *Engine {
	return &Engine{source: source, classifier: classifier}
}

// RunUpdateCycle diffs the live pid set against the table. When it returns
// the table holds exactly one record per live pid whose owner was readable
// and no record for any pid missing from the snapshot.
func (e *Engine) RunUpdateCycle(table *Table, wl Whitelist) CycleStats {
	start := time.Now()
	pids := e.source.ListPIDs()
	stats := CycleStats{Live: len(pids)}

	table.Range(func(r *Record) bool {
		r.seen = false
		return true
	})

	for _, pid := range pids {
		if r, ok := table.Get(pid); ok {
			if r.seen {
				continue
			}
			r.seen = true
			e.classifier.Refresh(r, wl)
			continue
		}

		r, ok := e.classifier.Create(pid, wl)
		if !ok {
			stats.Skipped++
			continue
		}
		r.seen = true
		table.Insert(r)
		stats.Created++
	}

	table.Range(func(r *Record) bool {
		if !r.seen {
			table.Remove(r.PID)
			stats.Evicted++
		}
		return true
	})

	stats.Duration = time.Since(start)

	metrics.UpdateCycles.Inc()
	metrics.UpdateCycleDuration.Observe(stats.Duration.Seconds())
	metrics.RecordsEvicted.Add(float64(stats.Evicted))
	for state, n := range table.Counts() {
		metrics.TrackedRecords.WithLabelValues(state.String()).Set(float64(n))
	}

	return stats
}
