package monitor

import (
	"sort"

	"github.com/rogerwwx/mem-cleaner/internal/metrics"
)

// Gate reports whether the system is in a low-power window during which no
// process may be terminated.
type Gate interface {
	IsSystemIdle() bool
}

// Terminator kills processes. Errors cover both "already gone" and
// "not permitted"; neither is fatal.
type Terminator interface {
	IsAlive(pid int) bool
	Terminate(pid int) error
}

// Suppressor selects over-threshold reclaimable records and terminates them.
type Suppressor struct {
	source     Source
	gate       Gate
	terminator Terminator
	dryRun     bool
}

// NewSuppressor creates a suppressor. A nil gate never reports idle.
func NewSuppressor(source Source, gate Gate, terminator Terminator) *Suppressor {
	return &Suppressor{source: source, gate: gate, terminator: terminator}
}

// SetDryRun makes passes report candidates without terminating them or
// removing them from the table.
func (s *Suppressor) SetDryRun(dryRun bool) {
	s.dryRun = dryRun
}

// Candidates returns copies of every reclaimable record whose score is at
// or above threshold, highest score first.
func Candidates(table *Table, threshold int) []Record {
	var out []Record
	table.Range(func(r *Record) bool {
		if r.State == StateReclaimable && r.Score >= threshold {
			out = append(out, *r)
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PID < out[j].PID
	})
	return out
}

// RunSuppressionPass terminates eligible records and returns the ones that
// were killed. Killed records are removed from the table immediately. The
// idle gate is consulted once; when idle, nothing is attempted.
func (s *Suppressor) RunSuppressionPass(table *Table, threshold int) []Record {
	if s.gate != nil && s.gate.IsSystemIdle() {
		metrics.SuppressionPasses.WithLabelValues("idle").Inc()
		return nil
	}
	metrics.SuppressionPasses.WithLabelValues("ran").Inc()

	var killed []Record
	for _, c := range Candidates(table, threshold) {
		if !s.stillSame(c) {
			metrics.Terminations.WithLabelValues("skipped").Inc()
			continue
		}

		if s.dryRun {
			metrics.Terminations.WithLabelValues("dry_run").Inc()
			killed = append(killed, c)
			continue
		}

		if err := s.terminator.Terminate(c.PID); err != nil {
			metrics.Terminations.WithLabelValues("failed").Inc()
			continue
		}
		metrics.Terminations.WithLabelValues("killed").Inc()
		table.Remove(c.PID)
		killed = append(killed, c)
	}
	return killed
}

// stillSame narrows the pid-reuse window: the process must be alive and
// still report the name it was classified under.
func (s *Suppressor) stillSame(r Record) bool {
	if !s.terminator.IsAlive(r.PID) {
		return false
	}
	name, err := s.source.ReadDisplayName(r.PID)
	if err != nil {
		return false
	}
	return name == r.Name
}
