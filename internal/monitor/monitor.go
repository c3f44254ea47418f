package monitor

import (
	"context"
	"sync"
	"time"
)

// Options configures the monitor loop.
type Options struct {
	UpdateInterval   time.Duration
	SuppressInterval time.Duration
	Threshold        int
}

// Monitor drives update cycles on a fast cadence and suppression passes on
// a slow one, from a single goroutine.
type Monitor struct {
	table      *Table
	engine     *Engine
	suppressor *Suppressor
	whitelist  func() Whitelist
	opts       Options

	mu       sync.RWMutex
	records  []Record
	onUpdate func([]Record, CycleStats)
	onKilled func([]Record)
}

// NewMonitor creates a monitor. whitelist is called once per tick and must
// return an immutable snapshot.
func NewMonitor(engine *Engine, suppressor *Suppressor, whitelist func() Whitelist, opts Options) *Monitor {
	if whitelist == nil {
		whitelist = func() Whitelist { return nil }
	}
	return &Monitor{
		table:      NewTable(),
		engine:     engine,
		suppressor: suppressor,
		whitelist:  whitelist,
		opts:       opts,
	}
}

// OnUpdate sets a callback invoked after each update cycle with a copy of
// the table.
func (m *Monitor) OnUpdate(fn func([]Record, CycleStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onUpdate = fn
}

// OnKilled sets a callback invoked after a suppression pass that killed at
// least one process.
func (m *Monitor) OnKilled(fn func([]Record)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onKilled = fn
}

// Records returns the table as of the last update cycle.
func (m *Monitor) Records() []Record {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, len(m.records))
	copy(out, m.records)
	return out
}

// Start runs the loop until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.Update()

	fast := time.NewTicker(m.opts.UpdateInterval)
	defer fast.Stop()
	slow := time.NewTicker(m.opts.SuppressInterval)
	defer slow.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-fast.C:
			m.Update()
		case <-slow.C:
			m.Update()
			m.Suppress()
		}
	}
}

// Update runs one update cycle. It must be called from the goroutine that
// owns the monitor.
func (m *Monitor) Update() CycleStats {
	stats := m.engine.RunUpdateCycle(m.table, m.whitelist())
	snapshot := m.table.Snapshot()

	m.mu.Lock()
	m.records = snapshot
	callback := m.onUpdate
	m.mu.Unlock()

	if callback != nil {
		callback(snapshot, stats)
	}
	return stats
}

// Suppress runs one suppression pass and reports kills through the
// OnKilled callback. Same goroutine rule as Update.
func (m *Monitor) Suppress() []Record {
	killed := m.suppressor.RunSuppressionPass(m.table, m.opts.Threshold)
	if len(killed) == 0 {
		return nil
	}

	m.mu.Lock()
	m.records = m.table.Snapshot()
	callback := m.onKilled
	m.mu.Unlock()

	if callback != nil {
		callback(killed)
	}
	return killed
}
