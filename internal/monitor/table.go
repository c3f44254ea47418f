package monitor

import "sort"

// Table maps pids to their records. It is owned by a single goroutine and
// does no locking.
type Table struct {
	records map[int]*Record
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{records: make(map[int]*Record)}
}

// Get returns the record for pid, if any.
func (t *Table) Get(pid int) (*Record, bool) {
	r, ok := t.records[pid]
	return r, ok
}

// Insert adds or replaces the record keyed by r.PID.
func (t *Table) Insert(r *Record) {
	t.records[r.PID] = r
}

// Remove deletes the record for pid. Removing an absent pid is a no-op.
func (t *Table) Remove(pid int) {
	delete(t.records, pid)
}

// Len returns the number of tracked records.
func (t *Table) Len() int {
	return len(t.records)
}

// Range calls fn for every record until fn returns false. Iteration order
// is unspecified. fn must not insert into the table; removing the record
// currently visited is allowed.
func (t *Table) Range(fn func(r *Record) bool) {
	for _, r := range t.records {
		if !fn(r) {
			return
		}
	}
}

// Snapshot returns copies of all records sorted by pid.
func (t *Table) Snapshot() []Record {
	out := make([]Record, 0, len(t.records))
	for _, r := range t.records {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PID < out[j].PID
	})
	return out
}

// Counts returns the number of records in each state.
func (t *Table) Counts() map[State]int {
	counts := map[State]int{
		StateAmbiguous:   0,
		StateReclaimable: 0,
		StateInert:       0,
	}
	for _, r := range t.records {
		counts[r.State]++
	}
	return counts
}
