package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertGetRemove(t *testing.T) {
	table := NewTable()

	_, ok := table.Get(42)
	assert.False(t, ok)

	table.Insert(&Record{PID: 42, Name: "com.app:push"})
	r, ok := table.Get(42)
	require.True(t, ok)
	assert.Equal(t, "com.app:push", r.Name)
	assert.Equal(t, 1, table.Len())

	table.Insert(&Record{PID: 42, Name: "com.other:push"})
	r, _ = table.Get(42)
	assert.Equal(t, "com.other:push", r.Name, "insert replaces by pid")
	assert.Equal(t, 1, table.Len())

	table.Remove(42)
	table.Remove(42)
	assert.Equal(t, 0, table.Len())
}

func TestTableRangeAllowsRemovingCurrent(t *testing.T) {
	table := NewTable()
	for pid := 1; pid <= 10; pid++ {
		table.Insert(&Record{PID: pid})
	}

	table.Range(func(r *Record) bool {
		if r.PID%2 == 0 {
			table.Remove(r.PID)
		}
		return true
	})

	assert.Equal(t, 5, table.Len())
	for _, r := range table.Snapshot() {
		assert.Equal(t, 1, r.PID%2)
	}
}

func TestTableRangeStops(t *testing.T) {
	table := NewTable()
	for pid := 1; pid <= 10; pid++ {
		table.Insert(&Record{PID: pid})
	}

	visited := 0
	table.Range(func(r *Record) bool {
		visited++
		return visited < 3
	})
	assert.Equal(t, 3, visited)
}

func TestTableSnapshotIsSortedCopy(t *testing.T) {
	table := NewTable()
	table.Insert(&Record{PID: 30, State: StateInert})
	table.Insert(&Record{PID: 10, State: StateReclaimable})
	table.Insert(&Record{PID: 20, State: StateAmbiguous})

	snap := table.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []int{10, 20, 30}, []int{snap[0].PID, snap[1].PID, snap[2].PID})

	snap[0].Name = "changed"
	r, _ := table.Get(10)
	assert.Empty(t, r.Name)
}

func TestTableCounts(t *testing.T) {
	table := NewTable()
	assert.Equal(t, map[State]int{StateAmbiguous: 0, StateReclaimable: 0, StateInert: 0}, table.Counts())

	table.Insert(&Record{PID: 1, State: StateInert})
	table.Insert(&Record{PID: 2, State: StateInert})
	table.Insert(&Record{PID: 3, State: StateReclaimable})

	counts := table.Counts()
	assert.Equal(t, 2, counts[StateInert])
	assert.Equal(t, 1, counts[StateReclaimable])
	assert.Equal(t, 0, counts[StateAmbiguous])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "Ambiguous", StateAmbiguous.String())
	assert.Equal(t, "Reclaimable", StateReclaimable.String())
	assert.Equal(t, "Inert", StateInert.String())
	assert.Equal(t, "Unknown", State(99).String())
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a:1", "b:2"}, Names([]Record{{Name: "a:1"}, {Name: "b:2"}}))
	assert.Empty(t, Names(nil))
}
