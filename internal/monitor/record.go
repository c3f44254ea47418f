package monitor

import "math"

// State is the trust/monitoring state of a tracked process.
type State int

const (
	// StateAmbiguous: owner is eligible but the name does not carry the
	// worker delimiter yet. The name is re-read every cycle.
	StateAmbiguous State = iota
	// StateReclaimable: eligible owner, delimiter-bearing name, not
	// whitelisted. Only the pressure score is refreshed.
	StateReclaimable
	// StateInert: protected owner or whitelisted name. Never read again.
	StateInert
)

func (s State) String() string {
	switch s {
	case StateAmbiguous:
		return "Ambiguous"
	case StateReclaimable:
		return "Reclaimable"
	case StateInert:
		return "Inert"
	default:
		return "Unknown"
	}
}

// UnknownScore is the pressure score of a record whose score was never read.
const UnknownScore = math.MinInt32

// Record holds the classification state of one process.
type Record struct {
	PID   int
	Owner uint32
	Name  string
	Score int
	State State

	// Consecutive refreshes spent in StateAmbiguous.
	AmbiguousCycles int

	seen bool
}

// Names returns the display names of the given records in order.
func Names(records []Record) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names
}
