package safety

import (
	"fmt"
	"strings"
)

// Mode controls what a suppression pass does with its candidates.
type Mode int

const (
	ModeEnforce Mode = iota // terminate candidates
	ModeDryRun              // report candidates only
)

func (m Mode) String() string {
	switch m {
	case ModeEnforce:
		return "enforce"
	case ModeDryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// ParseMode accepts "enforce" and "dry-run" (also "dryrun", "monitor").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "enforce":
		return ModeEnforce, nil
	case "dry-run", "dryrun", "monitor":
		return ModeDryRun, nil
	default:
		return ModeEnforce, fmt.Errorf("unknown safety mode %q", s)
	}
}

// Description returns a human-readable description of a mode.
func (m Mode) Description() string {
	switch m {
	case ModeEnforce:
		return "Terminate over-threshold workers"
	case ModeDryRun:
		return "Report only, never terminate"
	default:
		return "Unknown"
	}
}
