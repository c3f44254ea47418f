package process

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ErrInvalidPID is returned for pids that can never name a single process.
var ErrInvalidPID = errors.New("invalid pid")

// Manager sends termination signals.
type Manager struct {
	signal unix.Signal
}

// NewManager creates a manager that terminates with SIGKILL.
func NewManager() *Manager {
	return &Manager{signal: unix.SIGKILL}
}

// WithSignal returns a copy of m that terminates with sig instead.
func (m *Manager) WithSignal(sig unix.Signal) *Manager {
	return &Manager{signal: sig}
}

// Terminate signals pid. "No such process" and "not permitted" both come
// back as errors.
func (m *Manager) Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("terminating %d: %w", pid, ErrInvalidPID)
	}
	if err := unix.Kill(pid, m.signal); err != nil {
		return fmt.Errorf("sending %v to %d: %w", m.signal, pid, err)
	}
	return nil
}

// IsAlive reports whether pid exists. A process we may not signal still
// counts as alive.
func (m *Manager) IsAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
