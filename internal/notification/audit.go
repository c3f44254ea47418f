package notification

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
)

// AuditEntry is a single audit log entry.
type AuditEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	PID       int       `json:"pid,omitempty"`
	UID       uint32    `json:"uid,omitempty"`
	Name      string    `json:"name,omitempty"`
	Score     *int      `json:"score,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Auditor writes an append-only audit trail.
type Auditor struct {
	mu   sync.Mutex
	file *os.File
}

// NewAuditor creates a new auditor. An empty path disables auditing.
func NewAuditor(filePath string) (*Auditor, error) {
	if filePath == "" {
		return &Auditor{}, nil
	}

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening audit file: %w", err)
	}

	return &Auditor{file: f}, nil
}

// Close closes the audit file.
func (a *Auditor) Close() {
	if a.file != nil {
		a.file.Close()
	}
}

// LogTermination records a terminated (or, in dry-run, selected) process.
func (a *Auditor) LogTermination(r monitor.Record, dryRun bool) {
	event := "termination"
	if dryRun {
		event = "dry_run_candidate"
	}
	score := r.Score
	a.log(AuditEntry{
		Timestamp: time.Now(),
		Event:     event,
		PID:       r.PID,
		UID:       r.Owner,
		Name:      r.Name,
		Score:     &score,
	})
}

// LogEvent records a general event.
func (a *Auditor) LogEvent(event, details string) {
	a.log(AuditEntry{
		Timestamp: time.Now(),
		Event:     event,
		Details:   details,
	})
}

func (a *Auditor) log(entry AuditEntry) {
	if a.file == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	a.file.Write(append(data, '\n'))
}
