package notification

import (
	"bufio"
	"fmt"
	"os"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04:05"
)

// CleanupLog is the human-readable record of what was killed. It keeps at
// most one day of history: the first write on a new day truncates it.
type CleanupLog struct {
	path     string
	lastDate string
	now      func() time.Time
}

// NewCleanupLog returns nil for an empty path; all methods accept a nil
// receiver.
func NewCleanupLog(path string) *CleanupLog {
	if path == "" {
		return nil
	}
	return &CleanupLog{path: path, now: time.Now}
}

// Path returns the log location.
func (l *CleanupLog) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// WriteStartup writes the startup banner.
func (l *CleanupLog) WriteStartup() error {
	if l == nil {
		return nil
	}
	return l.write(func(w *bufio.Writer, now time.Time) {
		fmt.Fprintf(w, "=== Started: %s ===\n", now.Format(stampLayout))
		fmt.Fprintln(w, "Process suppression started")
		fmt.Fprintln(w)
	})
}

// WriteCleanup appends one block listing the killed names. An empty list
// writes nothing.
func (l *CleanupLog) WriteCleanup(names []string) error {
	if l == nil || len(names) == 0 {
		return nil
	}
	return l.write(func(w *bufio.Writer, now time.Time) {
		fmt.Fprintf(w, "=== Cleanup: %s ===\n", now.Format(stampLayout))
		for _, name := range names {
			fmt.Fprintf(w, "Killed: %s\n", name)
		}
		fmt.Fprintln(w)
	})
}

func (l *CleanupLog) write(fn func(w *bufio.Writer, now time.Time)) error {
	now := l.now()
	f, err := l.open(now)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fn(w, now)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing cleanup log: %w", err)
	}
	return nil
}

func (l *CleanupLog) open(now time.Time) (*os.File, error) {
	today := now.Format(dateLayout)
	truncate := false

	if l.lastDate != today {
		info, err := os.Stat(l.path)
		if err != nil {
			truncate = true
		} else {
			truncate = info.ModTime().In(now.Location()).Format(dateLayout) != today
		}
		l.lastDate = today
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(l.path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening cleanup log: %w", err)
	}
	return f, nil
}
