package notification

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"

	"github.com/rogerwwx/mem-cleaner/internal/monitor"
)

// Notifier handles console output and the optional JSON log file.
type Notifier struct {
	logger *logrus.Logger
}

// NewNotifier creates a notifier writing to stderr and, when logFilePath is
// set, to that file as JSON lines.
func NewNotifier(logFilePath string, colorEnabled, verbose bool) (*Notifier, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:     colorEnabled,
		DisableColors:   !colorEnabled,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	if logFilePath != "" {
		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		f.Close()
		logger.AddHook(lfshook.NewHook(logFilePath, &logrus.JSONFormatter{}))
	}

	return &Notifier{logger: logger}, nil
}

// SetOutput redirects console output.
func (n *Notifier) SetOutput(w io.Writer) {
	n.logger.SetOutput(w)
}

// Logger exposes the underlying logger for structured fields.
func (n *Notifier) Logger() *logrus.Logger {
	return n.logger
}

// Info logs an informational message.
func (n *Notifier) Info(msg string) {
	n.logger.Info(msg)
}

// Warn logs a warning message.
func (n *Notifier) Warn(msg string) {
	n.logger.Warn(msg)
}

// Error logs an error message.
func (n *Notifier) Error(msg string) {
	n.logger.Error(msg)
}

// Debug logs a debug message (only if verbose).
func (n *Notifier) Debug(msg string) {
	n.logger.Debug(msg)
}

// Killed logs one line per terminated process.
func (n *Notifier) Killed(records []monitor.Record, dryRun bool) {
	msg := "Terminated"
	if dryRun {
		msg = "Would terminate"
	}
	for _, r := range records {
		n.logger.WithFields(logrus.Fields{
			"pid":   r.PID,
			"uid":   r.Owner,
			"score": r.Score,
		}).Info(msg + " " + r.Name)
	}
}

// Cycle logs a debug summary of an update cycle.
func (n *Notifier) Cycle(stats monitor.CycleStats, tracked int) {
	n.logger.WithFields(logrus.Fields{
		"live":     stats.Live,
		"tracked":  tracked,
		"created":  stats.Created,
		"skipped":  stats.Skipped,
		"evicted":  stats.Evicted,
		"duration": stats.Duration,
	}).Debug("update cycle")
}

// FormatTimestamp formats a time for display.
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
