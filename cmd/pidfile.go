package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rogerwwx/mem-cleaner/internal/process"
)

func pidFilePath() string {
	return filepath.Join(os.TempDir(), "mem-cleaner.pid")
}

// readPidFile returns the recorded pid, when the pid file was written and
// whether that process is still alive.
func readPidFile() (pid int, written time.Time, alive bool, err error) {
	path := pidFilePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, time.Time{}, false, err
	}
	pid, err = strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, time.Time{}, false, fmt.Errorf("invalid PID file: %w", err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		written = info.ModTime()
	}
	return pid, written, process.NewManager().IsAlive(pid), nil
}
