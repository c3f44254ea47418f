package monitor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// DefaultProcRoot is where the kernel exposes per-process files.
const DefaultProcRoot = "/proc"

// ErrEmptyName is returned when a process has an empty argument vector,
// e.g. a kernel thread or a process that is still being set up.
var ErrEmptyName = errors.New("empty cmdline")

// Source reads process attributes. Every read may fail independently;
// a failure usually means the process exited.
type Source interface {
	ListPIDs() []int
	ReadOwner(pid int) (uint32, error)
	ReadDisplayName(pid int) (string, error)
	ReadPressureScore(pid int) (int, error)
}

// ProcSource reads attributes from a procfs mount.
type ProcSource struct {
	root string
}

// NewProcSource creates a reader for the procfs mounted at root.
func NewProcSource(root string) *ProcSource {
	if root == "" {
		root = DefaultProcRoot
	}
	return &ProcSource{root: root}
}

// ListPIDs returns the numeric entries of the proc root. An unreadable
// root yields an empty list.
func (p *ProcSource) ListPIDs() []int {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return nil
	}

	pids := make([]int, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid <= 0 {
			continue
		}
		pids = append(pids, pid)
	}
	return pids
}

// ReadOwner returns the uid owning /proc/<pid>.
func (p *ProcSource) ReadOwner(pid int) (uint32, error) {
	var st unix.Stat_t
	if err := unix.Stat(p.path(pid, ""), &st); err != nil {
		return 0, fmt.Errorf("stat pid %d: %w", pid, err)
	}
	return st.Uid, nil
}

// ReadDisplayName returns the first argument of the process's argument
// vector.
func (p *ProcSource) ReadDisplayName(pid int) (string, error) {
	data, err := os.ReadFile(p.path(pid, "cmdline"))
	if err != nil {
		return "", fmt.Errorf("reading cmdline for pid %d: %w", pid, err)
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	if len(data) == 0 {
		return "", ErrEmptyName
	}
	return string(data), nil
}

// ReadPressureScore returns the value of /proc/<pid>/oom_score_adj.
func (p *ProcSource) ReadPressureScore(pid int) (int, error) {
	data, err := os.ReadFile(p.path(pid, "oom_score_adj"))
	if err != nil {
		return 0, fmt.Errorf("reading oom_score_adj for pid %d: %w", pid, err)
	}
	score, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing oom_score_adj for pid %d: %w", pid, err)
	}
	return score, nil
}

func (p *ProcSource) path(pid int, file string) string {
	if file == "" {
		return filepath.Join(p.root, strconv.Itoa(pid))
	}
	return filepath.Join(p.root, strconv.Itoa(pid), file)
}
