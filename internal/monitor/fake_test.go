package monitor

import (
	"errors"
	"strings"
)

var errGone = errors.New("no such process")

type fakeProc struct {
	owner    uint32
	ownerErr bool
	name     string
	nameErr  bool
	score    int
	scoreErr bool
}

// fakeSource is an in-memory process list that counts every read.
type fakeSource struct {
	procs      map[int]*fakeProc
	ownerReads map[int]int
	nameReads  map[int]int
	scoreReads map[int]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		procs:      make(map[int]*fakeProc),
		ownerReads: make(map[int]int),
		nameReads:  make(map[int]int),
		scoreReads: make(map[int]int),
	}
}

func (f *fakeSource) add(pid int, p *fakeProc) {
	f.procs[pid] = p
}

func (f *fakeSource) ListPIDs() []int {
	pids := make([]int, 0, len(f.procs))
	for pid := range f.procs {
		pids = append(pids, pid)
	}
	return pids
}

func (f *fakeSource) ReadOwner(pid int) (uint32, error) {
	f.ownerReads[pid]++
	p, ok := f.procs[pid]
	if !ok || p.ownerErr {
		return 0, errGone
	}
	return p.owner, nil
}

func (f *fakeSource) ReadDisplayName(pid int) (string, error) {
	f.nameReads[pid]++
	p, ok := f.procs[pid]
	if !ok || p.nameErr {
		return "", errGone
	}
	if p.name == "" {
		return "", ErrEmptyName
	}
	return p.name, nil
}

func (f *fakeSource) ReadPressureScore(pid int) (int, error) {
	f.scoreReads[pid]++
	p, ok := f.procs[pid]
	if !ok || p.scoreErr {
		return 0, errGone
	}
	return p.score, nil
}

// fakeWhitelist matches exact names and names starting with an entry
// ending in "*".
type fakeWhitelist []string

func (w fakeWhitelist) Match(name string) bool {
	for _, entry := range w {
		if prefix, ok := strings.CutSuffix(entry, "*"); ok {
			if strings.HasPrefix(name, prefix) {
				return true
			}
			continue
		}
		if entry == name {
			return true
		}
	}
	return false
}

type fakeGate struct {
	idle  bool
	calls int
}

func (g *fakeGate) IsSystemIdle() bool {
	g.calls++
	return g.idle
}

// fakeTerminator kills processes in a fakeSource.
type fakeTerminator struct {
	source   *fakeSource
	attempts []int
	fail     map[int]bool
}

func newFakeTerminator(source *fakeSource) *fakeTerminator {
	return &fakeTerminator{source: source, fail: make(map[int]bool)}
}

func (t *fakeTerminator) IsAlive(pid int) bool {
	_, ok := t.source.procs[pid]
	return ok
}

func (t *fakeTerminator) Terminate(pid int) error {
	t.attempts = append(t.attempts, pid)
	if t.fail[pid] {
		return errors.New("operation not permitted")
	}
	if _, ok := t.source.procs[pid]; !ok {
		return errGone
	}
	delete(t.source.procs, pid)
	return nil
}

var testPolicy = Policy{OwnerFloor: 10000, Delimiter: ":"}

func newTestEngine(source *fakeSource, policy Policy) *Engine {
	return NewEngine(source, NewClassifier(source, policy))
}
