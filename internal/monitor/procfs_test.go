package monitor

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProc(t *testing.T, root, pid, cmdline, score string) {
	t.Helper()
	dir := filepath.Join(root, pid)
	require.NoError(t, os.MkdirAll(dir, 0755))
	if cmdline != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cmdline"), []byte(cmdline), 0644))
	}
	if score != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "oom_score_adj"), []byte(score), 0644))
	}
}

func TestProcSourceListPIDs(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "1", "init\x00", "-1000\n")
	writeProc(t, root, "4242", "com.app:push\x00--flag\x00", "900\n")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "self"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sys"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "77"), nil, 0644))

	pids := NewProcSource(root).ListPIDs()
	sort.Ints(pids)
	assert.Equal(t, []int{1, 4242}, pids)
}

func TestProcSourceMissingRoot(t *testing.T) {
	src := NewProcSource(filepath.Join(t.TempDir(), "missing"))
	assert.Empty(t, src.ListPIDs())
}

func TestProcSourceDefaultRoot(t *testing.T) {
	assert.Equal(t, DefaultProcRoot, NewProcSource("").root)
}

func TestProcSourceReads(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "4242", "com.app:push\x00--flag\x00", " 900\n")
	src := NewProcSource(root)

	owner, err := src.ReadOwner(4242)
	require.NoError(t, err)
	assert.Equal(t, uint32(os.Getuid()), owner)

	name, err := src.ReadDisplayName(4242)
	require.NoError(t, err)
	assert.Equal(t, "com.app:push", name)

	score, err := src.ReadPressureScore(4242)
	require.NoError(t, err)
	assert.Equal(t, 900, score)
}

func TestProcSourceReadErrors(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "5", "", "")
	require.NoError(t, os.WriteFile(filepath.Join(root, "5", "cmdline"), nil, 0644))
	writeProc(t, root, "6", "", "garbage")
	src := NewProcSource(root)

	_, err := src.ReadOwner(999)
	assert.Error(t, err)

	_, err = src.ReadDisplayName(5)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = src.ReadDisplayName(999)
	assert.Error(t, err)

	_, err = src.ReadPressureScore(5)
	assert.Error(t, err)

	_, err = src.ReadPressureScore(6)
	assert.Error(t, err)
}

func TestProcSourceCmdlineWithoutNUL(t *testing.T) {
	root := t.TempDir()
	writeProc(t, root, "8", "com.app:svc", "0")

	name, err := NewProcSource(root).ReadDisplayName(8)
	require.NoError(t, err)
	assert.Equal(t, "com.app:svc", name)
}
