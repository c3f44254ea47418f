package process

import (
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestIsAlive(t *testing.T) {
	m := NewManager()
	assert.True(t, m.IsAlive(os.Getpid()))
	assert.False(t, m.IsAlive(0))
	assert.False(t, m.IsAlive(-1))
}

func TestTerminateInvalidPID(t *testing.T) {
	m := NewManager()
	for _, pid := range []int{0, -1, -100} {
		err := m.Terminate(pid)
		assert.ErrorIs(t, err, ErrInvalidPID)
	}
}

func TestTerminateChild(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	pid := cmd.Process.Pid

	m := NewManager()
	assert.True(t, m.IsAlive(pid))
	require.NoError(t, m.Terminate(pid))

	err := cmd.Wait()
	require.Error(t, err)
	assert.False(t, m.IsAlive(pid))

	err = m.Terminate(pid)
	assert.ErrorIs(t, err, unix.ESRCH)
}

func TestWithSignal(t *testing.T) {
	m := NewManager().WithSignal(unix.SIGTERM)
	assert.Equal(t, unix.SIGTERM, m.signal)
	assert.Equal(t, unix.SIGKILL, NewManager().signal)
}
