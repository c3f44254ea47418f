package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/rogerwwx/mem-cleaner/internal/process"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the mem-cleaner daemon",
	RunE:  runStop,
}

func runStop(cmd *cobra.Command, args []string) error {
	pidFile := pidFilePath()

	pid, _, alive, err := readPidFile()
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("mem-cleaner daemon is not running (no PID file found)")
		}
		return err
	}

	if !alive {
		os.Remove(pidFile)
		return fmt.Errorf("mem-cleaner daemon (PID %d) is not running (PID file cleaned up)", pid)
	}

	if err := process.NewManager().WithSignal(unix.SIGTERM).Terminate(pid); err != nil {
		os.Remove(pidFile)
		return fmt.Errorf("%w (PID file cleaned up)", err)
	}

	os.Remove(pidFile)
	fmt.Printf("mem-cleaner daemon stopped (PID: %d)\n", pid)
	return nil
}
