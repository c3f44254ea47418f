package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
)

var daemon bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start mem-cleaner in background daemon mode",
	RunE:  runStart,
}

func init() {
	startCmd.Flags().BoolVar(&daemon, "daemon", false, "run as background daemon")
}

func runStart(cmd *cobra.Command, args []string) error {
	pidFile := pidFilePath()

	if pid, _, alive, err := readPidFile(); err == nil && alive {
		return fmt.Errorf("mem-cleaner daemon already running (PID: %d)", pid)
	}

	if !daemon {
		fmt.Println("Starting mem-cleaner in the foreground...")
		fmt.Println("Use --daemon flag to run in background.")
		return runDaemon(cmd, args)
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("finding executable: %w", err)
	}

	daemonArgs := []string{"run"}
	if cfgFile != "" {
		daemonArgs = append(daemonArgs, "--config", cfgFile)
	}
	if verbose {
		daemonArgs = append(daemonArgs, "--verbose")
	}

	proc := exec.Command(executable, daemonArgs...)
	proc.Stdout = nil
	proc.Stderr = nil
	proc.Stdin = nil

	if err := proc.Start(); err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}

	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(proc.Process.Pid)), 0644); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}

	fmt.Printf("mem-cleaner daemon started (PID: %d)\n", proc.Process.Pid)
	fmt.Printf("PID file: %s\n", pidFile)
	fmt.Println("Use 'mem-cleaner stop' to stop the daemon.")
	fmt.Println("Use 'mem-cleaner logs --follow' to watch the cleanup log.")

	return nil
}
