package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
)

var followLogs bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the cleanup log",
	RunE:  runLogs,
}

func init() {
	logsCmd.Flags().BoolVar(&followLogs, "follow", false, "follow log output (like tail -f)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Global
	logFile := cfg.Notifications.CleanupLog
	if logFile == "" {
		return errors.New("notifications.cleanup_log is not configured")
	}

	f, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("opening log file %s: %w", logFile, err)
	}
	defer f.Close()

	if !followLogs {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			fmt.Println(scanner.Text())
		}
		return scanner.Err()
	}

	if _, err := io.Copy(os.Stdout, f); err != nil {
		return err
	}

	fmt.Println("--- Following log output (Ctrl+C to stop) ---")

	buf := make([]byte, 4096)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			os.Stdout.Write(buf[:n])
		}
		if err != nil {
			time.Sleep(500 * time.Millisecond)
		}
	}
}
