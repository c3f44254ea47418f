package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/notification"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
	"github.com/rogerwwx/mem-cleaner/internal/ui"
)

var watchDryRun bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the daemon with a live terminal view",
	Long:  `Runs the same loop as 'run' and shows the process table, state counts and recent kills.`,
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "report candidates without killing them")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := config.Global
	mode := modeFor(cfg, watchDryRun)

	notifier, err := notification.NewNotifier(cfg.Notifications.LogFile, false, cfg.Notifications.Verbose)
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}
	// The terminal belongs to the UI; only the log file hook keeps writing.
	notifier.SetOutput(io.Discard)

	auditor, err := notification.NewAuditor(cfg.Notifications.AuditFile)
	if err != nil {
		return fmt.Errorf("creating auditor: %w", err)
	}
	defer auditor.Close()

	cleanup := notification.NewCleanupLog(cfg.Notifications.CleanupLog)
	writeStartup(cleanup, notifier)

	a := newAgent(cfg, mode)
	defer a.Close()

	app := ui.NewApp(a.mon, mode, cfg.Monitoring.PressureThreshold)
	rep := &reporter{notifier: notifier, auditor: auditor, cleanup: cleanup, dryRun: mode == safety.ModeDryRun}
	a.mon.OnKilled(func(killed []monitor.Record) {
		rep.ReportKilled(killed)
		app.HandleKilled(killed)
	})
	a.watchWhitelist(notifier, auditor, func(bool) {})

	auditor.LogEvent("startup", fmt.Sprintf("mode=%s ui=watch", mode))
	defer auditor.LogEvent("shutdown", "ui quit")

	return app.Run()
}
