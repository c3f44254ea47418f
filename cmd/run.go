package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/metrics"
	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/notification"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

var (
	runDryRun      bool
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reclaim daemon in the foreground",
	Long: `Tracks processes on the update interval and, on the suppress interval,
kills reclaimable workers at or above the pressure threshold unless the
device is in deep idle.`,
	RunE: runDaemon,
}

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "report candidates without killing them")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "serve prometheus metrics on this address (overrides metrics.listen_addr)")
}

func modeFor(cfg *config.Config, dryRun bool) safety.Mode {
	if dryRun {
		return safety.ModeDryRun
	}
	return cfg.Mode()
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg := config.Global
	mode := modeFor(cfg, runDryRun)

	notifier, err := notification.NewNotifier(cfg.Notifications.LogFile, cfg.Notifications.ColorEnabled, cfg.Notifications.Verbose)
	if err != nil {
		return fmt.Errorf("creating notifier: %w", err)
	}

	auditor, err := notification.NewAuditor(cfg.Notifications.AuditFile)
	if err != nil {
		return fmt.Errorf("creating auditor: %w", err)
	}
	defer auditor.Close()

	cleanup := notification.NewCleanupLog(cfg.Notifications.CleanupLog)
	writeStartup(cleanup, notifier)

	a := newAgent(cfg, mode)
	defer a.Close()

	notifier.Info(fmt.Sprintf("mem-cleaner starting (mode=%s, update=%s, suppress=%s, threshold=%d, whitelist=%d rules)",
		mode, cfg.Monitoring.UpdateInterval, cfg.Monitoring.SuppressInterval,
		cfg.Monitoring.PressureThreshold, a.store.Load().Len()))
	auditor.LogEvent("startup", fmt.Sprintf("mode=%s", mode))

	rep := &reporter{notifier: notifier, auditor: auditor, cleanup: cleanup, dryRun: mode == safety.ModeDryRun}
	a.mon.OnKilled(rep.ReportKilled)
	a.mon.OnUpdate(func(records []monitor.Record, stats monitor.CycleStats) {
		notifier.Cycle(stats, len(records))
	})

	a.watchWhitelist(notifier, auditor, func(ok bool) {
		if ok {
			metrics.ConfigReloads.WithLabelValues("ok").Inc()
		} else {
			metrics.ConfigReloads.WithLabelValues("error").Inc()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := cfg.Metrics.ListenAddr
	if runMetricsAddr != "" {
		addr = runMetricsAddr
	}
	if addr != "" {
		go func() {
			if err := metrics.Serve(ctx, addr); err != nil {
				notifier.Error(err.Error())
			}
		}()
		notifier.Info(fmt.Sprintf("Serving metrics on %s/metrics", addr))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		notifier.Info("Shutting down...")
		auditor.LogEvent("shutdown", "signal")
		cancel()
	}()

	if err := a.mon.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
