package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/power"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon state and effective configuration",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := config.Global

	fmt.Println("╔══════════════════════════════════════════╗")
	fmt.Println("║   mem-cleaner - background reclaim agent ║")
	fmt.Println("╚══════════════════════════════════════════╝")
	fmt.Println()

	pid, written, alive, err := readPidFile()
	switch {
	case err != nil:
		fmt.Println("Daemon:     Not running")
	case alive:
		fmt.Printf("Daemon:     Running (PID: %d, started %s)\n", pid, humanize.Time(written))
	default:
		fmt.Printf("Daemon:     Stale PID file (PID %d is gone)\n", pid)
	}
	fmt.Println()

	source := cfg.File()
	if source == "" {
		source = "(defaults)"
	}
	mode := cfg.Mode()

	fmt.Println("Configuration:")
	fmt.Printf("  Config File:        %s\n", source)
	fmt.Printf("  Mode:               %s (%s)\n", mode, mode.Description())
	fmt.Printf("  Update Interval:    %s\n", cfg.Monitoring.UpdateInterval)
	fmt.Printf("  Suppress Interval:  %s\n", cfg.Monitoring.SuppressInterval)
	fmt.Printf("  Pressure Threshold: %d\n", cfg.Monitoring.PressureThreshold)
	fmt.Printf("  Owner Floor:        %d\n", cfg.Monitoring.OwnerFloor)
	fmt.Printf("  Worker Delimiter:   %q\n", cfg.Monitoring.Delimiter)
	if cfg.Monitoring.AmbiguousCutoff > 0 {
		fmt.Printf("  Ambiguous Cutoff:   %d cycles\n", cfg.Monitoring.AmbiguousCutoff)
	} else {
		fmt.Println("  Ambiguous Cutoff:   off")
	}
	fmt.Printf("  Proc Root:          %s\n", cfg.Monitoring.ProcRoot)
	fmt.Println()

	if cfg.Power.IdleCheck {
		idle := power.NewDeviceIdle(cfg.Power.IdleCommand, cfg.Power.IdleValue, cfg.Power.IdleTimeout).IsSystemIdle()
		fmt.Printf("Idle Gate:  %s (deep idle now: %v, cached %s)\n",
			strings.Join(cfg.Power.IdleCommand, " "), idle, cfg.Power.IdleCacheTTL)
	} else {
		fmt.Println("Idle Gate:  disabled")
	}
	fmt.Println()

	wl := cfg.Whitelist()
	fmt.Printf("Whitelist: %d rules\n", wl.Len())
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"MATCH", "RULE"})
	table.SetBorder(false)
	for _, r := range wl.Rules() {
		kind := "exact"
		if r.Kind == safety.RulePrefix {
			kind = "prefix"
		}
		table.Append([]string{kind, r.String()})
	}
	table.Render()

	return nil
}
