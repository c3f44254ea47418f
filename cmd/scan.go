package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
	"github.com/rogerwwx/mem-cleaner/internal/monitor"
	"github.com/rogerwwx/mem-cleaner/internal/safety"
)

var (
	scanCycles int
	scanAll    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Classify processes once and list what would be killed",
	Long: `Runs a few update cycles one update interval apart, then a dry-run
suppression pass. Nothing is ever killed.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanCycles, "cycles", 2, "update cycles to run before the suppression pass")
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "include inert records in the listing")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := config.Global
	if scanCycles < 1 {
		return fmt.Errorf("--cycles must be at least 1, got %d", scanCycles)
	}

	a := newAgent(cfg, safety.ModeDryRun)
	defer a.Close()

	var stats monitor.CycleStats
	for i := 0; i < scanCycles; i++ {
		if i > 0 {
			time.Sleep(cfg.Monitoring.UpdateInterval)
		}
		stats = a.mon.Update()
	}

	idle := a.gate.IsSystemIdle()
	candidates := make(map[int]bool)
	if !idle {
		for _, r := range a.mon.Suppress() {
			candidates[r.PID] = true
		}
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"PID", "UID", "STATE", "SCORE", "KILL", "NAME"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	counts := make(map[monitor.State]int)
	for _, r := range a.mon.Records() {
		counts[r.State]++
		if r.State == monitor.StateInert && !scanAll {
			continue
		}
		score := "-"
		if r.Score != monitor.UnknownScore {
			score = strconv.Itoa(r.Score)
		}
		kill := ""
		if candidates[r.PID] {
			kill = "yes"
		}
		table.Append([]string{
			strconv.Itoa(r.PID),
			strconv.FormatUint(uint64(r.Owner), 10),
			r.State.String(),
			score,
			kill,
			r.Name,
		})
	}
	table.Render()

	fmt.Println()
	fmt.Printf("Live: %d | Reclaimable: %d | Ambiguous: %d | Inert: %d | Skipped: %d | Last cycle: %s\n",
		stats.Live, counts[monitor.StateReclaimable], counts[monitor.StateAmbiguous],
		counts[monitor.StateInert], stats.Skipped, stats.Duration)
	if idle {
		fmt.Println("Device is in deep idle: a suppression pass would be skipped.")
	} else {
		fmt.Printf("Would kill %d process(es) at threshold %d.\n", len(candidates), cfg.Monitoring.PressureThreshold)
	}
	return nil
}
