package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rogerwwx/mem-cleaner/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "mem-cleaner",
	Short: "mem-cleaner - background worker reclaim agent",
	Long: `mem-cleaner tracks the live process set, classifies application
processes into inert, ambiguous and reclaimable, and kills reclaimable
background workers whose oom_score_adj reaches the configured threshold.

Run 'mem-cleaner run' for the foreground daemon, 'mem-cleaner scan' for a
one-off dry run, or 'mem-cleaner watch' for a live view.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(logsCmd)
}

func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		cfg.Notifications.Verbose = true
	}
	config.Global = cfg
}
