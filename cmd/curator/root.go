package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"logfleet/curator/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Elasticsearch index retention curator",
	Long: `Curator keeps an Elasticsearch cluster's log indices within a disk budget.

Each run computes a byte budget from the cluster's total disk capacity and a
percentage threshold, ranks the matching indices newest first, and deletes the
indices that no longer fit. The newest data survives; the oldest goes first.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code mapped from the
// returned error: 0 success, 1 runtime failure, 2 configuration error,
// 3 fatal connection error, 4 completed dry run.
func Execute() {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, cli.ErrDryRunComplete) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(cli.ExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose (debug) logging")
}
