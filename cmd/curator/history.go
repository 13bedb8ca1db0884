package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"logfleet/curator/pkg/cli"
	"logfleet/curator/pkg/config"
	"logfleet/curator/pkg/history"
)

var historyFlags struct {
	limit  int
	output string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded curation runs",
	Long: `Show the run history recorded by previous curation passes.

History recording must be enabled in the configuration (history.enabled) and
is read from the same backend the run command writes to.`,
	RunE: showHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum runs to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyFlags.output, "output", "o", "text", "output format (text, json)")
}

func showHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		return cli.NewConfigError("", err.Error())
	}
	if !cfg.History.Enabled {
		return cli.NewConfigError("history.enabled", "history recording is disabled")
	}

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return cli.NewConfigError("history", err.Error())
	}
	defer store.Close()

	runs, err := store.ListRuns(cmd.Context(), historyFlags.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if cli.OutputFormat(historyFlags.output) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(out, runs)
	}

	lines := make([]string, 0, len(runs))
	for _, r := range runs {
		mode := "live"
		if r.DryRun {
			mode = "dry-run"
		}
		lines = append(lines, fmt.Sprintf("%s  %-7s  budget=%d  candidates=%d  planned=%d  deleted=%d  failed=%d",
			r.StartedAt.Format("2006-01-02 15:04:05"), mode,
			r.BudgetBytes, r.CandidateBytes, r.Planned, r.Deleted, r.Failed))
	}
	return cli.NewFormatter(cli.FormatText).FormatTo(out, lines)
}
