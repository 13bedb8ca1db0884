package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"logfleet/curator/pkg/cli"
	"logfleet/curator/pkg/config"
	"logfleet/curator/pkg/escluster"
	"logfleet/curator/pkg/history"
	"logfleet/curator/pkg/retention"
	"logfleet/curator/pkg/schedule"
	"logfleet/curator/pkg/telemetry/logging"
	"logfleet/curator/pkg/telemetry/metrics"
)

var runFlags struct {
	dryRun   bool
	schedule string
	output   string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one curation pass (or stay resident with --schedule)",
	Long: `Run a curation pass against the configured Elasticsearch cluster.

Each pass computes the byte budget from the cluster's total disk capacity and
the percentage threshold, collects size and age for every index matching the
configured prefixes, and deletes the oldest indices that exceed the budget.

Examples:
  # One pass, configuration from the environment
  curator run

  # Preview the deletions without performing them (exit code 4)
  curator run --dry_run

  # Stay resident and curate daily at 3 AM, serving /metrics
  curator run --schedule "0 3 * * *"`,
	RunE: runCuration,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry_run", false, "list the indices that would be deleted, delete nothing")
	runCmd.Flags().StringVar(&runFlags.schedule, "schedule", "", "cron expression for resident mode (overrides schedule.cron)")
	runCmd.Flags().StringVarP(&runFlags.output, "output", "o", "text", "dry-run plan format (text, json)")
}

// curator bundles everything a curation pass needs. In scheduled mode the
// configuration may be swapped by the file watcher between passes, so all
// reads go through snapshot().
type curator struct {
	mu        sync.Mutex
	cfg       *config.Config
	logger    *slog.Logger
	collector *metrics.Collector
	store     history.Store
	dryRun    bool
}

func (c *curator) snapshot() (*config.Config, *slog.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg, c.logger
}

func (c *curator) reload() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.logger = newLogger(cfg)
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(logging.Config{
		Level: logging.LevelFromFlags(debug, verbose, cfg.Telemetry.Logging.Level),
	})
}

func runCuration(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		return cli.NewConfigError("", err.Error())
	}
	if runFlags.schedule != "" {
		cfg.Schedule.Cron = runFlags.schedule
	}

	logger := newLogger(cfg)
	collector := metrics.NewCollector(prometheus.NewRegistry())

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return cli.NewConfigError("history", err.Error())
	}
	defer store.Close()

	c := &curator{
		cfg:       cfg,
		logger:    logger,
		collector: collector,
		store:     store,
		dryRun:    runFlags.dryRun,
	}

	ctx := cli.SetupSignalHandler()

	if cfg.Schedule.Cron == "" {
		return c.runOnce(ctx)
	}
	return c.runScheduled(ctx)
}

// runOnce performs a single curation pass. Connection and planning
// failures abort the pass; per-index deletion failures are logged and
// tolerated. A completed dry run returns ErrDryRunComplete.
func (c *curator) runOnce(ctx context.Context) error {
	cfg, logger := c.snapshot()
	started := time.Now()

	client, err := escluster.Connect(ctx, cfg.Elasticsearch, logger)
	if err != nil {
		c.collector.RecordRun(metrics.OutcomeError, time.Since(started))
		return err
	}

	planner := retention.NewPlanner(client, cfg.Retention, logger)
	plan, err := planner.BuildPlan(ctx)
	if err != nil {
		c.collector.RecordRun(metrics.OutcomeError, time.Since(started))
		return err
	}
	c.collector.RecordPlan(plan.BudgetBytes, plan.CandidateBytes, plan.Candidates, len(plan.Delete))

	// The dry-run listing goes to stdout; in JSON mode the full plan is
	// emitted afterwards instead of one name per line.
	planOut := io.Writer(os.Stdout)
	jsonPlan := c.dryRun && cli.OutputFormat(runFlags.output) == cli.FormatJSON
	if jsonPlan {
		planOut = io.Discard
	}

	executor := retention.NewExecutor(client, logger, planOut)
	outcomes := executor.Execute(ctx, plan.Delete, c.dryRun)

	if jsonPlan {
		if err := cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, plan); err != nil {
			return err
		}
	}

	var deleted, failed int
	for _, o := range outcomes {
		switch {
		case o.Failed():
			failed++
			c.collector.RecordDeleteFailure()
		case o.Deleted:
			deleted++
			c.collector.RecordDeletion(plan.SizeOf(o.Name))
		case o.NotFound:
			// Already gone; nothing was freed by this run.
			deleted++
		}
	}

	outcome := metrics.OutcomeSuccess
	switch {
	case c.dryRun:
		outcome = metrics.OutcomeDryRun
	case failed > 0:
		outcome = metrics.OutcomeError
	}
	c.collector.RecordRun(outcome, time.Since(started))

	rec := history.RunRecord{
		ID:             uuid.New(),
		StartedAt:      started.UTC(),
		FinishedAt:     time.Now().UTC(),
		DryRun:         c.dryRun,
		BudgetBytes:    plan.BudgetBytes,
		CandidateBytes: plan.CandidateBytes,
		Planned:        len(plan.Delete),
		Deleted:        deleted,
		Failed:         failed,
	}
	if err := c.store.SaveRun(ctx, rec); err != nil {
		logger.Error("failed to record run history", "error", err)
	}

	logger.Info("curation run finished",
		"dry_run", c.dryRun,
		"planned", len(plan.Delete),
		"deleted", deleted,
		"failed", failed,
		"duration", time.Since(started).Round(time.Millisecond).String(),
	)

	// Per-item failures are tolerated: the indices that did delete still
	// freed space, and the next run retries the rest.
	if failed > 0 {
		logger.Warn("run completed with failed deletions", "failed", failed)
	}
	if c.dryRun {
		return cli.ErrDryRunComplete
	}
	return nil
}

// runScheduled keeps the process resident: curation passes on the cron
// cadence, the Prometheus endpoint served, and the configuration file
// reloaded when it changes. Per-pass failures are logged by the
// scheduler and do not stop the process.
func (c *curator) runScheduled(ctx context.Context) error {
	cfg, logger := c.snapshot()

	sched := schedule.NewScheduler(cfg.Schedule.Cron, func(ctx context.Context) error {
		err := c.runOnce(ctx)
		if errors.Is(err, cli.ErrDryRunComplete) {
			return nil
		}
		return err
	}, logger)
	if err := sched.Start(ctx); err != nil {
		return cli.NewConfigError("schedule.cron", err.Error())
	}
	defer sched.Stop()

	var metricsSrv *http.Server
	if cfg.Telemetry.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", c.collector.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics endpoint listening", "address", metricsSrv.Addr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics endpoint failed", "error", err)
			}
		}()
	}

	if cfg.Schedule.WatchConfig && cfgFile != "" {
		watcher := config.NewWatcher(cfgFile, logger)
		go func() {
			err := watcher.Watch(ctx, func() error {
				if err := c.reload(); err != nil {
					return err
				}
				logger.Info("configuration reloaded", "path", cfgFile)
				return nil
			})
			if err != nil && ctx.Err() == nil {
				logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	logger.Info("curator resident", "schedule", cfg.Schedule.Cron)
	<-ctx.Done()
	logger.Info("shutting down")

	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics endpoint shutdown", "error", err)
		}
	}
	return nil
}
