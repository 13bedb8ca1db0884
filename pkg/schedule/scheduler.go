// Package schedule runs the curator on a cron cadence for long-lived
// deployments that prefer one resident process over an external cron job.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// RunFunc is one curation pass. Errors are logged, not fatal: the next
// scheduled run still happens.
type RunFunc func(ctx context.Context) error

// Scheduler triggers a RunFunc on a cron expression.
type Scheduler struct {
	spec    string
	run     RunFunc
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a scheduler for the given standard cron
// expression (five fields, e.g. "0 3 * * *" for daily at 3 AM).
func NewScheduler(spec string, run RunFunc, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		spec:   spec,
		run:    run,
		cron:   cron.New(),
		logger: logger.With("component", "scheduler"),
	}
}

// Start validates the cron expression and begins scheduling. The
// scheduler stops itself when ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := cron.ParseStandard(s.spec); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.spec, err)
	}

	_, err := s.cron.AddFunc(s.spec, func() {
		s.runOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule curation: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("scheduler started", "schedule", s.spec)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.logger.Info("starting scheduled curation run")
	if err := s.run(ctx); err != nil {
		s.logger.Error("scheduled curation run failed", "error", err)
		return
	}
	s.logger.Info("scheduled curation run completed")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		done := s.cron.Stop()
		<-done.Done()
		s.running = false
		s.logger.Info("scheduler stopped")
	}
}

// IsRunning reports whether the scheduler has been started and not yet
// stopped.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
