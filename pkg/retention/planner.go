package retention

import (
	"context"
	"errors"
	"log/slog"

	"logfleet/curator/pkg/config"
)

// ErrNoCapacity reports that the capacity query returned zero nodes. With
// no capacity figure the budget would be zero and every matching index
// would be deleted, so the planner refuses to continue unless the
// operator opted into that with retention.allow_empty_capacity.
var ErrNoCapacity = errors.New("cluster reported no disk capacity; refusing to plan deletions")

// Planner builds a retention plan: it derives the byte budget from the
// cluster's disk capacity and the configured threshold, collects all
// matching indices, and selects the ones to delete.
type Planner struct {
	client MetadataClient
	cfg    config.RetentionConfig
	logger *slog.Logger
}

// NewPlanner creates a planner.
func NewPlanner(client MetadataClient, cfg config.RetentionConfig, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// BuildPlan performs one planning pass. Metadata failures abort the pass;
// no partial plan is ever returned.
func (p *Planner) BuildPlan(ctx context.Context) (*Plan, error) {
	totals, err := p.client.DiskTotals(ctx)
	if err != nil {
		return nil, err
	}
	if len(totals) == 0 && !p.cfg.AllowEmptyCapacity {
		return nil, ErrNoCapacity
	}

	budget := ComputeBudget(totals, p.cfg.ThresholdPercent)
	p.logger.Info("computed disk budget",
		"nodes", len(totals),
		"threshold_percent", p.cfg.ThresholdPercent,
		"budget_bytes", budget,
	)

	records, err := Collect(ctx, p.client, p.cfg.Prefixes, p.logger)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		BudgetBytes: budget,
		Candidates:  len(records),
		sizes:       make(map[string]int64, len(records)),
	}
	for _, rec := range records {
		plan.CandidateBytes += rec.SizeBytes
		plan.sizes[rec.Name] = rec.SizeBytes
	}

	plan.Delete = Select(records, budget)
	for _, name := range plan.Delete {
		p.logger.Info("index selected for deletion",
			"index", name,
			"size_bytes", plan.sizes[name],
			"budget_bytes", budget,
		)
	}
	p.logger.Info("retention plan ready",
		"candidates", plan.Candidates,
		"candidate_bytes", plan.CandidateBytes,
		"planned_deletions", len(plan.Delete),
	)

	return plan, nil
}
