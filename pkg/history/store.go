package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"logfleet/curator/pkg/config"
)

// RunRecord is the persisted summary of one retention run.
type RunRecord struct {
	// ID uniquely identifies the run.
	ID uuid.UUID `json:"id"`

	// StartedAt and FinishedAt bound the run wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// DryRun is true when no deletes were issued.
	DryRun bool `json:"dry_run"`

	// BudgetBytes is the byte budget the run planned against.
	BudgetBytes int64 `json:"budget_bytes"`

	// CandidateBytes is the summed store size of all considered indices.
	CandidateBytes int64 `json:"candidate_bytes"`

	// Planned, Deleted and Failed count planned deletions, successful
	// deletions (including tolerated not-found) and failures.
	Planned int `json:"planned"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}

// Store persists run records. Implementations must be safe for
// concurrent use.
type Store interface {
	// SaveRun persists one run record.
	SaveRun(ctx context.Context, rec RunRecord) error

	// ListRuns returns the most recent runs, newest first, capped at
	// limit. A limit of zero or less returns all runs.
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)

	// Close releases resources held by the store.
	Close() error
}

// NewStore builds the store named by the configuration. A disabled
// history section yields a no-op store so callers never branch.
func NewStore(cfg config.HistoryConfig) (Store, error) {
	if !cfg.Enabled {
		return noopStore{}, nil
	}
	switch cfg.Backend {
	case config.HistoryBackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.HistoryBackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.Backend)
	}
}

type noopStore struct{}

func (noopStore) SaveRun(context.Context, RunRecord) error { return nil }

func (noopStore) ListRuns(context.Context, int) ([]RunRecord, error) { return nil, nil }

func (noopStore) Close() error { return nil }
