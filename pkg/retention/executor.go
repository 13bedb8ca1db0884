package retention

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"logfleet/curator/pkg/escluster"
)

// Deleter deletes a single index. *escluster.Client satisfies it.
type Deleter interface {
	DeleteIndex(ctx context.Context, index string) error
}

// Executor carries out (or previews) a plan's deletions.
type Executor struct {
	deleter Deleter
	logger  *slog.Logger
	out     io.Writer
}

// NewExecutor creates an executor. out receives the dry-run listing, one
// index name per line.
func NewExecutor(deleter Deleter, logger *slog.Logger, out io.Writer) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if out == nil {
		out = io.Discard
	}
	return &Executor{
		deleter: deleter,
		logger:  logger,
		out:     out,
	}
}

// Execute processes the planned deletions in order and returns one Outcome
// per name. Failures are isolated per index: a failed delete is recorded
// and the remaining names are still attempted. An index that is already
// gone counts as a tolerated no-op, not a failure.
//
// In dry-run mode no delete is issued; every name is written to out and
// reported with Deleted=false.
func (e *Executor) Execute(ctx context.Context, names []string, dryRun bool) []Outcome {
	outcomes := make([]Outcome, 0, len(names))

	if dryRun {
		for _, name := range names {
			fmt.Fprintln(e.out, name)
			e.logger.Info("dry run: would delete index", "index", name)
			outcomes = append(outcomes, Outcome{Name: name})
		}
		return outcomes
	}

	for _, name := range names {
		err := e.deleter.DeleteIndex(ctx, name)
		switch {
		case err == nil:
			e.logger.Info("deleted index", "index", name)
			outcomes = append(outcomes, Outcome{Name: name, Deleted: true})
		case errors.Is(err, escluster.ErrIndexNotFound):
			e.logger.Warn("index already absent", "index", name)
			outcomes = append(outcomes, Outcome{Name: name, NotFound: true})
		default:
			e.logger.Error("failed to delete index", "index", name, "error", err)
			outcomes = append(outcomes, Outcome{Name: name, Err: err})
		}
	}
	return outcomes
}
