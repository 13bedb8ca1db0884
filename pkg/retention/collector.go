package retention

import (
	"context"
	"log/slog"
)

// MetadataClient is the slice of the cluster API the planner needs.
// *escluster.Client satisfies it.
type MetadataClient interface {
	DiskTotals(ctx context.Context) ([]int64, error)
	ResolveAliases(ctx context.Context, pattern string) ([]string, error)
	StoreSize(ctx context.Context, index string) (int64, error)
	CreationDate(ctx context.Context, index string) (int64, error)
}

// Collect gathers an IndexRecord for every index matching one of the
// prefixes. Prefixes are resolved in configured order as "<prefix>*", so
// the record order is deterministic for a deterministic alias listing.
//
// Any metadata failure aborts the whole pass: a plan built from partial
// knowledge could delete far more than intended. The record's size is the
// index-level total store size, not a single shard sample.
func Collect(ctx context.Context, client MetadataClient, prefixes []string, logger *slog.Logger) ([]IndexRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var records []IndexRecord
	for _, prefix := range prefixes {
		names, err := client.ResolveAliases(ctx, prefix+"*")
		if err != nil {
			return nil, err
		}
		logger.Debug("resolved index prefix", "prefix", prefix, "matches", len(names))

		for _, name := range names {
			size, err := client.StoreSize(ctx, name)
			if err != nil {
				return nil, err
			}
			created, err := client.CreationDate(ctx, name)
			if err != nil {
				return nil, err
			}
			records = append(records, IndexRecord{
				Name:         name,
				SizeBytes:    size,
				CreationDate: created,
			})
		}
	}
	return records, nil
}
