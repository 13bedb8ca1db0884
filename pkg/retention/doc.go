// Package retention plans and executes index deletions that keep the
// cluster's matching indices within a disk budget.
//
// A run is a pipeline: compute the budget from per-node disk capacity and
// the configured threshold, collect size and age for every index matching
// the configured prefixes, select the indices to delete newest-first, and
// finally delete them one by one (or just list them in a dry run).
package retention
