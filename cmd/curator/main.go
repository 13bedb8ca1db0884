// Curator keeps an Elasticsearch cluster's log indices within a disk
// budget by deleting the oldest indices once the configured share of
// total disk capacity would be exceeded.
//
// Usage:
//
//	# One curation run with defaults from the environment
//	curator run
//
//	# Preview what would be deleted, without deleting
//	curator run --dry_run
//
//	# Run with a configuration file
//	curator run --config /etc/curator/config.yaml
//
//	# Stay resident and curate on a cron schedule
//	curator run --schedule "0 3 * * *"
//
//	# Show recorded run history
//	curator history
//
//	# Show version information
//	curator version
package main

func main() {
	Execute()
}
