// Package config defines the curator configuration: the target cluster,
// the retention policy, run-history storage, telemetry, and scheduling.
//
// Configuration is assembled from an optional YAML file, defaults, and
// environment variables, in that order of increasing precedence, then
// validated as a whole. The resulting Config is immutable; components
// receive it (or a section of it) by parameter, never through package
// globals.
//
// The legacy environment variables ELASTICSEARCH_HOST,
// PERCENTAGE_THRESHOLD, and INDEX_NAME_PREFIXES are honored unchanged so
// existing deployments keep working without manifest edits.
package config
