// Package escluster talks to the Elasticsearch cluster: a mutually
// authenticated TLS connection with bounded-retry establishment, and the
// handful of REST operations the retention planner and executor need.
package escluster
