// Package history records a summary of every retention run so operators
// can audit what the curator deleted and when. Backends: SQLite for
// durable single-instance storage, memory for tests and ephemeral runs.
package history
