// Package cli provides shared command-line infrastructure: typed command
// errors, process exit codes, output formatters, and signal handling.
package cli
