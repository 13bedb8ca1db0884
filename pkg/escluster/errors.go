package escluster

import (
	"errors"
	"fmt"

	"logfleet/curator/pkg/cli"
)

// ErrIndexNotFound reports that a delete targeted an index that no longer
// exists. A prior run (or another actor) may have removed it already; the
// executor treats this as a tolerated per-item outcome, not a failure.
var ErrIndexNotFound = errors.New("index not found")

// ConnectionError is a transient failure to reach the cluster. Connect
// retries these a bounded number of times.
type ConnectionError struct {
	Host string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("cluster %s unreachable: %v", e.Host, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// FatalConnectionError reports that the cluster stayed unreachable after
// all connection attempts. It terminates the run.
type FatalConnectionError struct {
	Host     string
	Attempts int
	Err      error
}

func (e *FatalConnectionError) Error() string {
	return fmt.Sprintf("cluster %s unreachable after %d attempts: %v", e.Host, e.Attempts, e.Err)
}

func (e *FatalConnectionError) Unwrap() error { return e.Err }

// ExitCode maps exhausted connections to the connection exit code.
func (e *FatalConnectionError) ExitCode() int { return cli.ExitConnectionError }

// QueryError is a failure retrieving index metadata or cluster stats. A
// single QueryError aborts the plan-building pass; deleting on partial
// knowledge is worse than deleting nothing.
type QueryError struct {
	Op    string
	Index string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Index == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed for index %q: %v", e.Op, e.Index, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
