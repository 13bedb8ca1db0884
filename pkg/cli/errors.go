package cli

import (
	"errors"
	"fmt"
)

// Process exit codes. Each failure class gets its own code so that
// schedulers and CI wrappers can distinguish them without parsing logs.
const (
	// ExitOK is returned after a normal run, including a live run where
	// individual deletions failed (per-item failures do not fail the run).
	ExitOK = 0
	// ExitFailure is returned for unclassified runtime errors.
	ExitFailure = 1
	// ExitConfigError is returned when configuration is missing or invalid,
	// before any cluster contact.
	ExitConfigError = 2
	// ExitConnectionError is returned when the cluster stays unreachable
	// after the bounded connect retries.
	ExitConnectionError = 3
	// ExitDryRun is returned after a dry run. Dry runs always terminate
	// with this code so callers cannot mistake a printed plan for an
	// applied one.
	ExitDryRun = 4
)

// ErrDryRunComplete signals that a dry run finished after emitting its plan.
// It is not an application error; it exists so the command layer can map
// dry-run completion to ExitDryRun.
var ErrDryRunComplete = errors.New("dry run complete, no deletions performed")

// ExitCoder is implemented by errors that carry their own exit code.
type ExitCoder interface {
	ExitCode() int
}

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// ExitCode returns the exit code for configuration failures.
func (e *ConfigError) ExitCode() int { return ExitConfigError }

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrDryRunComplete) {
		return ExitDryRun
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitFailure
}
