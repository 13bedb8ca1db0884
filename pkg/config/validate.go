package config

import (
	"fmt"
	"strings"

	"logfleet/curator/pkg/cli"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "retention.threshold_percent").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// ExitCode maps validation failures to the configuration exit code.
func (e ValidationError) ExitCode() int { return cli.ExitConfigError }

// Validate validates the entire configuration and returns a ValidationError
// if any rules fail. All errors are collected and returned together so a
// broken deployment is fixed in one iteration, not one field at a time.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateElasticsearch(&cfg.Elasticsearch)...)
	errs = append(errs, validateRetention(&cfg.Retention)...)
	errs = append(errs, validateHistory(&cfg.History)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateElasticsearch(cfg *ElasticsearchConfig) []FieldError {
	var errs []FieldError

	if cfg.Host == "" {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.host",
			Message: "host must not be empty (ELASTICSEARCH_HOST='')",
		})
	}
	if cfg.ConnectAttempts < 1 {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.connect_attempts",
			Message: "must be at least 1",
		})
	}
	if cfg.ConnectRetryDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.connect_retry_delay",
			Message: "must not be negative",
		})
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CAFile == "" {
			errs = append(errs, FieldError{
				Field:   "elasticsearch.tls.ca_file",
				Message: "required when TLS is enabled",
			})
		}
		if cfg.TLS.CertFile == "" {
			errs = append(errs, FieldError{
				Field:   "elasticsearch.tls.cert_file",
				Message: "required when TLS is enabled",
			})
		}
		if cfg.TLS.KeyFile == "" {
			errs = append(errs, FieldError{
				Field:   "elasticsearch.tls.key_file",
				Message: "required when TLS is enabled",
			})
		}
		switch cfg.TLS.MinVersion {
		case "", "1.2", "1.3":
		default:
			errs = append(errs, FieldError{
				Field:   "elasticsearch.tls.min_version",
				Message: fmt.Sprintf("unsupported TLS version %q (use \"1.2\" or \"1.3\")", cfg.TLS.MinVersion),
			})
		}
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.ThresholdPercent < 0 || cfg.ThresholdPercent > 100 {
		errs = append(errs, FieldError{
			Field:   "retention.threshold_percent",
			Message: fmt.Sprintf("must be between 0 and 100, got %d", cfg.ThresholdPercent),
		})
	}
	if len(cfg.Prefixes) == 0 {
		errs = append(errs, FieldError{
			Field:   "retention.prefixes",
			Message: "at least one index name prefix is required (INDEX_NAME_PREFIXES='')",
		})
	}
	for i, p := range cfg.Prefixes {
		if p == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("retention.prefixes[%d]", i),
				Message: "prefix must not be empty",
			})
		}
	}

	return errs
}

func validateHistory(cfg *HistoryConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return nil
	}
	switch cfg.Backend {
	case HistoryBackendSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, FieldError{
				Field:   "history.sqlite_path",
				Message: "required for the sqlite backend",
			})
		}
	case HistoryBackendMemory:
	default:
		errs = append(errs, FieldError{
			Field:   "history.backend",
			Message: fmt.Sprintf("unknown backend %q (use \"sqlite\" or \"memory\")", cfg.Backend),
		})
	}

	return errs
}
