package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load builds the configuration. When path is empty the defaults are used
// as the base, which keeps the tool usable as a pure environment-driven
// cron job. The sequence is:
//
//  1. Load YAML from path (or start from defaults)
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	var cfg *Config

	// The file is decoded over a fully defaulted Config so omitted fields,
	// booleans included, keep their defaults; only keys present in the file
	// override them.
	cfg = Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
		ApplyDefaults(cfg)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. The three
// legacy names (ELASTICSEARCH_HOST, PERCENTAGE_THRESHOLD,
// INDEX_NAME_PREFIXES) are kept verbatim for compatibility with existing
// deployments; everything else uses the CURATOR_ prefix. Environment
// variables always take precedence over file-based configuration.
func applyEnvOverrides(cfg *Config) error {
	if val, ok := os.LookupEnv("ELASTICSEARCH_HOST"); ok {
		cfg.Elasticsearch.Host = val
	}
	if val, ok := os.LookupEnv("PERCENTAGE_THRESHOLD"); ok {
		pct, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid PERCENTAGE_THRESHOLD %q: %w", val, err)
		}
		cfg.Retention.ThresholdPercent = pct
	}
	if val, ok := os.LookupEnv("INDEX_NAME_PREFIXES"); ok {
		cfg.Retention.Prefixes = splitPrefixes(val)
	}

	if val := os.Getenv("CURATOR_ES_REQUEST_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Elasticsearch.RequestTimeout = d
		}
	}
	if val := os.Getenv("CURATOR_ES_CONNECT_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Elasticsearch.ConnectAttempts = i
		}
	}
	if val := os.Getenv("CURATOR_ES_CONNECT_RETRY_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Elasticsearch.ConnectRetryDelay = d
		}
	}
	if val := os.Getenv("CURATOR_TLS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Elasticsearch.TLS.Enabled = b
		}
	}
	if val := os.Getenv("CURATOR_TLS_CA_FILE"); val != "" {
		cfg.Elasticsearch.TLS.CAFile = val
	}
	if val := os.Getenv("CURATOR_TLS_CERT_FILE"); val != "" {
		cfg.Elasticsearch.TLS.CertFile = val
	}
	if val := os.Getenv("CURATOR_TLS_KEY_FILE"); val != "" {
		cfg.Elasticsearch.TLS.KeyFile = val
	}
	if val := os.Getenv("CURATOR_ALLOW_EMPTY_CAPACITY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Retention.AllowEmptyCapacity = b
		}
	}
	if val := os.Getenv("CURATOR_HISTORY_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.History.Enabled = b
		}
	}
	if val := os.Getenv("CURATOR_HISTORY_BACKEND"); val != "" {
		cfg.History.Backend = val
	}
	if val := os.Getenv("CURATOR_HISTORY_SQLITE_PATH"); val != "" {
		cfg.History.SQLitePath = val
	}
	if val := os.Getenv("CURATOR_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CURATOR_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CURATOR_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
	if val := os.Getenv("CURATOR_SCHEDULE_CRON"); val != "" {
		cfg.Schedule.Cron = val
	}

	return nil
}

// splitPrefixes splits a comma-separated prefix list, trimming whitespace
// and dropping empty elements.
func splitPrefixes(s string) []string {
	parts := strings.Split(s, ",")
	prefixes := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			prefixes = append(prefixes, p)
		}
	}
	return prefixes
}
