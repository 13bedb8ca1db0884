package config

import "time"

// Default values for configuration fields.
const (
	// Elasticsearch defaults
	DefaultHost              = "elasticsearch:9200"
	DefaultRequestTimeout    = 30 * time.Second
	DefaultConnectAttempts   = 2
	DefaultConnectRetryDelay = 10 * time.Second

	// TLS defaults; the certificate paths mirror the mount points used by
	// the logging deployment.
	DefaultTLSEnabled    = true
	DefaultTLSCAFile     = "/home/data/ca"
	DefaultTLSCertFile   = "/home/data/cert"
	DefaultTLSKeyFile    = "/home/data/key"
	DefaultTLSMinVersion = "1.2"

	// Retention defaults
	DefaultThresholdPercent = 80

	// History defaults
	DefaultHistoryEnabled = false
	DefaultHistoryBackend = HistoryBackendSQLite
	DefaultSQLitePath     = "data/curator.db"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9108"
)

// DefaultPrefixes returns the default index name prefixes.
func DefaultPrefixes() []string {
	return []string{"infra-", "app-", "audit-"}
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Elasticsearch: ElasticsearchConfig{
			Host:              DefaultHost,
			RequestTimeout:    DefaultRequestTimeout,
			ConnectAttempts:   DefaultConnectAttempts,
			ConnectRetryDelay: DefaultConnectRetryDelay,
			TLS: TLSConfig{
				Enabled:    DefaultTLSEnabled,
				CAFile:     DefaultTLSCAFile,
				CertFile:   DefaultTLSCertFile,
				KeyFile:    DefaultTLSKeyFile,
				MinVersion: DefaultTLSMinVersion,
			},
		},
		Retention: RetentionConfig{
			ThresholdPercent: DefaultThresholdPercent,
			Prefixes:         DefaultPrefixes(),
		},
		History: HistoryConfig{
			Enabled:    DefaultHistoryEnabled,
			Backend:    DefaultHistoryBackend,
			SQLitePath: DefaultSQLitePath,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level: DefaultLoggingLevel,
			},
			Metrics: MetricsConfig{
				Enabled:       DefaultMetricsEnabled,
				ListenAddress: DefaultMetricsListenAddress,
			},
		},
	}
}

// ApplyDefaults fills zero-valued fields with defaults. Booleans keep their
// yaml value; only fields whose zero value is never a meaningful setting
// are touched.
func ApplyDefaults(cfg *Config) {
	if cfg.Elasticsearch.Host == "" {
		cfg.Elasticsearch.Host = DefaultHost
	}
	if cfg.Elasticsearch.RequestTimeout == 0 {
		cfg.Elasticsearch.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Elasticsearch.ConnectAttempts == 0 {
		cfg.Elasticsearch.ConnectAttempts = DefaultConnectAttempts
	}
	if cfg.Elasticsearch.ConnectRetryDelay == 0 {
		cfg.Elasticsearch.ConnectRetryDelay = DefaultConnectRetryDelay
	}
	if cfg.Elasticsearch.TLS.CAFile == "" {
		cfg.Elasticsearch.TLS.CAFile = DefaultTLSCAFile
	}
	if cfg.Elasticsearch.TLS.CertFile == "" {
		cfg.Elasticsearch.TLS.CertFile = DefaultTLSCertFile
	}
	if cfg.Elasticsearch.TLS.KeyFile == "" {
		cfg.Elasticsearch.TLS.KeyFile = DefaultTLSKeyFile
	}
	if cfg.Elasticsearch.TLS.MinVersion == "" {
		cfg.Elasticsearch.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Retention.ThresholdPercent == 0 {
		// A zero threshold cannot be expressed in the yaml file; set
		// PERCENTAGE_THRESHOLD=0 explicitly to delete everything in scope.
		cfg.Retention.ThresholdPercent = DefaultThresholdPercent
	}
	if len(cfg.Retention.Prefixes) == 0 {
		cfg.Retention.Prefixes = DefaultPrefixes()
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = DefaultHistoryBackend
	}
	if cfg.History.SQLitePath == "" {
		cfg.History.SQLitePath = DefaultSQLitePath
	}
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
}
