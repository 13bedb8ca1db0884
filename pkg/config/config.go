package config

import "time"

// Config is the root configuration for curator. It is constructed once at
// startup, validated, and passed by value into every component; nothing
// mutates it after load.
type Config struct {
	// Elasticsearch contains connection settings for the target cluster.
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`

	// Retention contains the retention policy: disk threshold and the
	// index name prefixes in scope.
	Retention RetentionConfig `yaml:"retention"`

	// History contains settings for the local run-history store.
	History HistoryConfig `yaml:"history"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Schedule contains settings for scheduled (daemon) mode.
	Schedule ScheduleConfig `yaml:"schedule"`
}

// ElasticsearchConfig contains connection settings for the cluster.
type ElasticsearchConfig struct {
	// Host is the cluster address in "host:port" form.
	// Default: "elasticsearch:9200"
	Host string `yaml:"host"`

	// RequestTimeout bounds every individual API round-trip.
	// Default: 30s
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ConnectAttempts is the total number of connection attempts before
	// the run is aborted with a fatal connection error.
	// Default: 2
	ConnectAttempts int `yaml:"connect_attempts"`

	// ConnectRetryDelay is the fixed wait between connection attempts.
	// The cluster may be mid-restart when a scheduled run starts; a short
	// fixed delay tolerates that without hanging indefinitely.
	// Default: 10s
	ConnectRetryDelay time.Duration `yaml:"connect_retry_delay"`

	// TLS contains the mutual-TLS material for the cluster connection.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains client-side TLS settings for the cluster connection.
// When enabled, the connection uses HTTPS with server verification against
// CAFile and client-certificate authentication with CertFile/KeyFile.
type TLSConfig struct {
	// Enabled switches the connection to HTTPS with mutual TLS.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// CAFile is the path to the PEM-encoded CA certificate used to verify
	// the cluster's server certificate.
	// Default: "/home/data/ca"
	CAFile string `yaml:"ca_file"`

	// CertFile is the path to the PEM-encoded client certificate.
	// Default: "/home/data/cert"
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded client private key.
	// Default: "/home/data/key"
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version ("1.2" or "1.3").
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`
}

// RetentionConfig contains the retention policy.
type RetentionConfig struct {
	// ThresholdPercent is the share of total cluster disk capacity, in
	// percent, that matching indices may occupy. Must be in [0,100].
	// Default: 80
	ThresholdPercent int `yaml:"threshold_percent"`

	// Prefixes is the list of index name prefixes in scope. Each prefix is
	// resolved as "<prefix>*" against the cluster.
	// Default: ["infra-", "app-", "audit-"]
	Prefixes []string `yaml:"prefixes"`

	// AllowEmptyCapacity restores the legacy fail-open behavior when the
	// capacity query returns zero nodes: budget 0, every matching index
	// deleted. By default a zero-node answer aborts the run instead.
	// Default: false
	AllowEmptyCapacity bool `yaml:"allow_empty_capacity"`
}

// Supported history backends.
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendMemory = "memory"
)

// HistoryConfig contains settings for the run-history store.
type HistoryConfig struct {
	// Enabled controls whether runs are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Backend selects the store implementation: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	// Default: "data/curator.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// TelemetryConfig contains logging and metrics settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured-logging settings.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// The --debug and --verbose flags override it.
	// Default: "info"
	Level string `yaml:"level"`
}

// MetricsConfig contains Prometheus metrics settings. The metrics endpoint
// is only served in scheduled mode; one-shot runs record metrics but exit
// before anything could scrape them.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served in
	// scheduled mode.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is the address for the metrics HTTP endpoint.
	// Default: "127.0.0.1:9108"
	ListenAddress string `yaml:"listen_address"`
}

// ScheduleConfig contains settings for scheduled mode. When Cron is empty
// curator performs a single run and exits.
type ScheduleConfig struct {
	// Cron is a standard five-field cron expression ("0 3 * * *").
	Cron string `yaml:"cron"`

	// WatchConfig reloads the configuration file when it changes between
	// scheduled runs. Only meaningful when a config file is in use.
	// Default: false
	WatchConfig bool `yaml:"watch_config"`
}
