package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

// clearCuratorEnv unsets every variable the loader reads so tests are
// isolated from the surrounding environment.
func clearCuratorEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"ELASTICSEARCH_HOST", "PERCENTAGE_THRESHOLD", "INDEX_NAME_PREFIXES",
		"CURATOR_ES_REQUEST_TIMEOUT", "CURATOR_ES_CONNECT_ATTEMPTS",
		"CURATOR_ES_CONNECT_RETRY_DELAY", "CURATOR_TLS_ENABLED",
		"CURATOR_TLS_CA_FILE", "CURATOR_TLS_CERT_FILE", "CURATOR_TLS_KEY_FILE",
		"CURATOR_ALLOW_EMPTY_CAPACITY", "CURATOR_HISTORY_ENABLED",
		"CURATOR_HISTORY_BACKEND", "CURATOR_HISTORY_SQLITE_PATH",
		"CURATOR_LOG_LEVEL", "CURATOR_METRICS_ENABLED",
		"CURATOR_METRICS_LISTEN_ADDRESS", "CURATOR_SCHEDULE_CRON",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearCuratorEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Elasticsearch.Host != "elasticsearch:9200" {
		t.Errorf("expected default host elasticsearch:9200, got %s", cfg.Elasticsearch.Host)
	}
	if cfg.Retention.ThresholdPercent != 80 {
		t.Errorf("expected default threshold 80, got %d", cfg.Retention.ThresholdPercent)
	}
	if !reflect.DeepEqual(cfg.Retention.Prefixes, []string{"infra-", "app-", "audit-"}) {
		t.Errorf("unexpected default prefixes: %v", cfg.Retention.Prefixes)
	}
	if cfg.Elasticsearch.ConnectAttempts != 2 {
		t.Errorf("expected 2 connect attempts, got %d", cfg.Elasticsearch.ConnectAttempts)
	}
	if cfg.Elasticsearch.ConnectRetryDelay != 10*time.Second {
		t.Errorf("expected 10s retry delay, got %s", cfg.Elasticsearch.ConnectRetryDelay)
	}
	if !cfg.Elasticsearch.TLS.Enabled {
		t.Error("expected TLS enabled by default")
	}
}

func TestLoad_LegacyEnvOverrides(t *testing.T) {
	clearCuratorEnv(t)
	t.Setenv("ELASTICSEARCH_HOST", "es.internal:9200")
	t.Setenv("PERCENTAGE_THRESHOLD", "55")
	t.Setenv("INDEX_NAME_PREFIXES", "logs-, metrics-")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Elasticsearch.Host != "es.internal:9200" {
		t.Errorf("host override not applied: %s", cfg.Elasticsearch.Host)
	}
	if cfg.Retention.ThresholdPercent != 55 {
		t.Errorf("threshold override not applied: %d", cfg.Retention.ThresholdPercent)
	}
	if !reflect.DeepEqual(cfg.Retention.Prefixes, []string{"logs-", "metrics-"}) {
		t.Errorf("prefix override not applied: %v", cfg.Retention.Prefixes)
	}
}

func TestLoad_ZeroThresholdViaEnv(t *testing.T) {
	clearCuratorEnv(t)
	t.Setenv("PERCENTAGE_THRESHOLD", "0")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Retention.ThresholdPercent != 0 {
		t.Errorf("explicit zero threshold was defaulted away: %d", cfg.Retention.ThresholdPercent)
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	clearCuratorEnv(t)

	t.Setenv("PERCENTAGE_THRESHOLD", "eighty")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric PERCENTAGE_THRESHOLD")
	}

	t.Setenv("PERCENTAGE_THRESHOLD", "150")
	if _, err := Load(""); err == nil {
		t.Error("expected validation error for threshold above 100")
	}
}

func TestLoad_EmptyHostRejected(t *testing.T) {
	clearCuratorEnv(t)
	t.Setenv("ELASTICSEARCH_HOST", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error for empty host")
	}
}

func TestLoad_EmptyPrefixesRejected(t *testing.T) {
	clearCuratorEnv(t)
	t.Setenv("INDEX_NAME_PREFIXES", "")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected validation error for empty prefix list")
	}
}

func TestLoad_FromFile(t *testing.T) {
	clearCuratorEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "curator.yaml")
	content := `
elasticsearch:
  host: "es-file:9200"
  tls:
    enabled: false
retention:
  threshold_percent: 70
  prefixes:
    - "infra-"
history:
  enabled: true
  backend: memory
schedule:
  cron: "0 3 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Elasticsearch.Host != "es-file:9200" {
		t.Errorf("file host not applied: %s", cfg.Elasticsearch.Host)
	}
	if cfg.Elasticsearch.TLS.Enabled {
		t.Error("expected TLS disabled from file")
	}
	if cfg.Retention.ThresholdPercent != 70 {
		t.Errorf("file threshold not applied: %d", cfg.Retention.ThresholdPercent)
	}
	if cfg.Schedule.Cron != "0 3 * * *" {
		t.Errorf("file schedule not applied: %q", cfg.Schedule.Cron)
	}
	// Defaults still fill unset fields.
	if cfg.Elasticsearch.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("expected default request timeout, got %s", cfg.Elasticsearch.RequestTimeout)
	}
}

func TestLoad_FileOmittingTLSKeepsItEnabled(t *testing.T) {
	clearCuratorEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "curator.yaml")
	content := "elasticsearch:\n  host: es-file:9200\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Elasticsearch.TLS.Enabled {
		t.Error("omitting the tls section must not disable TLS")
	}
	if cfg.Telemetry.Metrics.Enabled != DefaultMetricsEnabled {
		t.Errorf("omitted metrics section lost its default: %v", cfg.Telemetry.Metrics.Enabled)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	clearCuratorEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "curator.yaml")
	if err := os.WriteFile(path, []byte("elasticsearch:\n  host: from-file:9200\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("ELASTICSEARCH_HOST", "from-env:9200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Elasticsearch.Host != "from-env:9200" {
		t.Errorf("expected env to override file, got %s", cfg.Elasticsearch.Host)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearCuratorEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSplitPrefixes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"infra-,app-,audit-", []string{"infra-", "app-", "audit-"}},
		{" infra- , app- ", []string{"infra-", "app-"}},
		{"single-", []string{"single-"}},
		{",,", []string{}},
	}

	for _, tt := range tests {
		got := splitPrefixes(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitPrefixes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
