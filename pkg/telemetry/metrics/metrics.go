// Package metrics exposes Prometheus metrics for retention runs. The
// endpoint is only served in scheduled mode; one-shot runs still record so
// a pushgateway sidecar can pick the values up if deployed.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "curator"
)

// Run outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeDryRun  = "dry_run"
)

// Collector owns all curator metrics on a private registry so tests and
// embedders never collide with the default registry.
type Collector struct {
	registry *prometheus.Registry

	runsTotal           *prometheus.CounterVec
	runDurationSeconds  prometheus.Histogram
	indicesDeletedTotal prometheus.Counter
	deleteFailuresTotal prometheus.Counter
	bytesFreedTotal     prometheus.Counter

	budgetBytes      prometheus.Gauge
	candidateBytes   prometheus.Gauge
	candidateIndices prometheus.Gauge
	plannedDeletions prometheus.Gauge
}

// NewCollector creates a collector with all metrics registered. A nil
// registry creates a private one.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Retention runs by outcome.",
		}, []string{"outcome"}),
		runDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a full retention run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
		indicesDeletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "indices_deleted_total",
			Help:      "Indices successfully deleted.",
		}),
		deleteFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delete_failures_total",
			Help:      "Per-index deletion failures.",
		}),
		bytesFreedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_freed_total",
			Help:      "Store bytes freed by deletions.",
		}),
		budgetBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "budget_bytes",
			Help:      "Byte budget computed for the last run.",
		}),
		candidateBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_bytes",
			Help:      "Total store size of matching indices in the last run.",
		}),
		candidateIndices: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "candidate_indices",
			Help:      "Matching indices considered in the last run.",
		}),
		plannedDeletions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_deletions",
			Help:      "Indices selected for deletion in the last run.",
		}),
	}

	registry.MustRegister(
		c.runsTotal,
		c.runDurationSeconds,
		c.indicesDeletedTotal,
		c.deleteFailuresTotal,
		c.bytesFreedTotal,
		c.budgetBytes,
		c.candidateBytes,
		c.candidateIndices,
		c.plannedDeletions,
	)

	return c
}

// RecordRun records a completed run with its outcome and duration.
func (c *Collector) RecordRun(outcome string, duration time.Duration) {
	c.runsTotal.WithLabelValues(outcome).Inc()
	c.runDurationSeconds.Observe(duration.Seconds())
}

// RecordPlan records the figures of a freshly built retention plan.
func (c *Collector) RecordPlan(budgetBytes, candidateBytes int64, candidates, planned int) {
	c.budgetBytes.Set(float64(budgetBytes))
	c.candidateBytes.Set(float64(candidateBytes))
	c.candidateIndices.Set(float64(candidates))
	c.plannedDeletions.Set(float64(planned))
}

// RecordDeletion records one successful deletion and the bytes it freed.
func (c *Collector) RecordDeletion(sizeBytes int64) {
	c.indicesDeletedTotal.Inc()
	c.bytesFreedTotal.Add(float64(sizeBytes))
}

// RecordDeleteFailure records one failed per-index deletion.
func (c *Collector) RecordDeleteFailure() {
	c.deleteFailuresTotal.Inc()
}

// Registry returns the underlying registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the HTTP handler for the metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
