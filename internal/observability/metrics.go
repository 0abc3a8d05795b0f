package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments shared by the pipeline stages.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec // labels: stage
	RecordFailures   *prometheus.CounterVec // labels: stage

	// External lookup metrics.
	LookupRequests *prometheus.CounterVec   // labels: service, outcome={success,empty,error,out_of_bounds}
	LookupDuration *prometheus.HistogramVec // labels: service
	CacheLookups   *prometheus.CounterVec   // labels: cache, result={hit,miss}

	RunActive prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsProcessed,
		m.RecordFailures,
		m.LookupRequests,
		m.LookupDuration,
		m.CacheLookups,
		m.RunActive,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so parallel
// tests never hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sundland",
			Name:      "records_processed_total",
			Help:      "Records handled per pipeline stage.",
		}, []string{"stage"}),
		RecordFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sundland",
			Name:      "record_failures_total",
			Help:      "Records that could not be resolved or enriched, per stage.",
		}, []string{"stage"}),
		LookupRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sundland",
			Name:      "lookup_requests_total",
			Help:      "External API lookups by service and outcome.",
		}, []string{"service", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sundland",
			Name:      "lookup_duration_seconds",
			Help:      "External API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"service"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sundland",
			Name:      "cache_lookups_total",
			Help:      "In-run cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		RunActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sundland",
			Name:      "run_active",
			Help:      "1 while a pipeline stage is running, 0 otherwise.",
		}),
	}
}
