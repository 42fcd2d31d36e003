package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rohmanhakim/docuprism/internal/summarycache"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "docuprism"

// summarize durations in milliseconds; the client times out at 30s by default
var defaultBuckets = []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

// Metrics holds the prometheus collectors for cache and summarize activity.
// It satisfies pipeline.Observer.
type Metrics struct {
	registry *prometheus.Registry

	cacheLookups      *prometheus.CounterVec
	summarizeTotal    *prometheus.CounterVec
	summarizeDuration *prometheus.HistogramVec
	summarizeAttempts prometheus.Histogram

	cacheEntries     prometheus.GaugeFunc
	cacheUtilization prometheus.GaugeFunc
}

// New registers the collectors on a fresh registry. stats, when non-nil,
// backs the cache size gauges and is read at gather time.
func New(namespace string, stats func() summarycache.Stats) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Summary cache lookups by result",
			},
			[]string{"result"},
		),

		summarizeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summarize_total",
				Help:      "Summarize requests by outcome",
			},
			[]string{"outcome"},
		),

		summarizeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_milliseconds",
				Help:      "Duration of summarize requests in milliseconds",
				Buckets:   defaultBuckets,
			},
			[]string{"outcome"},
		),

		summarizeAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_attempts",
				Help:      "Summarizer calls made per summarize request",
				Buckets:   []float64{0, 1, 2, 3, 5, 10},
			},
		),
	}

	m.registry.MustRegister(
		m.cacheLookups,
		m.summarizeTotal,
		m.summarizeDuration,
		m.summarizeAttempts,
	)

	if stats != nil {
		m.cacheEntries = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Entries currently held by the summary cache",
			},
			func() float64 { return float64(stats().Size) },
		)
		m.cacheUtilization = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_utilization_percent",
				Help:      "Summary cache fill level in percent of its capacity",
			},
			func() float64 { return float64(stats().Percentage) },
		)
		m.registry.MustRegister(m.cacheEntries, m.cacheUtilization)
	}

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveSummarize(outcome string, attempts int, duration time.Duration) {
	m.summarizeTotal.WithLabelValues(outcome).Inc()
	m.summarizeDuration.WithLabelValues(outcome).Observe(float64(duration.Milliseconds()))
	m.summarizeAttempts.Observe(float64(attempts))
}
