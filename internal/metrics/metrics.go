package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketdata"

// Metrics holds the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	barsFilled      *prometheus.CounterVec
	backfillSkipped *prometheus.CounterVec
	quotesCollected *prometheus.CounterVec
	errors          *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// New creates Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		barsFilled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bars_filled_total",
			Help:      "Synthetic bars written by backfill.",
		}, []string{"symbol", "mode"}),
		backfillSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_skipped_total",
			Help:      "Backfill runs that had nothing to do.",
		}, []string{"mode", "reason"}),
		quotesCollected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_collected_total",
			Help:      "Quotes collected and stored.",
		}, []string{"symbol"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors by pipeline stage.",
		}, []string{"stage"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Live cache entries served.",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups that found no live entry.",
		}, []string{"cache"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.barsFilled,
		m.backfillSkipped,
		m.quotesCollected,
		m.errors,
		m.cacheHits,
		m.cacheMisses,
	)

	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// BarsFilled adds n synthetic bars for symbol in mode ("full_day" or "realtime").
func (m *Metrics) BarsFilled(symbol, mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.barsFilled.WithLabelValues(symbol, mode).Add(float64(n))
}

// BackfillSkipped counts a run that produced nothing.
func (m *Metrics) BackfillSkipped(mode, reason string) {
	if m == nil {
		return
	}
	m.backfillSkipped.WithLabelValues(mode, reason).Inc()
}

// QuoteCollected counts one stored quote.
func (m *Metrics) QuoteCollected(symbol string) {
	if m == nil {
		return
	}
	m.quotesCollected.WithLabelValues(symbol).Inc()
}

// Error counts a failure in stage.
func (m *Metrics) Error(stage string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(stage).Inc()
}

// CacheHit implements cache.Observer.
func (m *Metrics) CacheHit(name string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(name).Inc()
}

// CacheMiss implements cache.Observer.
func (m *Metrics) CacheMiss(name string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(name).Inc()
}
