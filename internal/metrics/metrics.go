// Package metrics provides Prometheus metrics for lexroster.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for lexroster.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SearchRequestsTotal *prometheus.CounterVec
	SearchFallbacks     *prometheus.CounterVec
	SearchDuration      *prometheus.HistogramVec

	IngestTotal *prometheus.CounterVec
	MirrorTotal *prometheus.CounterVec

	DocumentsTotal prometheus.Gauge
}

// New creates all metrics and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SearchRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexroster_search_requests_total",
				Help: "Total number of search requests by mode and answering engine",
			},
			[]string{"mode", "engine"},
		),

		SearchFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexroster_search_fallbacks_total",
				Help: "Searches answered by the document store instead of the primary engine",
			},
			[]string{"reason"},
		),

		SearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexroster_search_duration_seconds",
				Help:    "Duration of search requests in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"mode"},
		),

		IngestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexroster_ingest_total",
				Help: "Document ingestions by outcome",
			},
			[]string{"status"},
		),

		MirrorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexroster_mirror_total",
				Help: "Mirrors into the primary search engine by outcome",
			},
			[]string{"status"},
		),

		DocumentsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "lexroster_documents_total",
				Help: "Documents in the store at the last summary",
			},
		),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordSearch records a completed search.
func (m *Metrics) RecordSearch(mode, engine string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SearchRequestsTotal.WithLabelValues(mode, engine).Inc()
	m.SearchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordFallback records a search that skipped or abandoned the primary engine.
func (m *Metrics) RecordFallback(reason string) {
	if m == nil {
		return
	}
	m.SearchFallbacks.WithLabelValues(reason).Inc()
}

// RecordIngest records an ingestion outcome.
func (m *Metrics) RecordIngest(status string) {
	if m == nil {
		return
	}
	m.IngestTotal.WithLabelValues(status).Inc()
}

// RecordMirror records a primary engine mirror outcome.
func (m *Metrics) RecordMirror(status string) {
	if m == nil {
		return
	}
	m.MirrorTotal.WithLabelValues(status).Inc()
}

// SetDocuments sets the document count gauge.
func (m *Metrics) SetDocuments(n int) {
	if m == nil {
		return
	}
	m.DocumentsTotal.Set(float64(n))
}
