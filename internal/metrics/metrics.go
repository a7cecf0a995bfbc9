// Package metrics exposes Prometheus collectors for the results engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultMetrics bundles the engine's collectors. A nil *ResultMetrics is a
// valid no-op receiver so tests can skip metrics wiring.
type ResultMetrics struct {
	importsTotal    *prometheus.CounterVec
	importRowsTotal *prometheus.CounterVec
	queryDuration   *prometheus.HistogramVec
}

// NewResultMetrics registers the engine collectors on the given registerer.
func NewResultMetrics(reg prometheus.Registerer) *ResultMetrics {
	m := &ResultMetrics{
		importsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "results_imports_total",
			Help: "Bulk result imports by kind and outcome.",
		}, []string{"kind", "outcome"}),
		importRowsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "results_import_rows_total",
			Help: "Imported rows by kind and row status.",
		}, []string{"kind", "status"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "results_query_duration_seconds",
			Help:    "Duration of results engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.importsTotal, m.importRowsTotal, m.queryDuration)
	return m
}

// NewRegistry returns a registry preloaded with the standard process and Go
// collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the registry over HTTP for the /metrics endpoint.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func (m *ResultMetrics) RecordImport(kind, outcome string) {
	if m == nil {
		return
	}
	m.importsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *ResultMetrics) RecordImportRows(kind string, ok, failed int) {
	if m == nil {
		return
	}
	m.importRowsTotal.WithLabelValues(kind, "ok").Add(float64(ok))
	m.importRowsTotal.WithLabelValues(kind, "failed").Add(float64(failed))
}

func (m *ResultMetrics) ObserveOperation(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(operation).Observe(d.Seconds())
}
