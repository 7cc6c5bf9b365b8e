// Package metrics provides Prometheus collectors for import batches and
// recommendation latency.
//
// Collectors are registered on a private registry owned by Metrics, so tests
// and multiple servers in one process never collide on the default registry.
//
// Usage:
//
//	m := metrics.New()
//	im := importer.NewImporter(..., importer.WithRecorder(m))
//	rec, _ := search.NewRecommender(ranker, embedder, search.WithObserver(m))
//	mux.Handle("/metrics", m.Handler())
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	// ImportBatchesTotal counts committed batches by table.
	ImportBatchesTotal *prometheus.CounterVec

	// ImportRecordsTotal counts committed records by table.
	ImportRecordsTotal *prometheus.CounterVec

	// ImportFailuresTotal counts failed batches by table.
	ImportFailuresTotal *prometheus.CounterVec

	// ImportProgress is the processed/total ratio of the latest run by table.
	ImportProgress *prometheus.GaugeVec

	// RecommendDuration tracks end-to-end recommendation latency.
	RecommendDuration prometheus.Histogram
}

// New creates the collectors on a fresh registry, including the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ImportBatchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinevec_import_batches_total",
				Help: "Total number of committed import batches",
			},
			[]string{"table"},
		),
		ImportRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinevec_import_records_total",
				Help: "Total number of records committed by import batches",
			},
			[]string{"table"},
		),
		ImportFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cinevec_import_failures_total",
				Help: "Total number of import batches that failed",
			},
			[]string{"table"},
		),
		ImportProgress: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cinevec_import_progress_ratio",
				Help: "Fraction of the current import run that has been committed",
			},
			[]string{"table"},
		),
		RecommendDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name: "cinevec_recommend_duration_seconds",
				Help: "Duration of recommendation requests in seconds",
				// Full scans: milliseconds for small catalogs, seconds for large ones
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// BatchCommitted records a committed batch of n records.
func (m *Metrics) BatchCommitted(table string, n int) {
	m.ImportBatchesTotal.WithLabelValues(table).Inc()
	m.ImportRecordsTotal.WithLabelValues(table).Add(float64(n))
}

// BatchFailed records a failed batch.
func (m *Metrics) BatchFailed(table string) {
	m.ImportFailuresTotal.WithLabelValues(table).Inc()
}

// Progress records the committed fraction of the current run.
func (m *Metrics) Progress(table string, ratio float64) {
	m.ImportProgress.WithLabelValues(table).Set(ratio)
}

// ObserveRecommend records the duration of one recommendation.
func (m *Metrics) ObserveRecommend(d time.Duration) {
	m.RecommendDuration.Observe(d.Seconds())
}
