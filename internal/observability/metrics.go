package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the collision service.
type Metrics struct {
	// Loading metrics.
	RowsRead       prometheus.Counter
	RowsDropped    *prometheus.CounterVec // labels: reason={missing_geolocation,invalid_timestamp}
	DatasetLoads   *prometheus.CounterVec // labels: outcome={success,error}
	LoadDuration   prometheus.Histogram
	DatasetRecords prometheus.Gauge
	LoaderCache    *prometheus.CounterVec // labels: result={hit,miss}

	// View metrics.
	ViewRequests *prometheus.CounterVec // labels: view

	// Export metrics.
	RecordsExported prometheus.Counter
	ExportErrors    prometheus.Counter
	ExportBatchSize prometheus.Histogram
	ExportRunning   prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsRead,
		m.RowsDropped,
		m.DatasetLoads,
		m.LoadDuration,
		m.DatasetRecords,
		m.LoaderCache,
		m.ViewRequests,
		m.RecordsExported,
		m.ExportErrors,
		m.ExportBatchSize,
		m.ExportRunning,
	)
	return m
}

// NewUnregisteredMetrics creates Metrics that no registry exposes, for
// one-shot tools without a /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return newMetrics()
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "rows_read_total",
			Help:      "Total data rows read from source files.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "rows_dropped_total",
			Help:      "Source rows excluded at load time by reason.",
		}, []string{"reason"}),
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "dataset_loads_total",
			Help:      "Source file loads by outcome.",
		}, []string{"outcome"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "collisions",
			Name:      "load_duration_seconds",
			Help:      "Duration of reading and normalizing a source file.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		DatasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collisions",
			Name:      "dataset_records",
			Help:      "Records in the most recently loaded dataset.",
		}),
		LoaderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "loader_cache_total",
			Help:      "Dataset cache lookups by result.",
		}, []string{"result"}),
		ViewRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "view_requests_total",
			Help:      "Derived view computations by view.",
		}, []string{"view"}),
		RecordsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "records_exported_total",
			Help:      "Total records written to the export topic.",
		}),
		ExportErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "collisions",
			Name:      "export_errors_total",
			Help:      "Total failed export batch writes.",
		}),
		ExportBatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "collisions",
			Name:      "export_batch_size",
			Help:      "Number of records per export batch.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		ExportRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "collisions",
			Name:      "export_running",
			Help:      "1 while an export is in progress, 0 otherwise.",
		}),
	}
}
