package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the prediction pipeline
type Metrics struct {
	predictionsTotal   *prometheus.CounterVec
	predictionLatency  prometheus.Histogram
	elevationFallbacks prometheus.Counter
	datasetFailures    prometheus.Counter
	exportArchives     *prometheus.CounterVec
}

// NewMetrics creates and registers all prediction metrics
func NewMetrics() *Metrics {
	return &Metrics{
		predictionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictions_total",
				Help: "Total number of prediction requests",
			},
			[]string{"profile", "format", "status"},
		),
		predictionLatency: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "prediction_latency_ms",
				Help:    "Latency of the full prediction pipeline in milliseconds",
				Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
			},
		),
		elevationFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "elevation_fallbacks_total",
				Help: "Total number of elevation lookups that fell back to sea level",
			},
		),
		datasetFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "dataset_resolution_failures_total",
				Help: "Total number of requests that could not resolve a wind dataset",
			},
		),
		exportArchives: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "export_archives_total",
				Help: "Total number of formatted exports archived to object storage",
			},
			[]string{"format", "status"},
		),
	}
}

// ObservePrediction records one finished prediction request.
func (m *Metrics) ObservePrediction(profile, format, status string, latencyMs float64) {
	m.predictionsTotal.WithLabelValues(profile, format, status).Inc()
	m.predictionLatency.Observe(latencyMs)
}

// IncElevationFallback records an elevation lookup that defaulted.
func (m *Metrics) IncElevationFallback() {
	m.elevationFallbacks.Inc()
}

// IncDatasetFailure records a failed dataset resolution.
func (m *Metrics) IncDatasetFailure() {
	m.datasetFailures.Inc()
}

// ObserveExportArchive records an export archive attempt.
func (m *Metrics) ObserveExportArchive(format, status string) {
	m.exportArchives.WithLabelValues(format, status).Inc()
}
