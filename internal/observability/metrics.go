package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// weather risk pipeline.
type Metrics struct {
	ObjectsProcessed   prometheus.Counter
	TransformErrors    prometheus.Counter
	TriggerParseErrors prometheus.Counter
	BatchFailures      prometheus.Counter
	StormAlerts        prometheus.Counter
	PipelineRunning    prometheus.Gauge

	BatchProcessingDuration prometheus.Histogram
	RiskScore               prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		ObjectsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_risk_etl",
			Name:      "objects_processed_total",
			Help:      "Total raw payload objects transformed and stored.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_risk_etl",
			Name:      "transform_errors_total",
			Help:      "Total payload parse and validation failures.",
		}),
		TriggerParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_risk_etl",
			Name:      "trigger_parse_errors_total",
			Help:      "Total trigger envelopes that could not be parsed and were skipped.",
		}),
		BatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_risk_etl",
			Name:      "batch_failures_total",
			Help:      "Total trigger batches aborted by a failing object.",
		}),
		StormAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_risk_etl",
			Name:      "storm_alerts_total",
			Help:      "Total storm alert notifications dispatched.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_risk_etl",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_risk_etl",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete trigger batch: read, transform, store, notify.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		RiskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_risk_etl",
			Name:      "risk_score",
			Help:      "Distribution of composite risk scores for stored records.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		}),
	}

	prometheus.MustRegister(
		m.ObjectsProcessed,
		m.TransformErrors,
		m.TriggerParseErrors,
		m.BatchFailures,
		m.StormAlerts,
		m.PipelineRunning,
		m.BatchProcessingDuration,
		m.RiskScore,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		ObjectsProcessed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_risk_etl", Name: "objects_processed_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_risk_etl", Name: "transform_errors_total"}),
		TriggerParseErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_risk_etl", Name: "trigger_parse_errors_total"}),
		BatchFailures:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_risk_etl", Name: "batch_failures_total"}),
		StormAlerts:             prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_risk_etl", Name: "storm_alerts_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_risk_etl", Name: "pipeline_running"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_risk_etl", Name: "batch_processing_duration_seconds"}),
		RiskScore:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_risk_etl", Name: "risk_score"}),
	}
}
