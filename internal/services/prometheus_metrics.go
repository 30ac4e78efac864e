package services

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by MetricsRecorderInterface
const (
	MetricAuthEvent           = "authentication_event"
	MetricAPIError            = "api_error"
	MetricTransactionCreated  = "transaction_created"
	MetricPrediction          = "model_prediction"
	MetricTraining            = "model_training"
	MetricModelSampleCount    = "model_sample_count"
	MetricBudgetCheck         = "budget_check"
	MetricReceiptUpload       = "receipt_upload"
	MetricBankCall            = "bank_call"
	MetricBankImport          = "bank_import"
	MetricCircuitBreakerState = "circuit_breaker_state"
)

type PrometheusMetrics struct {
	authenticationEvents *prometheus.CounterVec
	apiErrors            *prometheus.CounterVec
	transactionsCreated  *prometheus.CounterVec
	predictions          *prometheus.CounterVec
	predictionDuration   prometheus.Histogram
	trainingRuns         *prometheus.CounterVec
	trainingDuration     prometheus.Histogram
	modelSamples         prometheus.Gauge
	budgetChecks         *prometheus.CounterVec
	receiptUploads       *prometheus.CounterVec
	bankCalls            *prometheus.CounterVec
	bankCallDuration     *prometheus.HistogramVec
	bankImported         *prometheus.CounterVec
	circuitBreakerState  *prometheus.GaugeVec
}

// NewPrometheusMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not panic.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		authenticationEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
		apiErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_errors_total",
				Help: "Total number of error responses by error code",
			},
			[]string{"code"},
		),
		transactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transactions_created_total",
				Help: "Total number of transactions recorded",
			},
			[]string{"source", "category_source"},
		),
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_predictions_total",
				Help: "Total number of category predictions",
			},
			[]string{"status"},
		),
		predictionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "model_prediction_duration_milliseconds",
				Help:    "Category prediction latency in milliseconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
			},
		),
		trainingRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "model_training_runs_total",
				Help: "Total number of training runs by outcome",
			},
			[]string{"status"},
		),
		trainingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "model_training_duration_milliseconds",
				Help:    "Training duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
		),
		modelSamples: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "model_training_samples",
				Help: "Number of labeled samples used by the current model",
			},
		),
		budgetChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "budget_checks_total",
				Help: "Total number of budget checks by result",
			},
			[]string{"result"},
		),
		receiptUploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_uploads_total",
				Help: "Total number of receipt uploads",
			},
			[]string{"status"},
		),
		bankCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_api_calls_total",
				Help: "Total number of bank data provider calls",
			},
			[]string{"operation", "status"},
		),
		bankCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bank_api_call_duration_milliseconds",
				Help:    "Bank data provider call latency in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 14),
			},
			[]string{"operation"},
		),
		bankImported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bank_transactions_processed_total",
				Help: "Bank transactions seen during import by outcome",
			},
			[]string{"outcome"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	status := tags["status"]

	switch name {
	case MetricAuthEvent:
		if eventType := tags["event_type"]; eventType != "" {
			m.authenticationEvents.WithLabelValues(eventType).Inc()
		}
	case MetricAPIError:
		if code := tags["code"]; code != "" {
			m.apiErrors.WithLabelValues(code).Inc()
		}
	case MetricTransactionCreated:
		m.transactionsCreated.WithLabelValues(tags["source"], tags["category_source"]).Inc()
	case MetricPrediction:
		m.predictions.WithLabelValues(status).Inc()
	case MetricTraining:
		m.trainingRuns.WithLabelValues(status).Inc()
	case MetricBudgetCheck:
		m.budgetChecks.WithLabelValues(tags["result"]).Inc()
	case MetricReceiptUpload:
		m.receiptUploads.WithLabelValues(status).Inc()
	case MetricBankCall:
		m.bankCalls.WithLabelValues(tags["operation"], status).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	ms := float64(duration.Microseconds()) / 1000

	switch name {
	case MetricPrediction:
		m.predictionDuration.Observe(ms)
	case MetricTraining:
		m.trainingDuration.Observe(ms)
	default:
		// bank_call.<operation>
		if op, ok := strings.CutPrefix(name, MetricBankCall+"."); ok && op != "" {
			m.bankCallDuration.WithLabelValues(op).Observe(ms)
		}
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricCircuitBreakerState:
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	case MetricModelSampleCount:
		m.modelSamples.Set(value)
	case MetricBankImport:
		if outcome := tags["outcome"]; outcome != "" {
			m.bankImported.WithLabelValues(outcome).Add(value)
		}
	}
}
