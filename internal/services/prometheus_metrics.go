package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	accountOperations *prometheus.CounterVec
	transfersTotal    *prometheus.CounterVec
	transferDuration  prometheus.Histogram
	transferAmount    prometheus.Histogram
	listDuration      prometheus.Histogram
	authEventsTotal   *prometheus.CounterVec
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		accountOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_operations_total",
				Help: "Total number of account operations by type",
			},
			[]string{"operation"},
		),
		transfersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transfers_total",
				Help: "Total number of transfers processed",
			},
			[]string{"status"},
		),
		transferDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_duration_milliseconds",
				Help:    "Transfer processing duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		transferAmount: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transfer_amount",
				Help:    "Transfer amount in base currency units",
				Buckets: prometheus.ExponentialBuckets(1, 10, 8),
			},
		),
		listDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "account_list_duration_seconds",
				Help:    "Account listing duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		authEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "authentication_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event_type"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case "transfers_total":
		if status := tags["status"]; status != "" {
			m.transfersTotal.WithLabelValues(status).Inc()
		}
	case "authentication_event":
		if eventType := tags["event_type"]; eventType != "" {
			m.authEventsTotal.WithLabelValues(eventType).Inc()
		}
	default:
		m.accountOperations.WithLabelValues(name).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "transfer_duration":
		m.transferDuration.Observe(float64(duration.Milliseconds()))
	case "account_list":
		m.listDuration.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	if name == "transfer_amount" {
		m.transferAmount.Observe(value)
	}
}
