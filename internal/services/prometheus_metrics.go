package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	transactionProcessed  *prometheus.CounterVec
	transactionDuration   prometheus.Histogram
	accountsCreated       *prometheus.CounterVec
	statusChanges         *prometheus.CounterVec
	holdsTotal            *prometheus.CounterVec
	autoDebitsProcessed   *prometheus.CounterVec
	autoDebitsDue         prometheus.Gauge
	accountsMarkedDormant prometheus.Gauge
}

func NewPrometheusMetrics() MetricsRecorderInterface {
	return &PrometheusMetrics{
		transactionProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transaction_processing_total",
				Help: "Total number of transactions processed",
			},
			[]string{"operation", "status"},
		),
		transactionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "transaction_processing_duration_milliseconds",
				Help:    "Transaction processing duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		accountsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accounts_created_total",
				Help: "Total number of accounts created by type",
			},
			[]string{"type"},
		),
		statusChanges: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_status_changes_total",
				Help: "Total number of account status transitions",
			},
			[]string{"to"},
		),
		holdsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "account_holds_total",
				Help: "Total number of hold operations",
			},
			[]string{"operation"},
		),
		autoDebitsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auto_debits_processed_total",
				Help: "Total number of auto debit items processed",
			},
			[]string{"status"},
		),
		autoDebitsDue: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "auto_debits_due",
				Help: "Number of auto debits due in the last scheduler run",
			},
		),
		accountsMarkedDormant: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "accounts_marked_dormant",
				Help: "Number of accounts marked dormant in the last sweep",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	operation := tags["operation"]
	reason := tags["reason"]
	status := tags["status"]

	switch name {
	case "transaction.processed.success":
		m.transactionProcessed.WithLabelValues(operation, "success").Inc()
	case "transaction.processed.failed":
		m.transactionProcessed.WithLabelValues(operation, "failed_"+reason).Inc()
	case "account.created":
		m.accountsCreated.WithLabelValues(tags["type"]).Inc()
	case "account.status_changed":
		m.statusChanges.WithLabelValues(tags["to"]).Inc()
	case "hold.placed":
		m.holdsTotal.WithLabelValues("placed").Inc()
	case "hold.released":
		m.holdsTotal.WithLabelValues("released").Inc()
	case "auto_debit.processed":
		if status != "" {
			m.autoDebitsProcessed.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "transaction.processing":
		m.transactionDuration.Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "auto_debit.due":
		m.autoDebitsDue.Set(value)
	case "accounts.marked_dormant":
		m.accountsMarkedDormant.Set(value)
	}
}
