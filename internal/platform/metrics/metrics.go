package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	DivisionOrdersCreated prometheus.Counter
	InterestUpdates       prometheus.Counter
	SummaryChecks         *prometheus.CounterVec
	DistributionsCreated  prometheus.Counter
	PaymentsProcessed     prometheus.Counter
	OutboxPublished       prometheus.Counter
	OutboxFailures        prometheus.Counter
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		DivisionOrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_division_orders_created_total",
			Help: "Total number of division orders created",
		}),
		InterestUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_division_order_interest_updates_total",
			Help: "Total number of decimal interest updates applied",
		}),
		SummaryChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "wellflow_interest_summary_checks_total",
			Help: "Interest summary queries partitioned by whether the well summed to 100%",
		}, []string{"valid"}),
		DistributionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_revenue_distributions_created_total",
			Help: "Total number of revenue distributions created",
		}),
		PaymentsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_payments_processed_total",
			Help: "Total number of distribution payments processed",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_outbox_events_published_total",
			Help: "Total number of domain events published from the outbox",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wellflow_outbox_publish_failures_total",
			Help: "Total number of outbox publish attempts that failed",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wellflow_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(route, status).Observe(elapsed.Seconds())
}

// RecordSummaryCheck counts one summary validation by outcome.
func (m *Metrics) RecordSummaryCheck(valid bool) {
	if valid {
		m.SummaryChecks.WithLabelValues("true").Inc()
		return
	}
	m.SummaryChecks.WithLabelValues("false").Inc()
}
