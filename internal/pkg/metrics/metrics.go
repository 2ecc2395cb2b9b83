// Package metrics defines the Prometheus metrics of the delivery service. It is
// the single source of truth for metric names, labels and help strings.
//
// Build one Metrics with New at startup and hand it to the components that report:
// the dispatch workflows, the unit of work, the outbox processor and the jobs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "delivery"

const (
	resultSuccess = "success"
	resultError   = "error"
)

// Metrics holds the service collectors.
type Metrics struct {
	// ── Jobs ──────────────────────────────────────────────────────────────────

	// jobRunsTotal counts job runs.
	// Labels:
	//   - job: job name (e.g. "assign_orders")
	//   - result: "success" or "error"
	jobRunsTotal *prometheus.CounterVec

	// jobDuration measures one job run end to end.
	jobDuration *prometheus.HistogramVec

	// ── Dispatch ──────────────────────────────────────────────────────────────

	ordersAssignedTotal  prometheus.Counter
	ordersCompletedTotal prometheus.Counter

	// ── Outbox ────────────────────────────────────────────────────────────────

	outboxCapturedTotal prometheus.Counter

	// outboxProcessedTotal and outboxFailuresTotal are labelled by message type.
	outboxProcessedTotal *prometheus.CounterVec
	outboxFailuresTotal  *prometheus.CounterVec
}

// New registers every collector with reg. Pass prometheus.DefaultRegisterer in
// production so the echo /metrics endpoint exposes them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		jobRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "job_runs_total",
				Help:      "Total number of background job runs, by job and result.",
			},
			[]string{"job", "result"},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "job_duration_seconds",
				Help:      "Duration of background job runs.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job"},
		),
		ordersAssignedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_assigned_total",
			Help:      "Total number of orders assigned to a courier.",
		}),
		ordersCompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_completed_total",
			Help:      "Total number of orders delivered.",
		}),
		outboxCapturedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_messages_captured_total",
			Help:      "Total number of domain events written to the outbox.",
		}),
		outboxProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_messages_processed_total",
				Help:      "Total number of outbox messages delivered, by message type.",
			},
			[]string{"type"},
		),
		outboxFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_delivery_failures_total",
				Help:      "Total number of failed outbox deliveries, by message type.",
			},
			[]string{"type"},
		),
	}
}

// JobRun records one run of job that took d and ended with err.
func (m *Metrics) JobRun(job string, d time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	m.jobRunsTotal.WithLabelValues(job, result).Inc()
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Metrics) OrdersAssigned(n int) {
	m.ordersAssignedTotal.Add(float64(n))
}

func (m *Metrics) OrdersCompleted(n int) {
	m.ordersCompletedTotal.Add(float64(n))
}

func (m *Metrics) OutboxMessagesCaptured(n int) {
	m.outboxCapturedTotal.Add(float64(n))
}

func (m *Metrics) MessageProcessed(messageType string) {
	m.outboxProcessedTotal.WithLabelValues(messageType).Inc()
}

func (m *Metrics) DeliveryFailed(messageType string) {
	m.outboxFailuresTotal.WithLabelValues(messageType).Inc()
}
