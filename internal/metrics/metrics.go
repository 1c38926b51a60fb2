// Package metrics holds the Prometheus collectors shared by the checkout
// components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ecommerce"

// Metrics groups every collector the application records to.
type Metrics struct {
	PaymentVerifications *prometheus.CounterVec
	PaymentIntents       *prometheus.CounterVec
	Webhooks             *prometheus.CounterVec
	Orders               *prometheus.CounterVec
	StockConflicts       *prometheus.CounterVec
	OrderTransitions     *prometheus.CounterVec
	Reconciliations      *prometheus.CounterVec
	HTTPRequests         *prometheus.CounterVec
	HTTPDuration         *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
// It panics if a collector with the same name is already registered.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PaymentVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "verifications_total",
			Help:      "Payment verifications by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
		PaymentIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "intents_total",
			Help:      "Gateway orders and payment intents created.",
		}, []string{"gateway", "outcome"}),
		Webhooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "webhooks_total",
			Help:      "Gateway webhook deliveries by event type.",
		}, []string{"gateway", "event"}),
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "materialized_total",
			Help:      "Order creation attempts by result.",
		}, []string{"gateway", "result"}),
		StockConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_conflicts_total",
			Help:      "Rejected or skipped stock reservations.",
		}, []string{"stage", "reason"}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "transitions_total",
			Help:      "Order status transitions.",
		}, []string{"from", "to"}),
		Reconciliations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payment",
			Name:      "reconciliation_entries_total",
			Help:      "Verified payments recorded for manual reconciliation.",
		}, []string{"sink", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		m.PaymentVerifications,
		m.PaymentIntents,
		m.Webhooks,
		m.Orders,
		m.StockConflicts,
		m.OrderTransitions,
		m.Reconciliations,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// NewNop returns collectors bound to a private registry. Useful in tests
// and for components constructed without a shared registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
