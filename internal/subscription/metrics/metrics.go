package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the subscription workflow.
// A nil *Metrics is valid and records nothing, so tests can pass nil.
type Metrics struct {
	Registered       prometheus.Counter
	Confirmed        prometheus.Counter
	DeliveryFailures prometheus.Counter
	DeliveryDuration prometheus.Histogram
}

// New creates and registers all subscription metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		Registered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bulletin_subscribers_registered_total",
			Help: "Registrations committed (pending subscriber plus token written).",
		}),
		Confirmed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bulletin_subscribers_confirmed_total",
			Help: "Successful confirmation requests, including idempotent repeats.",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bulletin_email_delivery_failures_total",
			Help: "Confirmation email delivery attempts that failed and aborted registration.",
		}),
		DeliveryDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bulletin_email_delivery_duration_seconds",
			Help:    "Latency of successful confirmation email deliveries.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordRegistered() {
	if m == nil {
		return
	}
	m.Registered.Inc()
}

func (m *Metrics) RecordConfirmed() {
	if m == nil {
		return
	}
	m.Confirmed.Inc()
}

func (m *Metrics) RecordDeliveryFailure() {
	if m == nil {
		return
	}
	m.DeliveryFailures.Inc()
}

func (m *Metrics) ObserveDeliveryDuration(seconds float64) {
	if m == nil {
		return
	}
	m.DeliveryDuration.Observe(seconds)
}
