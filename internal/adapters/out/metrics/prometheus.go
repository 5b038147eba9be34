// Package metrics records dispatch observations as Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"dispatch/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dispatch"

var _ ports.Metrics = (*Prometheus)(nil)

type Prometheus struct {
	registry *prometheus.Registry

	assignments       *prometheus.CounterVec
	assignmentSeconds *prometheus.HistogramVec
	transitions       *prometheus.CounterVec
	retries           *prometheus.CounterVec
	notifications     *prometheus.CounterVec
}

// NewPrometheus registers the dispatch collectors, together with the Go and
// process collectors, on a private registry.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()

	p := &Prometheus{
		registry: registry,
		assignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assignments_total",
				Help:      "Partner assignment attempts by order type and outcome",
			},
			[]string{"order_type", "assigned"},
		),
		assignmentSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "assignment_duration_seconds",
				Help:      "Time taken to select a partner",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"order_type"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "status_transitions_total",
				Help:      "Order status transitions by target status",
			},
			[]string{"status", "applied"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pending_retries_total",
				Help:      "Pending order retries by order type and outcome",
			},
			[]string{"order_type", "outcome"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Push notifications by client app and outcome",
			},
			[]string{"audience", "outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.assignments,
		p.assignmentSeconds,
		p.transitions,
		p.retries,
		p.notifications,
	)
	return p
}

func (p *Prometheus) ObserveAssignment(orderType string, assigned bool, elapsed time.Duration) {
	p.assignments.WithLabelValues(orderType, strconv.FormatBool(assigned)).Inc()
	p.assignmentSeconds.WithLabelValues(orderType).Observe(elapsed.Seconds())
}

func (p *Prometheus) ObserveTransition(status string, applied bool) {
	p.transitions.WithLabelValues(status, strconv.FormatBool(applied)).Inc()
}

func (p *Prometheus) ObserveRetry(orderType string, outcome string) {
	p.retries.WithLabelValues(orderType, outcome).Inc()
}

func (p *Prometheus) ObserveNotification(audience string, outcome string) {
	p.notifications.WithLabelValues(audience, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
