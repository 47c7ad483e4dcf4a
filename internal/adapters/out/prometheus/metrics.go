// Package prometheus exposes the service metrics on a dedicated registry.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"tracking/internal/adapters/out/events"
	"tracking/internal/core/domain/model/parcel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tracking"

// Metrics is also a ports.EventPublisher that counts package events.
type Metrics struct {
	registry *prometheus.Registry

	events   *prometheus.CounterVec
	byStatus *prometheus.GaugeVec
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "package_events_total",
			Help:      "Package events published after commit, by event and resulting status.",
		}, []string{"event", "status"}),
		byStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "packages_by_status",
			Help:      "Packages per current status at the last snapshot.",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.events,
		m.byStatus,
		m.requests,
		m.duration,
	)
	return m
}

func (m *Metrics) Publish(_ context.Context, evs ...parcel.DomainEvent) error {
	for _, e := range evs {
		env := events.NewEnvelope(e)
		m.events.WithLabelValues(env.Name, env.To).Inc()
	}
	return nil
}

// SetPackagesByStatus replaces the gauge values. Statuses missing from counts
// are set to zero.
func (m *Metrics) SetPackagesByStatus(counts map[parcel.Status]int64) {
	for _, s := range parcel.Statuses() {
		m.byStatus.WithLabelValues(s.String()).Set(float64(counts[s]))
	}
}

func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the text exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
