package metrics

import (
	"net/http"
	"strconv"
	"time"

	"cowork/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const defaultNamespace = "cowork"

// Metrics records request and booking lifecycle counters on a private registry.
type Metrics interface {
	ObserveHTTP(method, route string, status int, duration time.Duration)
	BookingEvent(event string)
	Handler() http.Handler
}

type metricsImpl struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	bookingEvents   *prometheus.CounterVec
}

func New(cfg *config.Config) Metrics {
	namespace := cfg.App.Metrics.Namespace
	if namespace == "" {
		namespace = defaultNamespace
	}

	registry := prometheus.NewRegistry()

	impl := &metricsImpl{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "events_total",
			Help:      "Booking lifecycle events that were committed.",
		}, []string{"event"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		impl.requestsTotal,
		impl.requestDuration,
		impl.bookingEvents,
	)

	log.Info().Str("namespace", namespace).Bool("enabled", cfg.App.Metrics.Enable).Msg("Metrics registry initialized")

	return impl
}

func (m *metricsImpl) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *metricsImpl) BookingEvent(event string) {
	m.bookingEvents.WithLabelValues(event).Inc()
}

func (m *metricsImpl) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
