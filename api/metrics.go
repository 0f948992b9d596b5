package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics owns a private registry so each router can be built more than
// once in one process.
type metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	loginAttempts   *prometheus.CounterVec
	leadsCreated    prometheus.Counter
	eventsTracked   *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "studio_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		loginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_login_attempts_total",
				Help: "Admin login attempts by outcome",
			},
			[]string{"success"},
		),
		leadsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_leads_created_total",
			Help: "Contact-form leads stored",
		}),
		eventsTracked: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_analytics_events_total",
				Help: "Analytics events stored by type",
			},
			[]string{"event_type"},
		),
	}
	m.registry.MustRegister(
		m.requestDuration,
		m.loginAttempts,
		m.leadsCreated,
		m.eventsTracked,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// instrument records request duration labeled by the matched route
// pattern rather than the raw path, which would explode cardinality on ids.
func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) recordLogin(success bool) {
	m.loginAttempts.WithLabelValues(strconv.FormatBool(success)).Inc()
}
