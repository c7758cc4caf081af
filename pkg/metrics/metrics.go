// Package metrics owns the Prometheus registry of the order service and the
// collectors shared across packages. Packages with metrics of their own
// register them through NewCounter, NewHistogram and NewGauge.
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ordermgmt"

// DefaultRegistry holds every collector of the process, including Go runtime
// and process stats.
var DefaultRegistry = newRegistry()

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

var factory = promauto.With(DefaultRegistry)

// HTTP, labelled by chi route pattern so ids stay out of label values.
var (
	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	RequestTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served.",
	}, []string{"method", "route", "status"})

	RequestInFlight = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests being served.",
	})

	ResponseSize = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "Size of HTTP response bodies.",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	}, []string{"method", "route"})
)

// Storage.
var (
	DBQueryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "query_duration_seconds",
		Help:      "Latency of ORM statements by operation.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .5, 1},
	}, []string{"operation"})

	CacheHits = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Read-through cache hits.",
	}, []string{"driver"})

	CacheMisses = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Read-through cache misses.",
	}, []string{"driver"})
)

// Domain.
var (
	OrdersCreated = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Orders created, by initial status.",
	}, []string{"status"})

	OrderTransitions = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "orders",
		Name:      "transitions_total",
		Help:      "Accepted order status changes.",
	}, []string{"from", "to"})

	// AuthAttempts is labelled "success" or "failure".
	AuthAttempts = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"result"})
)

func NewCounter(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return factory.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

func NewHistogram(namespace, name, help string, buckets []float64, labels []string) *prometheus.HistogramVec {
	return factory.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Help: help, Buckets: buckets}, labels)
}

func NewGauge(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return factory.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help}, labels)
}

type sizeRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (s *sizeRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *sizeRecorder) Write(b []byte) (int, error) {
	n, err := s.ResponseWriter.Write(b)
	s.size += n
	return n, err
}

// Middleware records latency, count, size and in-flight requests. The route
// label is read after the handler ran, once chi has matched the pattern.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rec := &sizeRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route, status := routePattern(r), strconv.Itoa(rec.status)
			RequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, route, status).Inc()
			ResponseSize.WithLabelValues(r.Method, route).Observe(float64(rec.size))
		})
	}
}

// Handler serves DefaultRegistry in the text and OpenMetrics formats.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{EnableOpenMetrics: true}).ServeHTTP
}

// ObserveDBQuery is meant to be deferred:
//
//	defer metrics.ObserveDBQuery("select", time.Now())
func ObserveDBQuery(operation string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// routePattern falls back to "unmatched" so 404 probes cannot grow the
// label set.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
