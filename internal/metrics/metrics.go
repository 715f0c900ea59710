package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	SignedURLs        *prometheus.CounterVec
	AccessLogFailures prometheus.Counter
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SignedURLs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "video_signed_urls_total",
				Help: "Total number of signed video URL requests by result",
			},
			[]string{"result"},
		),
		AccessLogFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "video_access_log_failures_total",
				Help: "Total number of video access events that could not be stored",
			},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"handler", "method"},
		),
	}

	reg.MustRegister(m.SignedURLs, m.AccessLogFailures, m.RequestsTotal, m.RequestDuration)
	return m
}

func (m *Metrics) SignedURLIssued() {
	if m != nil {
		m.SignedURLs.WithLabelValues("issued").Inc()
	}
}

func (m *Metrics) SignedURLFailed() {
	if m != nil {
		m.SignedURLs.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) AccessLogFailed() {
	if m != nil {
		m.AccessLogFailures.Inc()
	}
}

// Instrument wraps next with request count and latency collection.
func (m *Metrics) Instrument(handlerName string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		m.RequestDuration.WithLabelValues(handlerName, r.Method).Observe(time.Since(start).Seconds())
		m.RequestsTotal.WithLabelValues(handlerName, r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

// responseWriter captures the status code written by the handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
