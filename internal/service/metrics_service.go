package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API:
// HTTP traffic, session-resolution cache behaviour and identifier
// generation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	resolveDuration *prometheus.HistogramVec
	codesGenerated  *prometheus.CounterVec
	codeRetries     *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_cache_hits_total",
		Help: "Resolved sessions served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_cache_misses_total",
		Help: "Session resolutions that went to the database",
	})

	resolveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "session_resolve_duration_seconds",
		Help:    "Duration of session resolution per outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	codesGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identifiers_generated_total",
		Help: "Identifiers issued per kind",
	}, []string{"kind"})

	codeRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identifier_retries_total",
		Help: "Collision retries during identifier generation per kind",
	}, []string{"kind"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, resolveDuration, codesGenerated, codeRetries, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		resolveDuration: resolveDuration,
		codesGenerated:  codesGenerated,
		codeRetries:     codeRetries,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordSessionCache records a cache hit or miss during session resolution.
func (m *MetricsService) RecordSessionCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveSessionResolve records how long a resolution took and which
// priority step produced the result ("individual", "scoped", "component",
// "none").
func (m *MetricsService) ObserveSessionResolve(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.resolveDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordCodeGenerated counts one issued identifier of the given kind.
func (m *MetricsService) RecordCodeGenerated(kind string) {
	if m == nil {
		return
	}
	m.codesGenerated.WithLabelValues(kind).Inc()
}

// RecordCodeRetry counts a collision retry for the given kind.
func (m *MetricsService) RecordCodeRetry(kind string) {
	if m == nil {
		return
	}
	m.codeRetries.WithLabelValues(kind).Inc()
}
