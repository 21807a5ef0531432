package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a compact view of the counters, served by /health.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ScansTotal               uint64    `json:"scans_total"`
	ScansDropped             uint64    `json:"scans_dropped"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation for the client
// workflows and the sandbox backend.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	outboundDuration *prometheus.HistogramVec
	scanOutcomes     *prometheus.CounterVec
	confirmations    *prometheus.CounterVec
	dbQueryDuration  *prometheus.HistogramVec

	requestCount         uint64
	requestDurationTotal uint64
	scanCount            uint64
	scanDropped          uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	outboundDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of requests sent to the school backend",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	scanOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_scans_total",
		Help: "Scan events by outcome",
	}, []string{"outcome"})

	confirmations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "confirmation_changes_total",
		Help: "Confirmation status changes by requested status and result",
	}, []string{"status", "result"})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, outboundDuration, scanOutcomes, confirmations, dbQueryDuration, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		outboundDuration: outboundDuration,
		scanOutcomes:     scanOutcomes,
		confirmations:    confirmations,
		dbQueryDuration:  dbQueryDuration,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveOutboundRequest records a call to the backend. status is 0 when no
// response arrived.
func (m *MetricsService) ObserveOutboundRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.outboundDuration.WithLabelValues(method, route, fmt.Sprintf("%d", status)).Observe(duration.Seconds())
}

// RecordScan counts a scan event by outcome.
func (m *MetricsService) RecordScan(outcome ScanOutcome) {
	if m == nil {
		return
	}
	m.scanOutcomes.WithLabelValues(string(outcome)).Inc()
	atomic.AddUint64(&m.scanCount, 1)
	if outcome == ScanDropped {
		atomic.AddUint64(&m.scanDropped, 1)
	}
}

// RecordConfirmation counts a confirmation attempt.
func (m *MetricsService) RecordConfirmation(status string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.confirmations.WithLabelValues(status, result).Inc()
}

// ObserveDBQuery records database query timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// Snapshot returns aggregated counters.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ScansTotal:               atomic.LoadUint64(&m.scanCount),
		ScansDropped:             atomic.LoadUint64(&m.scanDropped),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
