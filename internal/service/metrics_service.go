package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/dsa-enrollment-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	sessionLatency    *prometheus.HistogramVec
	sessionMisses     prometheus.Counter
	formSubmissions   *prometheus.CounterVec
	fieldErrors       *prometheus.CounterVec
	paymentsCompleted *prometheus.CounterVec
	paymentsInFlight  prometheus.Gauge
	catalogQuery      *prometheus.HistogramVec

	requestCount         uint64
	requestDurationTotal uint64
	submissionCount      uint64
	paymentCount         uint64
	inFlight             int64
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

	sessionLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "form_session_store_seconds",
		Help:    "Latency of form session store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})

	sessionMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "form_session_misses_total",
		Help: "Lookups of unknown or expired form sessions",
	})

	formSubmissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "form_submissions_total",
		Help: "Form submit attempts by form and outcome",
	}, []string{"form", "outcome"})

	fieldErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "form_field_errors_total",
		Help: "Validation failures by form and field",
	}, []string{"form", "field"})

	paymentsCompleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_completed_total",
		Help: "Simulated payments that reached the submitted state",
	}, []string{"method", "via"})

	paymentsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "payments_processing",
		Help: "Payments currently in the processing state",
	})

	catalogQuery := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sessionLatency, sessionMisses, formSubmissions, fieldErrors,
		paymentsCompleted, paymentsInFlight, catalogQuery, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		sessionLatency:    sessionLatency,
		sessionMisses:     sessionMisses,
		formSubmissions:   formSubmissions,
		fieldErrors:       fieldErrors,
		paymentsCompleted: paymentsCompleted,
		paymentsInFlight:  paymentsInFlight,
		catalogQuery:      catalogQuery,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
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

// ObserveSessionStore records a session store round trip. miss marks lookups that found nothing.
func (m *MetricsService) ObserveSessionStore(op string, miss bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.sessionLatency.WithLabelValues(op).Observe(duration.Seconds())
	if miss {
		m.sessionMisses.Inc()
	}
}

// RecordSubmission counts a submit attempt and the fields that failed it.
func (m *MetricsService) RecordSubmission(kind models.FormKind, errs models.ValidationErrors) {
	if m == nil {
		return
	}
	outcome := "accepted"
	if len(errs) > 0 {
		outcome = "invalid"
	}
	m.formSubmissions.WithLabelValues(string(kind), outcome).Inc()
	for field := range errs {
		m.fieldErrors.WithLabelValues(string(kind), field).Inc()
	}
	atomic.AddUint64(&m.submissionCount, 1)
}

// PaymentStarted marks a payment entering processing.
func (m *MetricsService) PaymentStarted() {
	if m == nil {
		return
	}
	m.paymentsInFlight.Inc()
	atomic.AddInt64(&m.inFlight, 1)
}

// PaymentStopped marks a payment leaving processing without completing.
func (m *MetricsService) PaymentStopped() {
	if m == nil {
		return
	}
	m.paymentsInFlight.Dec()
	atomic.AddInt64(&m.inFlight, -1)
}

// PaymentCompleted marks a processing payment as paid.
func (m *MetricsService) PaymentCompleted(method models.PaymentMethod, via models.ProcessingVia) {
	if m == nil {
		return
	}
	m.PaymentStopped()
	m.paymentsCompleted.WithLabelValues(string(method), string(via)).Inc()
	atomic.AddUint64(&m.paymentCount, 1)
}

// ObserveCatalogQuery records catalog lookup timing.
func (m *MetricsService) ObserveCatalogQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.catalogQuery.WithLabelValues(label).Observe(duration.Seconds())
}

// Snapshot returns aggregated counters for the readiness endpoint.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return models.MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		SubmissionsTotal:         atomic.LoadUint64(&m.submissionCount),
		PaymentsCompleted:        atomic.LoadUint64(&m.paymentCount),
		PaymentsProcessing:       atomic.LoadInt64(&m.inFlight),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
