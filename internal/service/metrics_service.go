package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the sync engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	judgeFetchTotal *prometheus.CounterVec
	judgeFetchTime  *prometheus.HistogramVec
	syncTotal       *prometheus.CounterVec
	syncDuration    prometheus.Histogram
	batchDuration   prometheus.Histogram
	batchStudents   *prometheus.CounterVec
	notifications   *prometheus.CounterVec
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

	judgeFetchTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "judge_fetch_total",
		Help: "Judge platform API calls by endpoint and result",
	}, []string{"endpoint", "result"})

	judgeFetchTime := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "judge_fetch_duration_seconds",
		Help:    "Latency of judge platform API calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	syncTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "student_sync_total",
		Help: "Per-student sync attempts by result",
	}, []string{"result"})

	syncDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "student_sync_duration_seconds",
		Help:    "Duration of a single student sync",
		Buckets: prometheus.DefBuckets,
	})

	batchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sync_batch_duration_seconds",
		Help:    "Duration of a scheduled batch run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	batchStudents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_batch_students_total",
		Help: "Students processed by scheduled batches, by outcome",
	}, []string{"outcome"})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inactivity_notifications_total",
		Help: "Inactivity notifications by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, judgeFetchTotal, judgeFetchTime, syncTotal, syncDuration, batchDuration, batchStudents, notifications, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		judgeFetchTotal: judgeFetchTotal,
		judgeFetchTime:  judgeFetchTime,
		syncTotal:       syncTotal,
		syncDuration:    syncDuration,
		batchDuration:   batchDuration,
		batchStudents:   batchStudents,
		notifications:   notifications,
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
	labels := []string{method, path, strconv.Itoa(status)}
	m.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(labels...).Inc()
}

// RecordJudgeFetch counts a judge API call and its latency.
func (m *MetricsService) RecordJudgeFetch(endpoint string, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.judgeFetchTotal.WithLabelValues(endpoint, result).Inc()
	m.judgeFetchTime.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordSyncOutcome counts a per-student sync attempt.
func (m *MetricsService) RecordSyncOutcome(success bool, duration time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	m.syncTotal.WithLabelValues(result).Inc()
	m.syncDuration.Observe(duration.Seconds())
}

// RecordBatch records the outcome of one scheduled batch run.
func (m *MetricsService) RecordBatch(succeeded, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	m.batchStudents.WithLabelValues("succeeded").Add(float64(succeeded))
	m.batchStudents.WithLabelValues("failed").Add(float64(failed))
	m.batchDuration.Observe(duration.Seconds())
}

// RecordNotification counts a notification dispatch attempt.
func (m *MetricsService) RecordNotification(result string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(result).Inc()
}
