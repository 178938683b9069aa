package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scheduler engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	runTotal        *prometheus.CounterVec
	generations     prometheus.Counter
	restarts        prometheus.Counter
	evaluations     prometheus.Counter
}

// NewMetricsService registers the collectors on a private registry.
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

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Wall-clock duration of scheduling runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
	}, []string{"status"})

	runTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total scheduling runs by terminal status",
	}, []string{"status"})

	generations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_generations_total",
		Help: "Total generations evolved across all runs",
	})

	restarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_population_restarts_total",
		Help: "Total population restarts across all runs",
	})

	evaluations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_evaluations_total",
		Help: "Total standalone schedule evaluations",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runDuration, runTotal, generations, restarts, evaluations, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runDuration:     runDuration,
		runTotal:        runTotal,
		generations:     generations,
		restarts:        restarts,
		evaluations:     evaluations,
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

// ObserveRun records one finished scheduling run.
func (m *MetricsService) ObserveRun(status string, seconds float64, generations, restarts int) {
	if m == nil {
		return
	}
	m.runDuration.WithLabelValues(status).Observe(seconds)
	m.runTotal.WithLabelValues(status).Inc()
	m.generations.Add(float64(generations))
	m.restarts.Add(float64(restarts))
}

// ObserveEvaluation counts one standalone evaluation.
func (m *MetricsService) ObserveEvaluation() {
	if m == nil {
		return
	}
	m.evaluations.Inc()
}
