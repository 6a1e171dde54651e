package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry holds every collector exposed on /api/metrics
	Registry = prometheus.NewRegistry()

	factory = promauto.With(Registry)

	// Histogram buckets for BookIt API calls, which are slow and sometimes hang
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// BookIt API client metrics
	UpstreamRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookit_api_request_duration_seconds",
			Help:    "BookIt API request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"operation", "status"},
	)

	UpstreamRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_api_request_total",
			Help: "Total number of BookIt API requests",
		},
		[]string{"operation", "status"},
	)

	// Business Metrics
	LoginAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	Registrations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_registrations_total",
			Help: "Account registrations by outcome",
		},
		[]string{"outcome"},
	)

	RegistrationEndpointAttempts = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookit_registration_endpoint_attempts",
			Help:    "Number of endpoint shapes tried per registration",
			Buckets: []float64{1, 2, 3, 4},
		},
	)

	PasswordResetRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_password_reset_requests_total",
			Help: "Password recovery requests by outcome",
		},
		[]string{"outcome"},
	)

	AccountVerifications = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_account_verifications_total",
			Help: "Account verification requests by outcome",
		},
		[]string{"outcome"},
	)

	SchoolLinks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookit_school_links_total",
			Help: "School link requests by outcome",
		},
		[]string{"outcome"},
	)

	SchoolDetailFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "bookit_school_detail_failures_total",
			Help: "Linked school detail lookups dropped from dashboard results",
		},
	)

	RouteGuardRedirects = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "bookit_route_guard_redirects_total",
			Help: "Protected page requests redirected for lack of a session",
		},
	)

	CircuitBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookit_circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"breaker"},
	)

	// Infrastructure Metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// Init registers runtime collectors and the build info gauge for serviceName
func Init(serviceName string) {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	buildInfo := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookit_build_info",
			Help: "Service identification",
		},
		[]string{"service_name"},
	)
	buildInfo.WithLabelValues(serviceName).Set(1)
}

// RecordInfrastructureMetrics collects infrastructure metrics periodically
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
