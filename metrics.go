package fetchx

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline. It is safe for
// concurrent use and every method is a no-op on a nil receiver.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	errorsTotal *prometheus.CounterVec

	interceptorRuns *prometheus.CounterVec

	rateLimitWait *prometheus.HistogramVec

	registry prometheus.Registerer
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)
	return &MetricsCollector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_requests_total",
				Help: "Total number of HTTP requests completed",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchx_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fetchx_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_errors_total",
				Help: "Total number of failed requests by error code",
			},
			[]string{"code", "method", "endpoint"},
		),
		interceptorRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_interceptor_runs_total",
				Help: "Total number of interceptor chain executions by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		rateLimitWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchx_rate_limit_wait_seconds",
				Help:    "Time spent waiting for the client-side rate limiter",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		registry: registry,
	}
}

// RecordRequest records request count and duration.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, statusCodeStr, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, statusCodeStr, endpoint).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordError increments the error counter. Unclassified errors are counted under
// the code "unknown".
func (mc *MetricsCollector) RecordError(code, method, endpoint string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(code, method, endpoint).Inc()
}

// RecordInterceptorRun counts one chain execution of stage ("request" or "response").
func (mc *MetricsCollector) RecordInterceptorRun(stage string, err error) {
	if mc == nil {
		return
	}

	outcome := "fulfilled"
	if err != nil {
		outcome = "rejected"
	}
	mc.interceptorRuns.WithLabelValues(stage, outcome).Inc()
}

// RecordRateLimitWait observes time spent blocked on the rate limiter.
func (mc *MetricsCollector) RecordRateLimitWait(endpoint string, wait time.Duration) {
	if mc == nil {
		return
	}

	mc.rateLimitWait.WithLabelValues(endpoint).Observe(wait.Seconds())
}

// GetRegistry exposes the registerer the collector was created with.
func (mc *MetricsCollector) GetRegistry() prometheus.Registerer {
	return mc.registry
}
