package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vacantes"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	applicationTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "applications",
			Name:      "transitions_total",
			Help:      "Application lifecycle operations by outcome kind.",
		},
		[]string{"operation", "outcome"},
	)

	ledgerAppendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "associations",
			Name:      "append_failures_total",
			Help:      "Association appends that failed after an accepted application was committed.",
		},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "send_total",
			Help:      "Message send attempts by outcome kind.",
		},
		[]string{"outcome"},
	)

	rateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ratelimit",
			Name:      "rejections_total",
			Help:      "Requests refused by a rate limiter.",
		},
		[]string{"scope"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		applicationTransitions,
		ledgerAppendFailures,
		messagesSent,
		rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency keyed by the matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordTransition counts one application operation. outcome is "ok" or an
// error kind name.
func RecordTransition(operation, outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	applicationTransitions.WithLabelValues(operation, outcome).Inc()
}

// RecordLedgerAppendFailure counts an association append that did not land.
func RecordLedgerAppendFailure() {
	ledgerAppendFailures.Inc()
}

// RecordMessageSend counts one send attempt.
func RecordMessageSend(outcome string) {
	if outcome == "" {
		outcome = "ok"
	}
	messagesSent.WithLabelValues(outcome).Inc()
}

// RecordRateLimited counts a refused request for scope.
func RecordRateLimited(scope string) {
	rateLimited.WithLabelValues(scope).Inc()
}
