package api

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpMetricsOnce sync.Once

	apiRequestDuration *prometheus.HistogramVec
	apiRequestTotal    *prometheus.CounterVec

	upstreamRequestTotal    *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
)

func initHTTPMetrics() {
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "magellan",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration observed at the API layer.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	apiRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magellan",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled by the API.",
		},
		[]string{"method", "route", "status"},
	)

	upstreamRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "magellan",
			Subsystem: "chargebee",
			Name:      "requests_total",
			Help:      "Total number of Chargebee API calls by outcome.",
		},
		[]string{"outcome"},
	)

	upstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "magellan",
			Subsystem: "chargebee",
			Name:      "request_duration_seconds",
			Help:      "Duration of Chargebee API calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(apiRequestDuration, apiRequestTotal, upstreamRequestTotal, upstreamRequestDuration)
}

func recordAPIRequest(method, route string, status int, elapsed time.Duration) {
	httpMetricsOnce.Do(initHTTPMetrics)

	statusCode := strconv.Itoa(status)
	apiRequestDuration.WithLabelValues(method, route, statusCode).Observe(elapsed.Seconds())
	apiRequestTotal.WithLabelValues(method, route, statusCode).Inc()
}

func recordUpstreamRequest(outcome string, elapsed time.Duration) {
	httpMetricsOnce.Do(initHTTPMetrics)

	upstreamRequestTotal.WithLabelValues(outcome).Inc()
	upstreamRequestDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// normalizeRoute keeps metric label cardinality bounded by collapsing unknown
// paths into a static-asset bucket.
func normalizeRoute(path string) string {
	switch {
	case path == "/api/health",
		path == "/api/version",
		path == "/api/catalog",
		path == "/api/catalog/search",
		path == "/api/pricing/session":
		return path
	case strings.HasPrefix(path, "/api/"):
		return "/api/other"
	default:
		return "/static"
	}
}
