package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portfolio"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency by method and route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	// outcome is one of ok, invalid, not_found, error
	ContentOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "content_operations_total", Help: "CMS operations by collection, operation and outcome."},
		[]string{"collection", "op", "outcome"},
	)

	AIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "ai_requests_total", Help: "Text enhancement calls by action and outcome."},
		[]string{"action", "outcome"},
	)

	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "auth_logins_total", Help: "Login attempts by outcome."},
		[]string{"outcome"},
	)

	Uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "uploads_total", Help: "Image uploads by outcome."},
		[]string{"outcome"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(ContentOperations)
	reg.MustRegister(AIRequests)
	reg.MustRegister(Logins)
	reg.MustRegister(Uploads)
}
