// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Authentication outcomes.
const (
	OutcomeSuccess = "success"
)

// Notification delivery outcomes.
const (
	NotificationSent    = "sent"
	NotificationFailed  = "failed"
	NotificationDropped = "dropped"
)

// AuthAttempts counts authentication checks and logins by outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var AuthAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "taskr_auth_attempts_total",
		Help: "Total number of authentication attempts by outcome",
	},
	[]string{"outcome"},
)

// HTTPRequests counts served requests.
var HTTPRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "taskr_http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"method", "route", "status"},
)

// HTTPDuration observes request latency.
var HTTPDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "taskr_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// Notifications counts account notifications by type and outcome.
var Notifications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "taskr_notifications_total",
		Help: "Total number of account notifications by outcome",
	},
	[]string{"type", "outcome"},
)

// RegisterMetrics registers all collectors with reg.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(AuthAttempts)
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(HTTPDuration)
	reg.MustRegister(Notifications)
}

// RecordAuthAttempt increments the authentication counter. outcome is
// OutcomeSuccess or a failure reason.
func RecordAuthAttempt(outcome string) {
	AuthAttempts.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one served request. route is the route pattern,
// not the raw path, to bound label cardinality.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, statusClass(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordNotification increments the notification counter.
func RecordNotification(notificationType, outcome string) {
	Notifications.WithLabelValues(notificationType, outcome).Inc()
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
