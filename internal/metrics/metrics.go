// Package metrics declares the Prometheus collectors of the API. They are
// registered with the default registry on import and served at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bandmates"

// RegistrationsTotal counts registration attempts.
// Labels:
//   - user_type: "musician", "band", or "unknown" when validation fails first
//   - result: "created", "invalid", "conflict", "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts by outcome.",
	},
	[]string{"user_type", "result"},
)

// LoginsTotal counts authentication attempts.
// Label:
//   - result: "success", "invalid_credentials", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of authentication attempts by outcome.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts rejected authorization checks.
// Label:
//   - reason: "unauthenticated", "forbidden"
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of requests rejected by the session gate.",
	},
	[]string{"reason"},
)

// RoomResolutionsTotal counts conversation room resolutions.
// Label:
//   - result: "created", "existing", "self_chat", "not_found", "error"
var RoomResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "room_resolutions_total",
		Help:      "Total number of direct conversation room resolutions by outcome.",
	},
	[]string{"result"},
)

// UserDeletionsTotal counts admin user deletions.
// Label:
//   - result: "deleted", "not_found", "error"
var UserDeletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_deletions_total",
		Help:      "Total number of user deletions by outcome.",
	},
	[]string{"result"},
)

// HTTPRequestDuration measures handler latency.
// Labels:
//   - method: HTTP method
//   - route: chi route pattern (e.g. "/admin/delete-user/{id}")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route and status.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
