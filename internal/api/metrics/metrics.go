// Package metrics defines and registers the Prometheus metrics of the station
// session client. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import and
// are served by the local API at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "station"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionValidationsTotal counts session gate decisions.
// Labels:
//   - source: "local", "server" or "error"
//   - result: "valid", "no_session", "expired", "rejected", "network_error"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of session validations, by verdict source and result.",
	},
	[]string{"source", "result"},
)

// SessionRefreshTotal counts background refresh attempts.
// Label:
//   - result: "ok", "no_session", "expired", "rejected", "network_error"
var SessionRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_refresh_total",
		Help:      "Total number of background session refreshes, by result.",
	},
	[]string{"result"},
)

// Authenticated is 1 while a staff member is signed in on this station.
var Authenticated = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "authenticated",
		Help:      "Whether a staff member is currently authenticated (1) or not (0).",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "network_error", "malformed_response"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logouts. Local state is always cleared; the label says
// whether the remote call went through.
// Label:
//   - remote: "ok" or "failed"
var LogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logouts, by outcome of the best-effort remote call.",
	},
	[]string{"remote"},
)

// RemoteAuthDuration measures round trips to the remote auth service.
// Label:
//   - operation: "login", "logout" or "verify"
var RemoteAuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_auth_duration_seconds",
		Help:      "Duration of calls to the remote auth service.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"operation"},
)
