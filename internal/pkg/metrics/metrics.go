// Package metrics defines and registers the custom Prometheus metrics of the
// web BFF. It is the single source of truth for metric names, labels and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bff"

// Subsystem is the echoprometheus subsystem for HTTP request metrics.
const Subsystem = "http"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthenticationsTotal counts bearer token checks performed by the gate.
// Label:
//   - result: "authenticated", "no_token", "malformed", "bad_signature",
//     "unknown_principal", "expired", "role_mismatch"
var AuthenticationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authentications_total",
		Help:      "Total number of bearer token checks, by result.",
	},
	[]string{"result"},
)

// ── Upstream metrics ──────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts outbound calls to the account API.
// Labels:
//   - operation: "get_account" or "get_transactions"
//   - outcome: "ok", "not_found", "forbidden", "unreachable", "error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of upstream account API calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// UpstreamRequestDuration measures outbound call latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of upstream account API calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Aggregation metrics ───────────────────────────────────────────────────────

// SummariesTotal counts account summaries served.
// Label:
//   - outcome: same values as UpstreamRequestsTotal's outcome
var SummariesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "summaries_total",
		Help:      "Total number of account summaries served, by outcome.",
	},
	[]string{"outcome"},
)
