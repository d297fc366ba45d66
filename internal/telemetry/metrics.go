// Package telemetry provides application-level observability for the Filmcounts gateway.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<FC_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090. The endpoint returns data in the Prometheus text exposition
// format and is intended to be scraped by a Prometheus server every 15–60 seconds.
// It is NOT served by the Gin router, so it stays off the public ingress and out
// of the rate-limiting middleware.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Upstream platform API call counters and latency, by domain namespace and envelope convention
//   - Store action counters, by store and outcome
//   - Session gauges and sweep counters
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/v1/budgets/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as entity IDs or search terms.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/v1/suppliers/:id),
// NOT the raw URL, to prevent unbounded cardinality.
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and
// exponential-ish buckets from 5 ms to 30 s.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Upstream platform API metrics — recorded by the upstream client on every
// proxied call to the remote Filmcounts platform.
//
// UpstreamRequestsTotal is a CounterVec with labels {domain, convention, outcome}.
// domain is the endpoint namespace (um, org, content, budget, at, configs);
// convention is the success-envelope convention used to interpret the response
// (http_status or response_code); outcome is one of success, failure, error
// (failure = well-formed business rejection, error = transport/parse problem).
//
// Example PromQL queries:
//   - Upstream error rate:        sum(rate(upstream_requests_total{outcome="error"}[5m]))
//   - Failures by namespace:      sum by (domain) (rate(upstream_requests_total{outcome="failure"}[5m]))
//
// UpstreamRequestDuration is a HistogramVec with label {domain} using the
// default Prometheus buckets.
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of calls to the Filmcounts platform API, by domain namespace, envelope convention, and outcome.",
		},
		[]string{"domain", "convention", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Duration of calls to the Filmcounts platform API, by domain namespace.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"domain"},
	)
)

// Store metrics.
//
// StoreActionsTotal is a CounterVec with labels {store, action, outcome}
// incremented once per store method invocation. outcome is success, failure,
// or unauthenticated (the access-token preflight short-circuit).
//
// Example PromQL queries:
//   - Preflight rejections:  sum by (store) (rate(store_actions_total{outcome="unauthenticated"}[5m]))
//   - Busiest stores:        topk(5, sum by (store) (rate(store_actions_total[1h])))
var StoreActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "store_actions_total",
		Help: "Total number of store action invocations, by store, action, and outcome.",
	},
	[]string{"store", "action", "outcome"},
)

// Session metrics — maintained by the session manager and the sweeper job.
//
// ActiveSessions is a Gauge holding the number of sessions currently tracked
// by the session manager. SessionsSweptTotal counts sessions evicted by the
// background sweeper (expired token or idle TTL exceeded).
//
// Example PromQL queries:
//   - Session churn:  rate(sessions_swept_total[1h])
//   - Alert on runaway session growth: active_sessions > <FC_SESSIONS_MAX_SESSIONS> * 0.9
var (
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_sessions",
			Help: "Current number of sessions tracked by the session manager.",
		},
	)

	SessionsSweptTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_swept_total",
			Help: "Total number of sessions evicted by the background sweeper.",
		},
	)
)
