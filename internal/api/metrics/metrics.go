// Package metrics defines the custom Prometheus metrics of the tasks service.
// It is the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace prefixes every metric of the service.
	Namespace = "tasks"
	// Subsystem groups the HTTP request metrics recorded by echoprometheus.
	Subsystem = "http"
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts newly created users.
// Label:
//   - status: the initial user status (e.g. "active")
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created, by initial status.",
	},
	[]string{"status"},
)

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCreatedTotal counts newly created tasks.
var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

// ── Mutation metrics ──────────────────────────────────────────────────────────

// StatusUpdatesTotal counts committed status and premium changes.
// Labels:
//   - entity: "user" or "task"
//   - status: the new value (e.g. "deleted", "done", "premium")
var StatusUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "status_updates_total",
		Help:      "Total number of committed status changes, by entity and new value.",
	},
	[]string{"entity", "status"},
)

// MutationDuration measures how long a transactional mutation takes, from
// begin to commit or rollback.
// Labels:
//   - operation: service operation name (e.g. "create_task")
//   - result: "ok" or "error"
var MutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "mutation_duration_seconds",
		Help:      "Duration of transactional mutations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "result"},
)

// ── Collaborator metrics ──────────────────────────────────────────────────────

// IdempotentReplaysTotal counts create requests answered from the
// idempotency store.
// Label:
//   - entity: "user" or "task"
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests served as idempotent replays.",
	},
	[]string{"entity"},
)

// DegradedCallsTotal counts failures of optional collaborators that were
// logged and skipped.
// Label:
//   - collaborator: "audit" or "idempotency"
var DegradedCallsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "degraded_calls_total",
		Help:      "Total number of failed calls to optional collaborators.",
	},
	[]string{"collaborator"},
)
