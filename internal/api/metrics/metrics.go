// Package metrics defines and registers all custom Prometheus metrics for the
// classroom persistence service. It is the single source of truth for metric
// names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "classroom"

// SubmissionsTotal counts stored submissions.
// Label:
//   - path: "sync" (direct API call) or "async" (dispatcher worker)
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Total number of submissions stored, by intake path.",
	},
	[]string{"path"},
)

// SubmissionErrorsTotal counts submissions that failed to store.
// Label:
//   - reason: short description of the failure (e.g. "store", "validation")
var SubmissionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submission_errors_total",
		Help:      "Total number of submissions that failed to store.",
	},
	[]string{"reason"},
)

// SubmissionDedupTotal counts dedup decisions on the async intake path.
// Label:
//   - result: "hit" (duplicate, dropped) or "miss" (new event, enqueued)
var SubmissionDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submission_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// SubmissionQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var SubmissionQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "submission_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// RosterTransactionsTotal counts roster membership transactions by outcome.
// Label:
//   - outcome: "committed" or "aborted"
var RosterTransactionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "roster_transactions_total",
		Help:      "Total number of roster membership transactions, by outcome.",
	},
	[]string{"outcome"},
)
