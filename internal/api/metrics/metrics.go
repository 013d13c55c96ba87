// Package metrics defines and registers all custom Prometheus metrics for
// the parking API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at init time via
// promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "parking"

// ── Movement metrics ─────────────────────────────────────────────────────────

// EntriesTotal counts recorded vehicle entries.
// Label:
//   - zone: the assigned zone ("A", "B", "C", "VIP") or "none"
var EntriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_total",
		Help:      "Total number of vehicle entries recorded.",
	},
	[]string{"zone"},
)

// ExitsTotal counts recorded vehicle exits.
// Label:
//   - result: "ok" (fee stamped) or "no_rate" (exit persisted without fee)
var ExitsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exits_total",
		Help:      "Total number of vehicle exits recorded, by fee outcome.",
	},
	[]string{"result"},
)

// ── Payment metrics ──────────────────────────────────────────────────────────

// PaymentsTotal counts successful settlements.
// Labels:
//   - type: "on_spot" or "user_account"
//   - method: "cash", "card" or "credit"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of settled parking payments.",
	},
	[]string{"type", "method"},
)

// RevenueCentsTotal accumulates settled revenue in cents.
var RevenueCentsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "revenue_cents_total",
		Help:      "Total settled revenue in cents.",
	},
)

// ── Gate feed metrics ────────────────────────────────────────────────────────

// GateProcessedTotal counts gate events that completed processing.
// Label:
//   - direction: "entry" or "exit"
var GateProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_events_processed_total",
		Help:      "Total number of gate events successfully processed.",
	},
	[]string{"direction"},
)

// GateErrorsTotal counts gate events that failed processing.
// Label:
//   - reason: short failure description (e.g. "session_not_found")
var GateErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_events_errors_total",
		Help:      "Total number of gate events that failed processing.",
	},
	[]string{"reason"},
)

// GateDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var GateDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_events_dedup_total",
		Help:      "Total number of gate-event deduplication checks, by result.",
	},
	[]string{"result"},
)

// GateQueueDepth tracks events waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index ("0", "1", …)
var GateQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gate_events_queue_depth",
		Help:      "Current number of gate events pending in each worker channel.",
	},
	[]string{"worker_id"},
)

// GateProcessingDuration measures end-to-end gate event processing time.
// Label:
//   - direction: "entry" or "exit"
var GateProcessingDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gate_event_processing_duration_seconds",
		Help:      "Duration of gate event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"direction"},
)
