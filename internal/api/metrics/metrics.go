// Package metrics defines and registers all custom Prometheus metrics for the
// barangay resident services API. It is the single source of truth for metric
// names, labels, and help strings. HTTP request metrics come from the
// echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "barangay"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts staff login attempts.
// Label:
//   - result: "success", "invalid_credentials", "inactive", "rate_limited" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of staff login attempts, by result.",
	},
	[]string{"result"},
)

// SessionChecksTotal counts validate/get-session checks.
// Label:
//   - result: "valid", "invalid" or "error"
var SessionChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_checks_total",
		Help:      "Total number of session validations, by result.",
	},
	[]string{"result"},
)

// ── Certificate metrics ───────────────────────────────────────────────────────

// CertificatesSubmittedTotal counts resident submissions.
// Label:
//   - priority: "normal" or "urgent"
var CertificatesSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificates_submitted_total",
		Help:      "Total number of certificate requests submitted, by priority.",
	},
	[]string{"priority"},
)

// CertificateTransitionsTotal counts status changes applied by staff.
// Label:
//   - status: the new status
var CertificateTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificate_transitions_total",
		Help:      "Total number of certificate status transitions, by target status.",
	},
	[]string{"status"},
)

// CertificateTransitionErrorsTotal counts rejected status changes.
// Label:
//   - reason: "invalid_transition", "invalid_status", "not_found" or "error"
var CertificateTransitionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "certificate_transition_errors_total",
		Help:      "Total number of certificate status transitions that failed.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts status notifications by outcome.
// Label:
//   - result: "sent", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of status notifications, by outcome.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending notifications in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActionDuration measures how long a staff-auth action takes end-to-end.
// Label:
//   - action: the dispatched action name
var ActionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "staff_action_duration_seconds",
		Help:      "Duration of /api/staff-auth actions.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"action"},
)
