// Package metrics defines and registers all custom Prometheus metrics
// for the access-control service. It is the single source of truth for
// metric names, labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "accesskeep"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// AuthzDecisionsTotal counts permission-check outcomes.
// Labels:
//   - result: "allowed" or "denied"
//   - reason: empty when allowed; "permission_unknown" or
//     "permission_missing" when denied
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of authorization decisions, labelled by result and denial reason.",
	},
	[]string{"result", "reason"},
)

// GuardViolationsTotal counts privilege-escalation guard denials.
// Label:
//   - rule: "rank_ceiling", "superadmin_undeletable", "self_deletion",
//     or "system_role_immutable"
var GuardViolationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_violations_total",
		Help:      "Total number of privilege-escalation guard denials, labelled by rule.",
	},
	[]string{"rule"},
)
