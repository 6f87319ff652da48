package sla

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Transition is the computed next state for an overdue complaint.
type Transition struct {
	NextStatus domain.ComplaintStatus
	NextLevel  int
	Action     string
	Message    string
}

// transitions is the one-way escalation graph. It is deliberately small:
// evaluating the same complaint in two overlapping scan cycles can advance
// its state at most once per breach interval and can never downgrade it.
var transitions = map[domain.ComplaintStatus]Transition{
	domain.StatusSubmitted: {
		NextStatus: domain.StatusSLAWarning,
		NextLevel:  1,
		Action:     domain.TimelineActionSLAWarning,
		Message:    "SLA deadline missed; complaint flagged with a service-level warning.",
	},
	domain.StatusAnalyzed: {
		NextStatus: domain.StatusSLAWarning,
		NextLevel:  1,
		Action:     domain.TimelineActionSLAWarning,
		Message:    "SLA deadline missed; complaint flagged with a service-level warning.",
	},
	domain.StatusInProgress: {
		NextStatus: domain.StatusSLAWarning,
		NextLevel:  1,
		Action:     domain.TimelineActionSLAWarning,
		Message:    "SLA deadline missed; complaint flagged with a service-level warning.",
	},
	domain.StatusSLAWarning: {
		NextStatus: domain.StatusEscalated,
		NextLevel:  2,
		Action:     domain.TimelineActionEscalated,
		Message:    "SLA warning deadline missed; complaint escalated.",
	},
}

// NextTransition returns the escalation step for the given status, or false
// when the status never transitions under the watchdog.
func NextTransition(current domain.ComplaintStatus) (Transition, bool) {
	t, ok := transitions[current]
	return t, ok
}

// IsTerminal reports whether the status is a watchdog fixed point. Terminal
// complaints are skipped before transition lookup.
func IsTerminal(status domain.ComplaintStatus) bool {
	return status == domain.StatusEscalated || status == domain.StatusResolved
}

// IsOverdue reports whether the complaint's effective deadline is strictly
// in the past. Complaints without any deadline are never overdue.
func IsOverdue(c *domain.Complaint, now time.Time) bool {
	deadline, ok := c.EffectiveDeadline()
	if !ok {
		return false
	}
	return now.After(deadline)
}
