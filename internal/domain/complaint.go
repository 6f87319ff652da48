package domain

import "time"

// ComplaintStatus enumerates lifecycle states for citizen complaints.
type ComplaintStatus string

const (
	StatusSubmitted    ComplaintStatus = "submitted"
	StatusAnalyzed     ComplaintStatus = "analyzed"
	StatusAssigned     ComplaintStatus = "assigned"
	StatusAcknowledged ComplaintStatus = "acknowledged"
	StatusInProgress   ComplaintStatus = "in_progress"
	StatusOnHold       ComplaintStatus = "on_hold"
	StatusSLAWarning   ComplaintStatus = "sla_warning"
	StatusEscalated    ComplaintStatus = "escalated"
	StatusResolved     ComplaintStatus = "resolved"
)

// ComplaintSeverity enumerates triage severity.
type ComplaintSeverity string

const (
	SeverityLow      ComplaintSeverity = "low"
	SeverityMedium   ComplaintSeverity = "medium"
	SeverityHigh     ComplaintSeverity = "high"
	SeverityCritical ComplaintSeverity = "critical"
)

// ActiveStatuses lists the non-terminal statuses eligible for SLA enforcement.
var ActiveStatuses = []ComplaintStatus{
	StatusSubmitted,
	StatusAnalyzed,
	StatusAssigned,
	StatusAcknowledged,
	StatusInProgress,
	StatusOnHold,
	StatusSLAWarning,
}

// Complaint is the aggregate for citizen-submitted complaints.
type Complaint struct {
	ID                     string
	ReferenceKey           string
	CitizenID              string
	Title                  string
	Description            string
	Department             string
	AssignedDepartment     *string
	Severity               ComplaintSeverity
	Status                 ComplaintStatus
	EscalationLevel        int
	SLADeadline            *time.Time
	ExpectedResolutionTime *time.Time
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// EffectiveDeadline returns the authoritative SLA deadline: the dedicated
// deadline field when populated, otherwise the expected resolution time.
// The second return value is false when neither is set.
func (c *Complaint) EffectiveDeadline() (time.Time, bool) {
	if c.SLADeadline != nil {
		return *c.SLADeadline, true
	}
	if c.ExpectedResolutionTime != nil {
		return *c.ExpectedResolutionTime, true
	}
	return time.Time{}, false
}

// IsValidStatus reports whether the value is part of the closed status enum.
func IsValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusSubmitted, StatusAnalyzed, StatusAssigned, StatusAcknowledged,
		StatusInProgress, StatusOnHold, StatusSLAWarning, StatusEscalated, StatusResolved:
		return true
	}
	return false
}

// IsValidSeverity reports whether the value is part of the severity enum.
func IsValidSeverity(s ComplaintSeverity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}
