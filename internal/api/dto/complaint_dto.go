package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest is the intake payload.
type CreateComplaintRequest struct {
	CitizenID   string `json:"citizen_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Department  string `json:"department"`
	Severity    string `json:"severity"`
}

// UpdateStatusRequest changes a complaint status.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Actor   string `json:"actor"`
}

// AssignRequest routes a complaint to a department.
type AssignRequest struct {
	Department string `json:"department"`
	Actor      string `json:"actor"`
}

// ComplaintSummary is the list-view shape.
type ComplaintSummary struct {
	ID                     string     `json:"id"`
	ReferenceKey           string     `json:"reference_key"`
	Title                  string     `json:"title"`
	Department             string     `json:"department"`
	AssignedDepartment     *string    `json:"assigned_department,omitempty"`
	Severity               string     `json:"severity"`
	Status                 string     `json:"status"`
	EscalationLevel        int        `json:"escalation_level"`
	SLADeadline            *time.Time `json:"sla_deadline,omitempty"`
	ExpectedResolutionTime *time.Time `json:"expected_resolution_time,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TimelineEventView is the timeline entry shape.
type TimelineEventView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditEntryView is the audit record shape.
type AuditEntryView struct {
	ID          string     `json:"id"`
	Actor       string     `json:"actor"`
	OldStatus   string     `json:"old_status"`
	NewStatus   string     `json:"new_status"`
	OldLevel    int        `json:"old_level"`
	NewLevel    int        `json:"new_level"`
	OldDeadline *time.Time `json:"old_deadline,omitempty"`
	NewDeadline *time.Time `json:"new_deadline,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ComplaintDetail is the detail-view shape.
type ComplaintDetail struct {
	ComplaintSummary
	Description string              `json:"description"`
	CitizenID   string              `json:"citizen_id"`
	Timeline    []TimelineEventView `json:"timeline"`
}

// FromComplaint maps the aggregate to its summary view.
func FromComplaint(c *domain.Complaint) ComplaintSummary {
	return ComplaintSummary{
		ID:                     c.ID,
		ReferenceKey:           c.ReferenceKey,
		Title:                  c.Title,
		Department:             c.Department,
		AssignedDepartment:     c.AssignedDepartment,
		Severity:               string(c.Severity),
		Status:                 string(c.Status),
		EscalationLevel:        c.EscalationLevel,
		SLADeadline:            c.SLADeadline,
		ExpectedResolutionTime: c.ExpectedResolutionTime,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

// FromTimeline maps timeline events to their view shape.
func FromTimeline(events []domain.TimelineEvent) []TimelineEventView {
	views := make([]TimelineEventView, 0, len(events))
	for _, e := range events {
		views = append(views, TimelineEventView{
			ID:        e.ID,
			Type:      string(e.Type),
			Action:    e.Action,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}
	return views
}

// FromAudit maps audit entries to their view shape.
func FromAudit(entries []domain.AuditEntry) []AuditEntryView {
	views := make([]AuditEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, AuditEntryView{
			ID:          e.ID,
			Actor:       e.Actor,
			OldStatus:   string(e.OldStatus),
			NewStatus:   string(e.NewStatus),
			OldLevel:    e.OldLevel,
			NewLevel:    e.NewLevel,
			OldDeadline: e.OldDeadline,
			NewDeadline: e.NewDeadline,
			CreatedAt:   e.CreatedAt,
		})
	}
	return views
}
