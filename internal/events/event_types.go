package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventSLAEscalation          EventType = "sla_escalation"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID string      `json:"complaint_id"`
	Actor       string      `json:"actor"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	ReferenceKey string                   `json:"reference_key"`
	Department   string                   `json:"department"`
	Severity     domain.ComplaintSeverity `json:"severity"`
	Title        string                   `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Comment   string                 `json:"comment,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	Department string `json:"department"`
}

// SLAEscalationPayload payload.
type SLAEscalationPayload struct {
	OldStatus       domain.ComplaintStatus `json:"old_status"`
	NewStatus       domain.ComplaintStatus `json:"new_status"`
	EscalationLevel int                    `json:"escalation_level"`
	NewDeadline     time.Time              `json:"new_deadline"`
}
