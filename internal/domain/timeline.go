package domain

import "time"

// TimelineEventType distinguishes who produced a timeline entry.
type TimelineEventType string

const (
	TimelineTypeSystem TimelineEventType = "system"
	TimelineTypeUser   TimelineEventType = "user"
)

// Timeline actions written by this service.
const (
	TimelineActionCreated            = "created"
	TimelineActionStatusChanged      = "status_changed"
	TimelineActionAssigned           = "assigned"
	TimelineActionSLAWarning         = "sla_warning"
	TimelineActionEscalated          = "escalated"
	TimelineActionAIExplanation      = "sla_ai_explanation"
	TimelineActionAIFallback         = "sla_ai_explanation_fallback"
)

// TimelineEvent is an append-only entry in a complaint's timeline.
type TimelineEvent struct {
	ID          string
	ComplaintID string
	Type        TimelineEventType
	Action      string
	Message     string
	CreatedAt   time.Time
}
