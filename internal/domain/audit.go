package domain

import "time"

// ActorSystem is the actor recorded for watchdog-driven changes.
const ActorSystem = "system"

// AuditEntry is an immutable structured change record.
type AuditEntry struct {
	ID          string
	ComplaintID string
	Actor       string
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	OldLevel    int
	NewLevel    int
	OldDeadline *time.Time
	NewDeadline *time.Time
	CreatedAt   time.Time
}
