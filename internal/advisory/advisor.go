// Package advisory wraps the external escalation-advisory service. The
// service produces a short natural-language justification for an escalation;
// it is purely advisory and callers must treat any error or empty result as
// "no justification available".
package advisory

import (
	"context"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// Request carries the read-only complaint inputs the advisory service
// reasons over.
type Request struct {
	ComplaintID    string                   `json:"complaint_id"`
	Department     string                   `json:"department"`
	Severity       domain.ComplaintSeverity `json:"severity"`
	Status         domain.ComplaintStatus   `json:"status"`
	ElapsedSeconds int64                    `json:"elapsed_seconds"`
}

// Advisor requests an escalation justification. Implementations may block
// for an unbounded time; callers own the timeout.
type Advisor interface {
	ExplainEscalation(ctx context.Context, req Request) (string, error)
}
