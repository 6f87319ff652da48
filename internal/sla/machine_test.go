package sla

import (
	"testing"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func TestNextTransition(t *testing.T) {
	tests := []struct {
		name       string
		current    domain.ComplaintStatus
		wantOK     bool
		wantStatus domain.ComplaintStatus
		wantLevel  int
		wantAction string
	}{
		{
			name:       "submitted gets a warning",
			current:    domain.StatusSubmitted,
			wantOK:     true,
			wantStatus: domain.StatusSLAWarning,
			wantLevel:  1,
			wantAction: domain.TimelineActionSLAWarning,
		},
		{
			name:       "analyzed gets a warning",
			current:    domain.StatusAnalyzed,
			wantOK:     true,
			wantStatus: domain.StatusSLAWarning,
			wantLevel:  1,
			wantAction: domain.TimelineActionSLAWarning,
		},
		{
			name:       "in_progress gets a warning",
			current:    domain.StatusInProgress,
			wantOK:     true,
			wantStatus: domain.StatusSLAWarning,
			wantLevel:  1,
			wantAction: domain.TimelineActionSLAWarning,
		},
		{
			name:       "warning escalates",
			current:    domain.StatusSLAWarning,
			wantOK:     true,
			wantStatus: domain.StatusEscalated,
			wantLevel:  2,
			wantAction: domain.TimelineActionEscalated,
		},
		{name: "escalated never transitions", current: domain.StatusEscalated, wantOK: false},
		{name: "resolved never transitions", current: domain.StatusResolved, wantOK: false},
		{name: "assigned never transitions", current: domain.StatusAssigned, wantOK: false},
		{name: "acknowledged never transitions", current: domain.StatusAcknowledged, wantOK: false},
		{name: "on_hold never transitions", current: domain.StatusOnHold, wantOK: false},
		{name: "unknown status never transitions", current: domain.ComplaintStatus("bogus"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transition, ok := NextTransition(tt.current)
			if ok != tt.wantOK {
				t.Fatalf("NextTransition(%q) ok = %v, want %v", tt.current, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if transition.NextStatus != tt.wantStatus {
				t.Errorf("NextStatus = %q, want %q", transition.NextStatus, tt.wantStatus)
			}
			if transition.NextLevel != tt.wantLevel {
				t.Errorf("NextLevel = %d, want %d", transition.NextLevel, tt.wantLevel)
			}
			if transition.Action != tt.wantAction {
				t.Errorf("Action = %q, want %q", transition.Action, tt.wantAction)
			}
		})
	}
}

func TestTransitionsOnlyMoveForward(t *testing.T) {
	// Every reachable edge terminates in at most two hops; there is no path
	// back into any source status.
	for source, transition := range transitions {
		if transition.NextStatus == source {
			t.Errorf("status %q transitions to itself", source)
		}
		if transition.NextLevel < 1 {
			t.Errorf("status %q transitions to level %d, want >= 1", source, transition.NextLevel)
		}
		second, ok := NextTransition(transition.NextStatus)
		if !ok {
			continue
		}
		if _, loops := transitions[second.NextStatus]; loops {
			t.Errorf("path from %q does not terminate within two hops", source)
		}
		if second.NextLevel <= transition.NextLevel {
			t.Errorf("level does not increase along path from %q", source)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if !IsTerminal(domain.StatusEscalated) || !IsTerminal(domain.StatusResolved) {
		t.Error("escalated and resolved must be watchdog fixed points")
	}
	for _, status := range domain.ActiveStatuses {
		if IsTerminal(status) {
			t.Errorf("active status %q reported terminal", status)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Second)
	future := now.Add(time.Second)

	tests := []struct {
		name      string
		deadline  *time.Time
		expected  *time.Time
		wantValue bool
	}{
		{name: "deadline in the past", deadline: &past, wantValue: true},
		{name: "deadline exactly now is not overdue", deadline: &now, wantValue: false},
		{name: "deadline in the future", deadline: &future, wantValue: false},
		{name: "falls back to expected resolution time", expected: &past, wantValue: true},
		{name: "deadline preferred over expected", deadline: &future, expected: &past, wantValue: false},
		{name: "no deadline at all", wantValue: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			complaint := &domain.Complaint{
				SLADeadline:            tt.deadline,
				ExpectedResolutionTime: tt.expected,
			}
			if got := IsOverdue(complaint, now); got != tt.wantValue {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.wantValue)
			}
		})
	}
}
