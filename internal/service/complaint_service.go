package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// ComplaintService coordinates complaint intake and workflow operations.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	timeline   repository.TimelineRepository
	audits     repository.AuditRepository
	dispatcher events.Dispatcher
	sla        config.SLAConfig
}

// ComplaintDependencies bundles repositories for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	TimelineRepo  repository.TimelineRepository
	AuditRepo     repository.AuditRepository
	Dispatcher    events.Dispatcher
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	CitizenID   string
	Title       string
	Description string
	Department  string
	Severity    domain.ComplaintSeverity
}

// ComplaintListFilter describes listing filters.
type ComplaintListFilter struct {
	CitizenID  *string
	Department *string
	Statuses   []domain.ComplaintStatus
	Severities []domain.ComplaintSeverity
	Limit      int
	Offset     int
}

// NewComplaintService constructs the service.
func NewComplaintService(slaCfg config.SLAConfig, deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints: deps.ComplaintRepo,
		timeline:   deps.TimelineRepo,
		audits:     deps.AuditRepo,
		dispatcher: deps.Dispatcher,
		sla:        slaCfg,
	}
}

// CreateComplaint registers a new complaint with an initial SLA deadline
// derived from its severity (or the accelerated demo window when active).
func (s *ComplaintService) CreateComplaint(ctx context.Context, input ComplaintCreateInput) (*domain.Complaint, error) {
	severity := input.Severity
	if severity == "" {
		severity = domain.SeverityMedium
	}
	if !domain.IsValidSeverity(severity) {
		return nil, apperrors.NewValidationError("invalid severity", map[string]any{"severity": severity})
	}

	deadline := time.Now().Add(s.initialSLAWindow(severity))
	complaint := &domain.Complaint{
		ReferenceKey:           generateReferenceKey(),
		CitizenID:              input.CitizenID,
		Title:                  strings.TrimSpace(input.Title),
		Description:            strings.TrimSpace(input.Description),
		Department:             strings.TrimSpace(input.Department),
		Severity:               severity,
		Status:                 domain.StatusSubmitted,
		EscalationLevel:        0,
		SLADeadline:            &deadline,
		ExpectedResolutionTime: &deadline,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, err
	}

	event := &domain.TimelineEvent{
		ComplaintID: complaint.ID,
		Type:        domain.TimelineTypeUser,
		Action:      domain.TimelineActionCreated,
		Message:     "Complaint submitted.",
	}
	_ = s.timeline.Append(ctx, event)

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		Actor:       complaint.CitizenID,
		Payload: events.ComplaintCreatedPayload{
			ReferenceKey: complaint.ReferenceKey,
			Department:   complaint.Department,
			Severity:     complaint.Severity,
			Title:        complaint.Title,
		},
	})
	return complaint, nil
}

// GetComplaint fetches a complaint with its timeline.
func (s *ComplaintService) GetComplaint(ctx context.Context, id string) (*domain.Complaint, []domain.TimelineEvent, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	timeline, err := s.timeline.ListByComplaint(ctx, complaint.ID)
	if err != nil {
		return nil, nil, err
	}
	return complaint, timeline, nil
}

// ListComplaints returns filtered, paginated complaints.
func (s *ComplaintService) ListComplaints(ctx context.Context, filter ComplaintListFilter) ([]domain.Complaint, error) {
	return s.complaints.ListWithFilter(ctx, repository.ComplaintFilter{
		CitizenID:  filter.CitizenID,
		Department: filter.Department,
		Statuses:   filter.Statuses,
		Severities: filter.Severities,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	})
}

// ListAudit returns the audit trail for a complaint.
func (s *ComplaintService) ListAudit(ctx context.Context, id string) ([]domain.AuditEntry, error) {
	if _, err := s.complaints.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.audits.ListByComplaint(ctx, id)
}

// UpdateStatus applies a staff-driven status change, enforcing the forward
// transition table, and records timeline and audit entries.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actor, id string, newStatus domain.ComplaintStatus, comment string) (*domain.Complaint, error) {
	if !domain.IsValidStatus(newStatus) {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": newStatus})
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(complaint.Status, newStatus) {
		return nil, apperrors.NewConflict("invalid status transition", map[string]any{
			"from": complaint.Status,
			"to":   newStatus,
		})
	}

	oldStatus := complaint.Status
	complaint.Status = newStatus
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	message := "Status changed from " + string(oldStatus) + " to " + string(newStatus) + "."
	if comment != "" {
		message += " " + comment
	}
	_ = s.timeline.Append(ctx, &domain.TimelineEvent{
		ComplaintID: complaint.ID,
		Type:        domain.TimelineTypeUser,
		Action:      domain.TimelineActionStatusChanged,
		Message:     message,
	})
	_ = s.audits.Append(ctx, &domain.AuditEntry{
		ComplaintID: complaint.ID,
		Actor:       actor,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		OldLevel:    complaint.EscalationLevel,
		NewLevel:    complaint.EscalationLevel,
		OldDeadline: complaint.SLADeadline,
		NewDeadline: complaint.SLADeadline,
	})

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Actor:       actor,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   comment,
		},
	})
	return complaint, nil
}

// AssignDepartment routes a complaint to a responsible department.
func (s *ComplaintService) AssignDepartment(ctx context.Context, actor, id, department string) (*domain.Complaint, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return nil, apperrors.NewValidationError("department required", nil)
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	complaint.AssignedDepartment = &department
	if complaint.Status == domain.StatusSubmitted || complaint.Status == domain.StatusAnalyzed {
		complaint.Status = domain.StatusAssigned
	}
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, err
	}

	_ = s.timeline.Append(ctx, &domain.TimelineEvent{
		ComplaintID: complaint.ID,
		Type:        domain.TimelineTypeUser,
		Action:      domain.TimelineActionAssigned,
		Message:     "Assigned to department " + department + ".",
	})

	s.publishEvent(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Actor:       actor,
		Payload:     events.ComplaintAssignedPayload{Department: department},
	})
	return complaint, nil
}

// initialSLAWindow maps severity to the first deadline.
func (s *ComplaintService) initialSLAWindow(severity domain.ComplaintSeverity) time.Duration {
	if s.sla.Accelerated() {
		return s.sla.DeadlineExtension()
	}
	switch severity {
	case domain.SeverityCritical:
		return 4 * time.Hour
	case domain.SeverityHigh:
		return 8 * time.Hour
	case domain.SeverityLow:
		return 72 * time.Hour
	default:
		return 24 * time.Hour
	}
}

func (s *ComplaintService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateReferenceKey() string {
	return "CMP-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// allowedTransitions is the staff-facing workflow graph. Terminal resolved
// never re-opens; watchdog-owned statuses can be worked back into progress.
var allowedTransitions = map[domain.ComplaintStatus][]domain.ComplaintStatus{
	domain.StatusSubmitted:    {domain.StatusAnalyzed, domain.StatusAssigned, domain.StatusInProgress, domain.StatusResolved},
	domain.StatusAnalyzed:     {domain.StatusAssigned, domain.StatusInProgress, domain.StatusOnHold, domain.StatusResolved},
	domain.StatusAssigned:     {domain.StatusAcknowledged, domain.StatusInProgress, domain.StatusOnHold, domain.StatusResolved},
	domain.StatusAcknowledged: {domain.StatusInProgress, domain.StatusOnHold, domain.StatusResolved},
	domain.StatusInProgress:   {domain.StatusOnHold, domain.StatusResolved},
	domain.StatusOnHold:       {domain.StatusInProgress, domain.StatusResolved},
	domain.StatusSLAWarning:   {domain.StatusInProgress, domain.StatusResolved},
	domain.StatusEscalated:    {domain.StatusResolved},
	domain.StatusResolved:     {},
}

func isValidTransition(current, next domain.ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
