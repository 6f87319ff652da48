package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type stubComplaints struct {
	byID    map[string]*domain.Complaint
	created []*domain.Complaint
	updated []*domain.Complaint
}

func newStubComplaints() *stubComplaints {
	return &stubComplaints{byID: map[string]*domain.Complaint{}}
}

func (s *stubComplaints) Create(ctx context.Context, c *domain.Complaint) error {
	c.ID = "c-1"
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	s.byID[c.ID] = &copied
	s.created = append(s.created, &copied)
	return nil
}

func (s *stubComplaints) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	c, ok := s.byID[id]
	if !ok {
		return nil, apperrors.NewNotFound("complaint", nil)
	}
	copied := *c
	return &copied, nil
}

func (s *stubComplaints) Update(ctx context.Context, c *domain.Complaint) error {
	copied := *c
	s.byID[c.ID] = &copied
	s.updated = append(s.updated, &copied)
	return nil
}

func (s *stubComplaints) UpdateSLAFields(ctx context.Context, id string, update repository.SLAUpdate) error {
	return errors.New("not used by the service")
}

func (s *stubComplaints) ListWithFilter(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, c := range s.byID {
		result = append(result, *c)
	}
	return result, nil
}

func (s *stubComplaints) ListActive(ctx context.Context, statuses []domain.ComplaintStatus, limit int) ([]domain.Complaint, error) {
	return nil, errors.New("not used by the service")
}

type stubTimeline struct {
	events []domain.TimelineEvent
}

func (s *stubTimeline) Append(ctx context.Context, event *domain.TimelineEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubTimeline) ListByComplaint(ctx context.Context, complaintID string) ([]domain.TimelineEvent, error) {
	return s.events, nil
}

type stubAudit struct {
	entries []domain.AuditEntry
}

func (s *stubAudit) Append(ctx context.Context, entry *domain.AuditEntry) error {
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubAudit) ListByComplaint(ctx context.Context, complaintID string) ([]domain.AuditEntry, error) {
	return s.entries, nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func newTestService() (*ComplaintService, *stubComplaints, *stubTimeline, *stubAudit, *recordingDispatcher) {
	complaints := newStubComplaints()
	timeline := &stubTimeline{}
	audit := &stubAudit{}
	dispatcher := &recordingDispatcher{}
	svc := NewComplaintService(config.SLAConfig{}, ComplaintDependencies{
		ComplaintRepo: complaints,
		TimelineRepo:  timeline,
		AuditRepo:     audit,
		Dispatcher:    dispatcher,
	})
	return svc, complaints, timeline, audit, dispatcher
}

func TestCreateComplaintDefaults(t *testing.T) {
	svc, _, timeline, _, dispatcher := newTestService()

	complaint, err := svc.CreateComplaint(context.Background(), ComplaintCreateInput{
		CitizenID:   "citizen-1",
		Title:       "  Streetlight out  ",
		Description: "dark corner at night",
		Department:  "infrastructure",
	})
	if err != nil {
		t.Fatalf("CreateComplaint() error = %v", err)
	}
	if complaint.Status != domain.StatusSubmitted {
		t.Errorf("status = %q, want submitted", complaint.Status)
	}
	if complaint.Severity != domain.SeverityMedium {
		t.Errorf("severity = %q, want default medium", complaint.Severity)
	}
	if complaint.Title != "Streetlight out" {
		t.Errorf("title = %q, want trimmed", complaint.Title)
	}
	if !strings.HasPrefix(complaint.ReferenceKey, "CMP-") || len(complaint.ReferenceKey) != 12 {
		t.Errorf("reference key = %q, want CMP- plus 8 characters", complaint.ReferenceKey)
	}
	if complaint.ReferenceKey != strings.ToUpper(complaint.ReferenceKey) {
		t.Errorf("reference key = %q, want uppercase", complaint.ReferenceKey)
	}
	if complaint.SLADeadline == nil || complaint.ExpectedResolutionTime == nil {
		t.Fatal("deadlines not set")
	}
	if !complaint.SLADeadline.Equal(*complaint.ExpectedResolutionTime) {
		t.Errorf("deadline fields differ: %v vs %v", complaint.SLADeadline, complaint.ExpectedResolutionTime)
	}

	if len(timeline.events) != 1 || timeline.events[0].Action != domain.TimelineActionCreated {
		t.Errorf("timeline = %+v, want one created entry", timeline.events)
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventComplaintCreated {
		t.Errorf("published = %+v, want one complaint_created event", dispatcher.published)
	}
	if dispatcher.published[0].ID == "" {
		t.Error("published event missing id")
	}
}

func TestCreateComplaintSLAWindowBySeverity(t *testing.T) {
	tests := []struct {
		severity domain.ComplaintSeverity
		window   time.Duration
	}{
		{domain.SeverityCritical, 4 * time.Hour},
		{domain.SeverityHigh, 8 * time.Hour},
		{domain.SeverityMedium, 24 * time.Hour},
		{domain.SeverityLow, 72 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			svc, _, _, _, _ := newTestService()
			before := time.Now()
			complaint, err := svc.CreateComplaint(context.Background(), ComplaintCreateInput{
				CitizenID: "citizen-1",
				Title:     "t",
				Severity:  tt.severity,
			})
			if err != nil {
				t.Fatalf("CreateComplaint() error = %v", err)
			}
			got := complaint.SLADeadline.Sub(before)
			if got < tt.window || got > tt.window+time.Minute {
				t.Errorf("sla window = %v, want about %v", got, tt.window)
			}
		})
	}
}

func TestCreateComplaintAcceleratedWindow(t *testing.T) {
	complaints := newStubComplaints()
	svc := NewComplaintService(config.SLAConfig{AcceleratedWindowSeconds: 10}, ComplaintDependencies{
		ComplaintRepo: complaints,
		TimelineRepo:  &stubTimeline{},
		AuditRepo:     &stubAudit{},
	})

	before := time.Now()
	complaint, err := svc.CreateComplaint(context.Background(), ComplaintCreateInput{
		CitizenID: "citizen-1",
		Title:     "t",
		Severity:  domain.SeverityCritical,
	})
	if err != nil {
		t.Fatalf("CreateComplaint() error = %v", err)
	}
	// The demo window overrides the severity mapping.
	got := complaint.SLADeadline.Sub(before)
	if got < 9*time.Second || got > 11*time.Second {
		t.Errorf("sla window = %v, want about 10s", got)
	}
}

func TestCreateComplaintRejectsUnknownSeverity(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.CreateComplaint(context.Background(), ComplaintCreateInput{
		CitizenID: "citizen-1",
		Title:     "t",
		Severity:  "urgent",
	})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("CreateComplaint() error = %v, want validation error", err)
	}
}

func TestUpdateStatusEnforcesTransitionTable(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ComplaintStatus
		to      domain.ComplaintStatus
		wantErr bool
	}{
		{"submitted to in_progress", domain.StatusSubmitted, domain.StatusInProgress, false},
		{"sla_warning back to in_progress", domain.StatusSLAWarning, domain.StatusInProgress, false},
		{"escalated to resolved", domain.StatusEscalated, domain.StatusResolved, false},
		{"resolved is terminal", domain.StatusResolved, domain.StatusInProgress, true},
		{"no skipping to acknowledged", domain.StatusSubmitted, domain.StatusAcknowledged, true},
		{"staff cannot set sla_warning", domain.StatusInProgress, domain.StatusSLAWarning, true},
		{"staff cannot set escalated", domain.StatusSLAWarning, domain.StatusEscalated, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, complaints, _, audit, _ := newTestService()
			complaints.byID["c-1"] = &domain.Complaint{ID: "c-1", Status: tt.from}

			updated, err := svc.UpdateStatus(context.Background(), "staff-1", "c-1", tt.to, "")
			if tt.wantErr {
				var domainErr *apperrors.DomainError
				if !errors.As(err, &domainErr) || domainErr.Code != "CONFLICT" {
					t.Fatalf("UpdateStatus() error = %v, want conflict", err)
				}
				if got := complaints.byID["c-1"].Status; got != tt.from {
					t.Errorf("status mutated to %q on rejected transition", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateStatus() error = %v", err)
			}
			if updated.Status != tt.to {
				t.Errorf("status = %q, want %q", updated.Status, tt.to)
			}
			if len(audit.entries) != 1 {
				t.Fatalf("audit entries = %d, want 1", len(audit.entries))
			}
			if audit.entries[0].Actor != "staff-1" {
				t.Errorf("audit actor = %q, want staff-1", audit.entries[0].Actor)
			}
		})
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, complaints, _, _, _ := newTestService()
	complaints.byID["c-1"] = &domain.Complaint{ID: "c-1", Status: domain.StatusSubmitted}

	_, err := svc.UpdateStatus(context.Background(), "staff-1", "c-1", "closed", "")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("UpdateStatus() error = %v, want validation error", err)
	}
}

func TestAssignDepartmentPromotesEarlyStatuses(t *testing.T) {
	tests := []struct {
		from domain.ComplaintStatus
		want domain.ComplaintStatus
	}{
		{domain.StatusSubmitted, domain.StatusAssigned},
		{domain.StatusAnalyzed, domain.StatusAssigned},
		{domain.StatusInProgress, domain.StatusInProgress},
		{domain.StatusSLAWarning, domain.StatusSLAWarning},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			svc, complaints, _, _, dispatcher := newTestService()
			complaints.byID["c-1"] = &domain.Complaint{ID: "c-1", Status: tt.from}

			updated, err := svc.AssignDepartment(context.Background(), "staff-1", "c-1", "sanitation")
			if err != nil {
				t.Fatalf("AssignDepartment() error = %v", err)
			}
			if updated.Status != tt.want {
				t.Errorf("status = %q, want %q", updated.Status, tt.want)
			}
			if updated.AssignedDepartment == nil || *updated.AssignedDepartment != "sanitation" {
				t.Errorf("assigned department = %v, want sanitation", updated.AssignedDepartment)
			}
			if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventComplaintAssigned {
				t.Errorf("published = %+v, want one complaint_assigned event", dispatcher.published)
			}
		})
	}
}

func TestAssignDepartmentRequiresName(t *testing.T) {
	svc, complaints, _, _, _ := newTestService()
	complaints.byID["c-1"] = &domain.Complaint{ID: "c-1", Status: domain.StatusSubmitted}

	_, err := svc.AssignDepartment(context.Background(), "staff-1", "c-1", "   ")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("AssignDepartment() error = %v, want validation error", err)
	}
}

func TestGetComplaintIncludesTimeline(t *testing.T) {
	svc, complaints, timeline, _, _ := newTestService()
	complaints.byID["c-1"] = &domain.Complaint{ID: "c-1", Status: domain.StatusSubmitted}
	timeline.events = []domain.TimelineEvent{
		{ComplaintID: "c-1", Action: domain.TimelineActionCreated},
		{ComplaintID: "c-1", Action: domain.TimelineActionSLAWarning},
	}

	complaint, history, err := svc.GetComplaint(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("GetComplaint() error = %v", err)
	}
	if complaint.ID != "c-1" {
		t.Errorf("id = %q, want c-1", complaint.ID)
	}
	if len(history) != 2 {
		t.Errorf("timeline entries = %d, want 2", len(history))
	}
}

func TestListAuditUnknownComplaint(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.ListAudit(context.Background(), "missing")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("ListAudit() error = %v, want not found", err)
	}
}
