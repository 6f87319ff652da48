package domain

import (
	"testing"
	"time"
)

func TestEffectiveDeadline(t *testing.T) {
	primary := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	secondary := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		complaint Complaint
		want      time.Time
		wantOK    bool
	}{
		{
			name:      "sla deadline preferred over expected resolution",
			complaint: Complaint{SLADeadline: &primary, ExpectedResolutionTime: &secondary},
			want:      primary,
			wantOK:    true,
		},
		{
			name:      "falls back to expected resolution time",
			complaint: Complaint{ExpectedResolutionTime: &secondary},
			want:      secondary,
			wantOK:    true,
		},
		{
			name:      "sla deadline alone",
			complaint: Complaint{SLADeadline: &primary},
			want:      primary,
			wantOK:    true,
		},
		{
			name:      "neither set",
			complaint: Complaint{},
			wantOK:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.complaint.EffectiveDeadline()
			if ok != tt.wantOK {
				t.Fatalf("EffectiveDeadline() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("EffectiveDeadline() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestActiveStatusesExcludeTerminal(t *testing.T) {
	for _, status := range ActiveStatuses {
		if status == StatusEscalated || status == StatusResolved {
			t.Errorf("terminal status %q listed as active", status)
		}
		if !IsValidStatus(status) {
			t.Errorf("active status %q not in the status enum", status)
		}
	}
	if len(ActiveStatuses) != 7 {
		t.Errorf("len(ActiveStatuses) = %d, want 7", len(ActiveStatuses))
	}
}

func TestIsValidStatus(t *testing.T) {
	if !IsValidStatus(StatusSLAWarning) {
		t.Error("sla_warning rejected")
	}
	if IsValidStatus("closed") {
		t.Error("unknown status accepted")
	}
	if IsValidStatus("") {
		t.Error("empty status accepted")
	}
}

func TestIsValidSeverity(t *testing.T) {
	if !IsValidSeverity(SeverityCritical) {
		t.Error("critical rejected")
	}
	if IsValidSeverity("urgent") {
		t.Error("unknown severity accepted")
	}
}
