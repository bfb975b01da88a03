package membership_test

import (
	"errors"
	"testing"

	"fitpro/internal/domain/membership"
	"fitpro/internal/domain/plan"
)

func TestEndDateFor(t *testing.T) {
	tests := []struct {
		start   string
		months  int
		want    string
		wantErr bool
	}{
		{start: "2024-01-15", months: 1, want: "2024-02-15"},
		{start: "2024-01-31", months: 1, want: "2024-02-29"},
		{start: "2024-10-31", months: 3, want: "2025-01-31"},
		{start: "2024-06-30", months: 12, want: "2025-06-30"},
		{start: "15/01/2024", months: 1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got, err := membership.EndDateFor(tt.start, tt.months)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EndDateFor() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("EndDateFor(%s, %d) = %s, want %s", tt.start, tt.months, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	quarterly := plan.Plan{ID: "p3", Name: "Quarterly", Price: 13499, DurationMonths: 3, IsActive: true}

	m, err := membership.New("m1", "u1", quarterly, "2024-03-10")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if m.Status != membership.StatusActive || m.StartDate != "2024-03-10" || m.EndDate != "2024-06-10" || m.PlanID != "p3" {
		t.Errorf("New() = %+v", m)
	}

	quarterly.IsActive = false
	if _, err := membership.New("m2", "u1", quarterly, "2024-03-10"); !errors.Is(err, plan.ErrInactive) {
		t.Errorf("New(inactive plan) error = %v, want ErrInactive", err)
	}
}

func TestMembership_Validate(t *testing.T) {
	base := membership.Membership{UserID: "u1", PlanID: "p1", StartDate: "2024-01-01", EndDate: "2024-02-01", Status: membership.StatusActive}
	tests := []struct {
		name    string
		mutate  func(m *membership.Membership)
		wantErr error
	}{
		{name: "valid", mutate: func(m *membership.Membership) {}},
		{name: "missing user", mutate: func(m *membership.Membership) { m.UserID = "" }, wantErr: membership.ErrEmptyUserID},
		{name: "missing plan", mutate: func(m *membership.Membership) { m.PlanID = "" }, wantErr: membership.ErrEmptyPlanID},
		{name: "bad status", mutate: func(m *membership.Membership) { m.Status = "paused" }, wantErr: membership.ErrInvalidStatus},
		{name: "bad date", mutate: func(m *membership.Membership) { m.EndDate = "soon" }, wantErr: membership.ErrInvalidDate},
		{name: "end before start", mutate: func(m *membership.Membership) { m.EndDate = "2023-12-31" }, wantErr: membership.ErrEndBeforeStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base
			tt.mutate(&m)
			if err := m.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMembership_Transitions(t *testing.T) {
	m := membership.Membership{Status: membership.StatusActive, EndDate: "2024-02-01"}

	if !m.IsLapsed("2024-02-02") {
		t.Error("membership ending yesterday should be lapsed")
	}
	if m.IsLapsed("2024-02-01") {
		t.Error("membership ending today should not be lapsed")
	}

	if err := m.Cancel(); err != nil {
		t.Fatalf("Cancel() = %v", err)
	}
	if m.Status != membership.StatusCancelled {
		t.Errorf("Status = %s, want cancelled", m.Status)
	}
	if err := m.Cancel(); !errors.Is(err, membership.ErrNotActive) {
		t.Errorf("second Cancel() = %v, want ErrNotActive", err)
	}
	if err := m.Expire(); !errors.Is(err, membership.ErrNotActive) {
		t.Errorf("Expire() on cancelled = %v, want ErrNotActive", err)
	}

	active := membership.Membership{Status: membership.StatusActive}
	if err := active.Expire(); err != nil || active.Status != membership.StatusExpired {
		t.Errorf("Expire() = %v, status %s", err, active.Status)
	}
}
