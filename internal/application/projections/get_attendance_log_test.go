package projections

import (
	"context"
	"testing"

	"fitpro/internal/domain/attendance"
)

// TestQueryGetAttendanceLog_Admin tests names and durations across all members.
func TestQueryGetAttendanceLog_Admin(t *testing.T) {
	g := seedGym(t)

	res, err := QueryGetAttendanceLog(context.Background(), GetAttendanceLogQuery{}, GetAttendanceLogDeps{
		AttendanceStore: g.attendance,
		ProfileStore:    g.profiles,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(res.Records))
	}
	open, closed := res.Records[0], res.Records[1]
	if open.ID != "v2" || open.Duration != attendance.InProgress || open.CheckOutTime != nil {
		t.Errorf("open row = %+v", open)
	}
	if closed.Duration != "1h 30m" || closed.CheckOutTime == nil {
		t.Errorf("closed row = %+v", closed)
	}
	if open.MemberName != "Ann Smith" {
		t.Errorf("member name = %q", open.MemberName)
	}
	if res.Current != nil {
		t.Error("admin log should not report a current visit")
	}
}

// TestQueryGetAttendanceLog_Member tests the current visit is surfaced for a single member.
func TestQueryGetAttendanceLog_Member(t *testing.T) {
	g := seedGym(t)
	deps := GetAttendanceLogDeps{AttendanceStore: g.attendance, ProfileStore: g.profiles}
	ctx := context.Background()

	ann, err := QueryGetAttendanceLog(ctx, GetAttendanceLogQuery{UserID: "ann"}, deps)
	if err != nil {
		t.Fatalf("ann: %v", err)
	}
	if ann.Current == nil || ann.Current.ID != "v2" {
		t.Errorf("current = %+v, want v2", ann.Current)
	}

	bob, err := QueryGetAttendanceLog(ctx, GetAttendanceLogQuery{UserID: "bob"}, deps)
	if err != nil {
		t.Fatalf("bob: %v", err)
	}
	if len(bob.Records) != 0 || bob.Current != nil {
		t.Errorf("bob = %+v", bob)
	}
}
