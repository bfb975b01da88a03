package schedule_test

import (
	"errors"
	"testing"
	"time"

	"fitpro/internal/domain/schedule"
)

func TestSchedule_Validate(t *testing.T) {
	valid := schedule.Schedule{ClassID: "c1", ScheduledDate: "2024-05-01", StartTime: "09:00", EndTime: "10:00"}
	tests := []struct {
		name    string
		mutate  func(s *schedule.Schedule)
		wantErr error
	}{
		{name: "valid", mutate: func(s *schedule.Schedule) {}},
		{name: "missing class", mutate: func(s *schedule.Schedule) { s.ClassID = "" }, wantErr: schedule.ErrEmptyClassID},
		{name: "bad date", mutate: func(s *schedule.Schedule) { s.ScheduledDate = "01/05/2024" }, wantErr: schedule.ErrInvalidDate},
		{name: "bad start", mutate: func(s *schedule.Schedule) { s.StartTime = "9am" }, wantErr: schedule.ErrInvalidStartTime},
		{name: "bad end", mutate: func(s *schedule.Schedule) { s.EndTime = "25:00" }, wantErr: schedule.ErrInvalidEndTime},
		{name: "end equals start", mutate: func(s *schedule.Schedule) { s.EndTime = "09:00" }, wantErr: schedule.ErrEndBeforeStart},
		{name: "end before start", mutate: func(s *schedule.Schedule) { s.EndTime = "08:30" }, wantErr: schedule.ErrEndBeforeStart},
		{name: "negative bookings", mutate: func(s *schedule.Schedule) { s.CurrentBookings = -1 }, wantErr: schedule.ErrNegativeBookings},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			if err := s.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSchedule_Capacity(t *testing.T) {
	s := schedule.Schedule{CurrentBookings: 19}
	if s.IsFull(20) {
		t.Error("19/20 should not be full")
	}
	if got := s.RemainingSpots(20); got != 1 {
		t.Errorf("RemainingSpots = %d, want 1", got)
	}
	s.CurrentBookings = 20
	if !s.IsFull(20) {
		t.Error("20/20 should be full")
	}
	// Capacity lowered below the booked count never reports negative spots.
	if got := s.RemainingSpots(10); got != 0 {
		t.Errorf("RemainingSpots = %d, want 0", got)
	}
}

func TestSchedule_IsPast(t *testing.T) {
	s := schedule.Schedule{ScheduledDate: "2024-05-01"}
	if !s.IsPast("2024-05-02") {
		t.Error("yesterday's session should be past")
	}
	if s.IsPast("2024-05-01") {
		t.Error("today's session should not be past")
	}
}

func TestSchedule_StartsAt(t *testing.T) {
	loc := time.FixedZone("UTC+12", 12*3600)
	s := schedule.Schedule{ScheduledDate: "2024-05-01", StartTime: "06:30"}
	got, err := s.StartsAt(loc)
	if err != nil {
		t.Fatalf("StartsAt: %v", err)
	}
	if want := time.Date(2024, 4, 30, 18, 30, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("StartsAt = %v, want %v", got.UTC(), want)
	}
}
