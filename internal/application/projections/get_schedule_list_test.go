package projections

import (
	"context"
	"testing"
)

// TestQueryGetUpcomingClasses tests past sessions are hidden and bookings are flagged.
func TestQueryGetUpcomingClasses(t *testing.T) {
	g := seedGym(t)

	res, err := QueryGetUpcomingClasses(context.Background(), GetUpcomingClassesQuery{UserID: "ann"}, GetUpcomingClassesDeps{
		ScheduleStore: g.schedules,
		ClassStore:    g.classes,
		TrainerStore:  g.trainers,
		BookingStore:  g.bookings,
		Now:           fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(res.Sessions))
	}

	today, next := res.Sessions[0], res.Sessions[1]
	if today.ScheduleID != "s-today" || next.ScheduleID != "s-next" {
		t.Fatalf("order = %s, %s", today.ScheduleID, next.ScheduleID)
	}
	if !today.Booked || next.Booked {
		t.Errorf("booked flags = %v, %v; want true, false", today.Booked, next.Booked)
	}
	if today.RemainingSpots != 1 || today.IsFull {
		t.Errorf("today spots = %d full=%v, want 1 false", today.RemainingSpots, today.IsFull)
	}
	if next.ClassName != "HIIT" || next.TrainerName != "Unassigned" || next.RemainingSpots != 10 {
		t.Errorf("next = %+v", next)
	}
}

// TestQueryGetScheduleList tests the admin list includes past sessions, newest date first.
func TestQueryGetScheduleList(t *testing.T) {
	g := seedGym(t)

	res, err := QueryGetScheduleList(context.Background(), GetScheduleListQuery{}, GetScheduleListDeps{
		ScheduleStore: g.schedules,
		ClassStore:    g.classes,
		TrainerStore:  g.trainers,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"s-next", "s-today", "s-past"}
	if len(res.Sessions) != len(want) {
		t.Fatalf("sessions = %d, want %d", len(res.Sessions), len(want))
	}
	for i, id := range want {
		if res.Sessions[i].ScheduleID != id {
			t.Errorf("session %d = %s, want %s", i, res.Sessions[i].ScheduleID, id)
		}
	}
	if res.Sessions[1].ClassName != "Yoga" || res.Sessions[1].CurrentBookings != 1 {
		t.Errorf("s-today = %+v", res.Sessions[1])
	}
}
