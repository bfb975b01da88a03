package projections

import (
	"context"
	"testing"
)

// TestQueryGetMyBookings tests bookings carry their session details.
func TestQueryGetMyBookings(t *testing.T) {
	g := seedGym(t)
	deps := GetMyBookingsDeps{
		BookingStore:  g.bookings,
		ScheduleStore: g.schedules,
		ClassStore:    g.classes,
		TrainerStore:  g.trainers,
	}

	res, err := QueryGetMyBookings(context.Background(), GetMyBookingsQuery{UserID: "ann"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Bookings) != 1 {
		t.Fatalf("bookings = %d, want 1", len(res.Bookings))
	}
	b := res.Bookings[0]
	if b.BookingID != "b1" || b.Session.ScheduleID != "s-today" || b.Session.ClassName != "Yoga" {
		t.Errorf("booking = %+v", b)
	}
	if b.Session.CurrentBookings != 1 || b.Session.RemainingSpots != 1 {
		t.Errorf("session counts = %d/%d", b.Session.CurrentBookings, b.Session.RemainingSpots)
	}

	none, err := QueryGetMyBookings(context.Background(), GetMyBookingsQuery{UserID: "bob"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none.Bookings) != 0 {
		t.Errorf("bob bookings = %d, want 0", len(none.Bookings))
	}
}
