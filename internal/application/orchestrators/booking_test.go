package orchestrators

import (
	"context"
	"errors"
	"testing"

	"fitpro/internal/adapters/storage"
	accountStorage "fitpro/internal/adapters/storage/account"
	bookingStorage "fitpro/internal/adapters/storage/booking"
	classStorage "fitpro/internal/adapters/storage/class"
	scheduleStorage "fitpro/internal/adapters/storage/schedule"
	"fitpro/internal/adapters/storage/storagetest"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/booking"
	"fitpro/internal/domain/class"
	"fitpro/internal/domain/schedule"
)

type bookingFixture struct {
	deps      BookingDeps
	schedules *scheduleStorage.SQLStore
	bookings  *bookingStorage.SQLStore
}

// newBookingFixture creates members u1..u3, a class with capacity 2, a session
// today ("today") and one yesterday ("past").
func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	db := storagetest.Open(t)
	ctx := context.Background()

	accounts := accountStorage.NewSQLStore(db)
	for _, id := range []string{"u1", "u2", "u3"} {
		if err := accounts.Create(ctx, account.Account{ID: id, Email: id + "@fitpro.test", PasswordHash: "x", Role: account.RoleMember, CreatedAt: fixedTime}); err != nil {
			t.Fatalf("seed account: %v", err)
		}
	}
	if err := classStorage.NewSQLStore(db).Save(ctx, class.Class{ID: "yoga", Name: "Yoga", DurationMinutes: 60, MaxCapacity: 2, IsActive: true}); err != nil {
		t.Fatalf("seed class: %v", err)
	}
	schedules := scheduleStorage.NewSQLStore(db)
	for _, s := range []schedule.Schedule{
		{ID: "today", ClassID: "yoga", ScheduledDate: "2026-03-01", StartTime: "18:00", EndTime: "19:00"},
		{ID: "past", ClassID: "yoga", ScheduledDate: "2026-02-28", StartTime: "18:00", EndTime: "19:00"},
	} {
		if err := schedules.Create(ctx, s); err != nil {
			t.Fatalf("seed schedule: %v", err)
		}
	}

	bookings := bookingStorage.NewSQLStore(db)
	return bookingFixture{
		deps: BookingDeps{
			Tx:            storage.NewTransactor(db),
			ScheduleStore: schedules,
			BookingStore:  bookings,
			GenerateID:    seqIDs(),
			Now:           fixedNow,
		},
		schedules: schedules,
		bookings:  bookings,
	}
}

func (f bookingFixture) currentBookings(t *testing.T, id string) int {
	t.Helper()
	s, err := f.schedules.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID(%s): %v", id, err)
	}
	return s.CurrentBookings
}

// TestExecuteBookClass_CapacityEnforced tests bookings stop at the class capacity.
func TestExecuteBookClass_CapacityEnforced(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2"} {
		if _, err := ExecuteBookClass(ctx, BookClassInput{UserID: user, ScheduleID: "today"}, f.deps); err != nil {
			t.Fatalf("book %s: %v", user, err)
		}
	}
	if _, err := ExecuteBookClass(ctx, BookClassInput{UserID: "u3", ScheduleID: "today"}, f.deps); !errors.Is(err, schedule.ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	if got := f.currentBookings(t, "today"); got != 2 {
		t.Errorf("current bookings = %d, want 2", got)
	}
}

// TestExecuteBookClass_Duplicate tests a second booking by the same member leaves the count unchanged.
func TestExecuteBookClass_Duplicate(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	in := BookClassInput{UserID: "u1", ScheduleID: "today"}

	if _, err := ExecuteBookClass(ctx, in, f.deps); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := ExecuteBookClass(ctx, in, f.deps); !errors.Is(err, booking.ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
	if got := f.currentBookings(t, "today"); got != 1 {
		t.Errorf("current bookings = %d, want 1 after rolled back duplicate", got)
	}
}

// TestExecuteBookClass_Rejections tests past and unknown sessions.
func TestExecuteBookClass_Rejections(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := ExecuteBookClass(ctx, BookClassInput{UserID: "u1", ScheduleID: "past"}, f.deps); !errors.Is(err, schedule.ErrInPast) {
		t.Errorf("past: expected ErrInPast, got %v", err)
	}
	if _, err := ExecuteBookClass(ctx, BookClassInput{UserID: "u1", ScheduleID: "nope"}, f.deps); !errors.Is(err, ErrScheduleNotFound) {
		t.Errorf("unknown: expected ErrScheduleNotFound, got %v", err)
	}
	if _, err := ExecuteBookClass(ctx, BookClassInput{UserID: "", ScheduleID: "today"}, f.deps); !errors.Is(err, booking.ErrEmptyUserID) {
		t.Errorf("empty user: expected ErrEmptyUserID, got %v", err)
	}
	if got := f.currentBookings(t, "past"); got != 0 {
		t.Errorf("past session bookings = %d, want 0", got)
	}
}

// TestExecuteCancelBooking tests cancelling frees the spot and a second cancel fails.
func TestExecuteCancelBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	in := BookClassInput{UserID: "u1", ScheduleID: "today"}

	if _, err := ExecuteBookClass(ctx, in, f.deps); err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := ExecuteCancelBooking(ctx, in, f.deps); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := f.currentBookings(t, "today"); got != 0 {
		t.Errorf("current bookings = %d, want 0", got)
	}
	if err := ExecuteCancelBooking(ctx, in, f.deps); !errors.Is(err, booking.ErrNotBooked) {
		t.Errorf("expected ErrNotBooked, got %v", err)
	}

	// The freed spot can be booked again.
	if _, err := ExecuteBookClass(ctx, in, f.deps); err != nil {
		t.Errorf("rebook: %v", err)
	}
}
