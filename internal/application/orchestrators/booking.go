package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/booking"
	"fitpro/internal/domain/gymtime"
	"fitpro/internal/domain/schedule"
)

// ScheduleStoreForBooking defines the schedule store interface needed by booking orchestrators.
type ScheduleStoreForBooking interface {
	GetByID(ctx context.Context, id string) (schedule.Schedule, error)
	TryIncrementBookings(ctx context.Context, id string) (bool, error)
	DecrementBookings(ctx context.Context, id string) error
}

// BookingStoreForBooking defines the booking store interface needed by booking orchestrators.
type BookingStoreForBooking interface {
	Create(ctx context.Context, b booking.Booking) error
	Delete(ctx context.Context, userID, scheduleID string) error
}

// BookClassInput carries input for booking or cancelling a session.
type BookClassInput struct {
	UserID     string
	ScheduleID string
}

// BookingDeps holds dependencies for booking orchestrators.
type BookingDeps struct {
	Tx            TxRunner
	ScheduleStore ScheduleStoreForBooking
	BookingStore  BookingStoreForBooking
	Location      *time.Location
	GenerateID    func() string
	Now           func() time.Time
}

var ErrScheduleNotFound = errors.New("class session not found")

// ExecuteBookClass reserves a spot in a scheduled session.
// PRE: Session exists and is not in the past
// POST: Booking row exists and the session count is incremented, or neither
// INVARIANT: CurrentBookings never exceeds the class capacity
func ExecuteBookClass(ctx context.Context, input BookClassInput, deps BookingDeps) (booking.Booking, error) {
	now := nowFrom(deps.Now)
	today := gymtime.Today(now, locOrUTC(deps.Location))

	b := booking.Booking{
		ID:         newID(deps.GenerateID),
		UserID:     input.UserID,
		ScheduleID: input.ScheduleID,
		Status:     booking.StatusConfirmed,
		CreatedAt:  now,
	}
	if err := b.Validate(); err != nil {
		return booking.Booking{}, err
	}

	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		s, err := deps.ScheduleStore.GetByID(ctx, input.ScheduleID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return err
		}
		if s.IsPast(today) {
			return schedule.ErrInPast
		}

		ok, err := deps.ScheduleStore.TryIncrementBookings(ctx, s.ID)
		if err != nil {
			return err
		}
		if !ok {
			return schedule.ErrFull
		}

		if err := deps.BookingStore.Create(ctx, b); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return booking.ErrAlreadyBooked
			}
			return err
		}
		return nil
	})
	if err != nil {
		slog.Info("booking_event", "event", "booking_rejected", "user_id", input.UserID, "schedule_id", input.ScheduleID, "reason", err.Error())
		return booking.Booking{}, err
	}

	slog.Info("booking_event", "event", "class_booked", "user_id", input.UserID, "schedule_id", input.ScheduleID)
	return b, nil
}

// ExecuteCancelBooking removes the user's booking and frees its spot.
// PRE: User holds a booking for the session
// POST: Booking removed and the session count decremented, or neither
func ExecuteCancelBooking(ctx context.Context, input BookClassInput, deps BookingDeps) error {
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		if err := deps.BookingStore.Delete(ctx, input.UserID, input.ScheduleID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return booking.ErrNotBooked
			}
			return err
		}
		return deps.ScheduleStore.DecrementBookings(ctx, input.ScheduleID)
	})
	if err != nil {
		return err
	}

	slog.Info("booking_event", "event", "booking_cancelled", "user_id", input.UserID, "schedule_id", input.ScheduleID)
	return nil
}
