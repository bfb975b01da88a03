package projections

import (
	"context"
	"errors"
	"time"

	"fitpro/internal/adapters/storage"
	domainSchedule "fitpro/internal/domain/schedule"
)

// GetMyBookingsQuery carries query parameters.
type GetMyBookingsQuery struct {
	UserID string
}

// BookingView is a confirmed booking with its session details.
type BookingView struct {
	BookingID string
	BookedAt  time.Time
	Status    string
	Session   SessionView
}

// GetMyBookingsResult carries the query result.
type GetMyBookingsResult struct {
	Bookings []BookingView
}

// GetMyBookingsDeps holds dependencies for GetMyBookings.
type GetMyBookingsDeps struct {
	BookingStore  BookingStore
	ScheduleStore ScheduleStore
	ClassStore    ClassStore
	TrainerStore  TrainerStore
}

// QueryGetMyBookings lists the caller's confirmed bookings, newest first.
// POST: Bookings whose session vanished mid-query are skipped
func QueryGetMyBookings(ctx context.Context, query GetMyBookingsQuery, deps GetMyBookingsDeps) (GetMyBookingsResult, error) {
	bookings, err := deps.BookingStore.ListByUser(ctx, query.UserID)
	if err != nil {
		return GetMyBookingsResult{}, err
	}

	schedules := make([]domainSchedule.Schedule, 0, len(bookings))
	kept := bookings[:0]
	for _, b := range bookings {
		s, err := deps.ScheduleStore.GetByID(ctx, b.ScheduleID)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return GetMyBookingsResult{}, err
		}
		schedules = append(schedules, s)
		kept = append(kept, b)
	}

	sessions, err := sessionViews(ctx, schedules, deps.ClassStore, deps.TrainerStore)
	if err != nil {
		return GetMyBookingsResult{}, err
	}
	views := make([]BookingView, len(kept))
	for i, b := range kept {
		sessions[i].Booked = true
		views[i] = BookingView{
			BookingID: b.ID,
			BookedAt:  b.CreatedAt,
			Status:    b.Status,
			Session:   sessions[i],
		}
	}
	return GetMyBookingsResult{Bookings: views}, nil
}
