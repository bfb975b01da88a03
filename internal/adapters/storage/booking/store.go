package booking

import (
	"context"

	domain "fitpro/internal/domain/booking"
)

// Store persists Booking state.
type Store interface {
	Create(ctx context.Context, value domain.Booking) error
	Delete(ctx context.Context, userID, scheduleID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	BookedScheduleIDs(ctx context.Context, userID string, scheduleIDs []string) (map[string]bool, error)
}
