package schedule

import (
	"context"

	domain "fitpro/internal/domain/schedule"
)

// Store persists Schedule state and its booking counter.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Schedule, error)
	Create(ctx context.Context, value domain.Schedule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Schedule, error)
	TryIncrementBookings(ctx context.Context, id string) (bool, error)
	DecrementBookings(ctx context.Context, id string) error
}

// ListFilter carries filtering parameters for List operations.
// With FromDate set, sessions on or after that date are listed soonest first;
// otherwise all sessions are listed newest date first.
type ListFilter struct {
	FromDate string
	Limit    int
}
