package attendance

import (
	"context"
	"time"

	domain "fitpro/internal/domain/attendance"
)

// Store persists Attendance state.
type Store interface {
	Create(ctx context.Context, value domain.Attendance) error
	Save(ctx context.Context, value domain.Attendance) error
	GetOpenByUser(ctx context.Context, userID string) (domain.Attendance, error)
	List(ctx context.Context, filter ListFilter) ([]domain.Attendance, error)
	CountCheckIns(ctx context.Context, from, to time.Time) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are newest check-in first.
type ListFilter struct {
	UserID string
	Limit  int
}
