package payment

import (
	"context"
	"time"

	domain "fitpro/internal/domain/payment"
)

// Store persists Payment records. Payments are never updated or deleted.
type Store interface {
	Create(ctx context.Context, value domain.Payment) error
	List(ctx context.Context, filter ListFilter) ([]domain.Payment, error)
	SumCompleted(ctx context.Context, from, to time.Time) (int64, error)
}

// ListFilter carries filtering parameters for List operations.
// Results are newest payment first.
type ListFilter struct {
	UserID string
	Limit  int
}
