package trainer

import (
	"context"

	domain "fitpro/internal/domain/trainer"
)

// Store persists Trainer state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Trainer, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Trainer, error)
	Save(ctx context.Context, value domain.Trainer) error
	List(ctx context.Context, filter ListFilter) ([]domain.Trainer, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ActiveOnly bool
}
