package plan

import (
	"context"

	domain "fitpro/internal/domain/plan"
)

// Store persists Plan state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Plan, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Plan, error)
	Save(ctx context.Context, value domain.Plan) error
	List(ctx context.Context, filter ListFilter) ([]domain.Plan, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ActiveOnly bool
}
