package class

import (
	"context"

	domain "fitpro/internal/domain/class"
)

// Store persists Class state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Class, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Class, error)
	Save(ctx context.Context, value domain.Class) error
	List(ctx context.Context, filter ListFilter) ([]domain.Class, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	ActiveOnly bool
}
