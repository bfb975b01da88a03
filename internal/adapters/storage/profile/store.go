package profile

import (
	"context"

	domain "fitpro/internal/domain/profile"
)

// Store persists Profile state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetMany(ctx context.Context, ids []string) (map[string]domain.Profile, error)
	Save(ctx context.Context, value domain.Profile) error
}
