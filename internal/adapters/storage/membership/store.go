package membership

import (
	"context"

	domain "fitpro/internal/domain/membership"
)

// Store persists Membership state.
type Store interface {
	Create(ctx context.Context, value domain.Membership) error
	Save(ctx context.Context, value domain.Membership) error
	GetActiveByUser(ctx context.Context, userID string) (domain.Membership, error)
	ListActiveByUsers(ctx context.Context, userIDs []string) (map[string]domain.Membership, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Membership, error)
	ListLapsed(ctx context.Context, today string) ([]domain.Membership, error)
	CountActive(ctx context.Context) (int, error)
}
