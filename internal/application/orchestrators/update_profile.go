package orchestrators

import (
	"context"
	"errors"
	"strings"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/profile"
)

// ProfileStoreForUpdate defines the store interface needed by UpdateProfile.
type ProfileStoreForUpdate interface {
	GetByID(ctx context.Context, id string) (profile.Profile, error)
	Save(ctx context.Context, p profile.Profile) error
}

// UpdateProfileInput carries input for editing a profile.
type UpdateProfileInput struct {
	UserID   string
	FullName string
	Phone    string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	ProfileStore ProfileStoreForUpdate
}

// ExecuteUpdateProfile replaces the name and phone on an existing profile.
// PRE: Profile exists for UserID
// POST: Profile saved with trimmed values
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (profile.Profile, error) {
	p, err := deps.ProfileStore.GetByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return profile.Profile{}, ErrMemberNotFound
		}
		return profile.Profile{}, err
	}
	p.FullName = strings.TrimSpace(input.FullName)
	p.Phone = strings.TrimSpace(input.Phone)
	if err := p.Validate(); err != nil {
		return profile.Profile{}, err
	}
	if err := deps.ProfileStore.Save(ctx, p); err != nil {
		return profile.Profile{}, err
	}
	return p, nil
}
