package projections

import (
	"context"
	"errors"
	"time"

	"fitpro/internal/adapters/storage"
)

// GetMemberProfileQuery carries query parameters.
type GetMemberProfileQuery struct {
	UserID string
}

// GetMemberProfileResult carries a user's identity, profile and active membership.
type GetMemberProfileResult struct {
	ID         string
	Email      string
	Role       string
	CreatedAt  time.Time
	FullName   string
	Phone      string
	Membership *MembershipSummary
	PlanPrice  int64 // cents, zero without a membership
}

// GetMemberProfileDeps holds dependencies for GetMemberProfile.
type GetMemberProfileDeps struct {
	AccountStore    AccountStore
	ProfileStore    ProfileStore
	MembershipStore MembershipStore
	PlanStore       PlanStore
}

// QueryGetMemberProfile loads the "My Profile" view for a user.
// PRE: UserID names an existing identity
// POST: Returns storage.ErrNotFound for unknown users; missing profile or membership leave fields empty
func QueryGetMemberProfile(ctx context.Context, query GetMemberProfileQuery, deps GetMemberProfileDeps) (GetMemberProfileResult, error) {
	acct, err := deps.AccountStore.GetByID(ctx, query.UserID)
	if err != nil {
		return GetMemberProfileResult{}, err
	}
	res := GetMemberProfileResult{
		ID:        acct.ID,
		Email:     acct.Email,
		Role:      acct.Role,
		CreatedAt: acct.CreatedAt,
	}

	p, err := deps.ProfileStore.GetByID(ctx, acct.ID)
	switch {
	case err == nil:
		res.FullName = p.FullName
		res.Phone = p.Phone
	case !errors.Is(err, storage.ErrNotFound):
		return GetMemberProfileResult{}, err
	}

	m, err := deps.MembershipStore.GetActiveByUser(ctx, acct.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return res, nil
	}
	if err != nil {
		return GetMemberProfileResult{}, err
	}
	pl, err := deps.PlanStore.GetByID(ctx, m.PlanID)
	if err != nil {
		return GetMemberProfileResult{}, err
	}
	res.Membership = &MembershipSummary{
		ID:        m.ID,
		PlanID:    m.PlanID,
		PlanName:  pl.Name,
		StartDate: m.StartDate,
		EndDate:   m.EndDate,
		Status:    m.Status,
	}
	res.PlanPrice = pl.Price
	return res, nil
}
