package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/gymtime"
	"fitpro/internal/domain/membership"
)

// MembershipStoreForAssign defines the membership store interface needed to change plans.
type MembershipStoreForAssign interface {
	Create(ctx context.Context, m membership.Membership) error
	Save(ctx context.Context, m membership.Membership) error
	GetActiveByUser(ctx context.Context, userID string) (membership.Membership, error)
	ListLapsed(ctx context.Context, today string) ([]membership.Membership, error)
}

// AccountLookup finds an account by ID.
type AccountLookup interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
}

// --- Assign Membership ---

// AssignMembershipInput carries input for assigning a plan to a member.
type AssignMembershipInput struct {
	UserID string
	PlanID string
}

// MembershipDeps holds dependencies for the membership orchestrators.
type MembershipDeps struct {
	Tx              TxRunner
	AccountStore    AccountLookup
	PlanStore       PlanStoreForProvision
	MembershipStore MembershipStoreForAssign
	Location        *time.Location
	GenerateID      func() string
	Now             func() time.Time
}

var ErrMemberNotFound = errors.New("member not found")

// ExecuteAssignMembership starts a new membership, cancelling any current one.
// PRE: UserID names an existing account; PlanID names an active plan
// POST: Exactly one active membership exists for the user
func ExecuteAssignMembership(ctx context.Context, input AssignMembershipInput, deps MembershipDeps) (membership.Membership, error) {
	today := gymtime.Today(nowFrom(deps.Now), locOrUTC(deps.Location))

	var created membership.Membership
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := deps.AccountStore.GetByID(ctx, input.UserID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrMemberNotFound
			}
			return err
		}
		p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		m, err := membership.New(newID(deps.GenerateID), input.UserID, p, today)
		if err != nil {
			return err
		}

		current, err := deps.MembershipStore.GetActiveByUser(ctx, input.UserID)
		switch {
		case err == nil:
			if err := current.Cancel(); err != nil {
				return err
			}
			if err := deps.MembershipStore.Save(ctx, current); err != nil {
				return err
			}
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}

		if err := deps.MembershipStore.Create(ctx, m); err != nil {
			return err
		}
		created = m
		return nil
	})
	if err != nil {
		return membership.Membership{}, err
	}

	slog.Info("member_event", "event", "membership_assigned", "user_id", input.UserID, "plan_id", input.PlanID, "end_date", created.EndDate)
	return created, nil
}

// ExecuteCancelMembership cancels the user's active membership.
// PRE: User has an active membership
// POST: That membership is cancelled
func ExecuteCancelMembership(ctx context.Context, userID string, deps MembershipDeps) error {
	m, err := deps.MembershipStore.GetActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return membership.ErrNoActive
		}
		return err
	}
	if err := m.Cancel(); err != nil {
		return err
	}
	if err := deps.MembershipStore.Save(ctx, m); err != nil {
		return err
	}
	slog.Info("member_event", "event", "membership_cancelled", "user_id", userID, "membership_id", m.ID)
	return nil
}

// ExecuteExpireMemberships marks every active membership whose end date has passed as expired.
// POST: Returns the number of memberships expired
func ExecuteExpireMemberships(ctx context.Context, deps MembershipDeps) (int, error) {
	today := gymtime.Today(nowFrom(deps.Now), locOrUTC(deps.Location))

	expired := 0
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		lapsed, err := deps.MembershipStore.ListLapsed(ctx, today)
		if err != nil {
			return err
		}
		for _, m := range lapsed {
			if err := m.Expire(); err != nil {
				return err
			}
			if err := deps.MembershipStore.Save(ctx, m); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		slog.Info("member_event", "event", "memberships_expired", "count", expired, "today", today)
	}
	return expired, nil
}
