package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	emailAdapter "fitpro/internal/adapters/email"
	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/gymtime"
	"fitpro/internal/domain/membership"
	"fitpro/internal/domain/plan"
)

// PlanStoreForProvision defines the plan lookup needed when assigning a plan.
type PlanStoreForProvision interface {
	GetByID(ctx context.Context, id string) (plan.Plan, error)
}

// MembershipStoreForProvision defines the membership store interface needed by ProvisionMember.
type MembershipStoreForProvision interface {
	Create(ctx context.Context, m membership.Membership) error
}

// ProvisionMemberInput carries input for creating a member with an optional plan.
type ProvisionMemberInput struct {
	FullName string
	Email    string
	Phone    string
	Password string
	PlanID   string // empty for no membership
}

// ProvisionMemberResult describes what was created.
type ProvisionMemberResult struct {
	UserID     string
	Membership *membership.Membership
	PlanName   string
}

// ProvisionMemberDeps holds dependencies for ProvisionMember.
type ProvisionMemberDeps struct {
	Tx              TxRunner
	AccountStore    AccountStoreForCreate
	ProfileStore    ProfileStoreForCreate
	PlanStore       PlanStoreForProvision
	MembershipStore MembershipStoreForProvision
	Mailer          emailAdapter.Sender // nil disables the welcome email
	ReplyTo         string
	Location        *time.Location
	GenerateID      func() string
	Now             func() time.Time
}

var ErrPlanNotFound = errors.New("membership plan not found")

// ExecuteProvisionMember creates the identity, member role, profile and optional
// membership in one transaction, then sends a welcome email.
// PRE: Input passes account and profile validation
// POST: Either every record exists or none does; email failure does not undo the member
// INVARIANT: A member has at most one active membership
func ExecuteProvisionMember(ctx context.Context, input ProvisionMemberInput, deps ProvisionMemberDeps) (ProvisionMemberResult, error) {
	now := nowFrom(deps.Now)
	today := gymtime.Today(now, locOrUTC(deps.Location))

	var result ProvisionMemberResult
	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		userID, err := ExecuteCreateAccount(ctx, CreateAccountInput{
			Email:    input.Email,
			Password: input.Password,
			Role:     account.RoleMember,
			FullName: input.FullName,
			Phone:    input.Phone,
		}, CreateAccountDeps{
			Tx:           deps.Tx,
			AccountStore: deps.AccountStore,
			ProfileStore: deps.ProfileStore,
			GenerateID:   deps.GenerateID,
			Now:          deps.Now,
		})
		if err != nil {
			return err
		}
		result.UserID = userID

		if input.PlanID == "" {
			return nil
		}
		p, err := deps.PlanStore.GetByID(ctx, input.PlanID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		m, err := membership.New(newID(deps.GenerateID), userID, p, today)
		if err != nil {
			return err
		}
		if err := deps.MembershipStore.Create(ctx, m); err != nil {
			return fmt.Errorf("create membership: %w", err)
		}
		result.Membership = &m
		result.PlanName = p.Name
		return nil
	})
	if err != nil {
		return ProvisionMemberResult{}, err
	}

	slog.Info("member_event", "event", "member_provisioned", "user_id", result.UserID, "plan_id", input.PlanID)
	sendWelcome(ctx, deps.Mailer, emailAdapter.Welcome{
		To:       account.NormalizeEmail(input.Email),
		FullName: input.FullName,
		PlanName: result.PlanName,
		EndDate:  endDateOf(result.Membership),
		ReplyTo:  deps.ReplyTo,
	})
	return result, nil
}

func endDateOf(m *membership.Membership) string {
	if m == nil {
		return ""
	}
	return m.EndDate
}

// sendWelcome delivers the welcome email; failures are logged and swallowed.
func sendWelcome(ctx context.Context, mailer emailAdapter.Sender, w emailAdapter.Welcome) {
	if mailer == nil {
		return
	}
	req, err := w.Request()
	if err != nil {
		slog.Error("email_event", "event", "welcome_render_failed", "to", w.To, "error", err)
		return
	}
	res, err := mailer.Send(ctx, req)
	if err != nil {
		slog.Error("email_event", "event", "welcome_send_failed", "to", w.To, "error", err)
		return
	}
	slog.Info("email_event", "event", "welcome_sent", "to", w.To, "message_id", res.MessageID)
}
