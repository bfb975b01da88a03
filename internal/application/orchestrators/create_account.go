package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fitpro/internal/adapters/storage"
	"fitpro/internal/domain/account"
	"fitpro/internal/domain/profile"
)

// AccountStoreForCreate defines the store interface needed by CreateAccount.
type AccountStoreForCreate interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Create(ctx context.Context, a account.Account) error
	Count(ctx context.Context) (int, error)
}

// ProfileStoreForCreate defines the profile store interface needed by CreateAccount.
type ProfileStoreForCreate interface {
	Save(ctx context.Context, p profile.Profile) error
}

// CreateAccountInput carries input for the orchestrator.
type CreateAccountInput struct {
	Email    string
	Password string
	Role     string
	FullName string
	Phone    string
}

// CreateAccountDeps holds dependencies for CreateAccount.
type CreateAccountDeps struct {
	Tx           TxRunner
	AccountStore AccountStoreForCreate
	ProfileStore ProfileStoreForCreate
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailAlreadyExists = errors.New("an account with this email already exists")

// ExecuteCreateAccount creates an identity, its role and its profile in one transaction.
// PRE: Valid email, password >= 8 chars, valid role, non-empty full name
// POST: Identity, role and profile exist, or nothing was written
// INVARIANT: Email must be unique
func ExecuteCreateAccount(ctx context.Context, input CreateAccountInput, deps CreateAccountDeps) (string, error) {
	acct := account.Account{
		ID:        newID(deps.GenerateID),
		Email:     account.NormalizeEmail(input.Email),
		Role:      input.Role,
		CreatedAt: nowFrom(deps.Now),
	}
	if err := acct.Validate(); err != nil {
		return "", err
	}

	prof := profile.Profile{
		ID:       acct.ID,
		FullName: strings.TrimSpace(input.FullName),
		Phone:    strings.TrimSpace(input.Phone),
	}
	if err := prof.Validate(); err != nil {
		return "", err
	}

	// Hash before opening the transaction; bcrypt is slow.
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	err := deps.Tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := deps.AccountStore.GetByEmail(ctx, acct.Email); err == nil {
			return ErrEmailAlreadyExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := deps.AccountStore.Create(ctx, acct); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				return ErrEmailAlreadyExists
			}
			return err
		}
		return deps.ProfileStore.Save(ctx, prof)
	})
	if err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_created", "email", acct.Email, "role", acct.Role)
	return acct.ID, nil
}

// ExecuteSeedAdmin creates a default admin account if no accounts exist.
// PRE: Database is migrated
// POST: Admin account created if count == 0
func ExecuteSeedAdmin(ctx context.Context, deps CreateAccountDeps, email, password string) error {
	count, err := deps.AccountStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:    email,
		Password: password,
		Role:     account.RoleAdmin,
		FullName: "Administrator",
	}, deps)
	if err != nil {
		return err
	}

	slog.Info("auth_event", "event", "admin_seeded", "email", email)
	return nil
}
