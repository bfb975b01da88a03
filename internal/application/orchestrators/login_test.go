package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitpro/internal/domain/account"
)

func newLoginFixture(t *testing.T) (*mockAccountStore, LoginDeps, *time.Time) {
	t.Helper()
	acct := account.Account{ID: "u1", Email: "member@fitpro.test", Role: account.RoleMember}
	if err := acct.SetPassword("member-password"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	store := newMockAccountStore(acct)
	now := fixedTime
	return store, LoginDeps{AccountStore: store, Now: func() time.Time { return now }}, &now
}

// TestExecuteLogin_Success tests a correct login returns the account's role.
func TestExecuteLogin_Success(t *testing.T) {
	_, deps, _ := newLoginFixture(t)

	res, err := ExecuteLogin(context.Background(), LoginInput{Email: "member@fitpro.test", Password: "member-password"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AccountID != "u1" || res.Role != account.RoleMember {
		t.Errorf("unexpected result: %+v", res)
	}
}

// TestExecuteLogin_InvalidCredentials tests unknown emails and wrong passwords look the same.
func TestExecuteLogin_InvalidCredentials(t *testing.T) {
	_, deps, _ := newLoginFixture(t)
	ctx := context.Background()

	for _, in := range []LoginInput{
		{Email: "nobody@fitpro.test", Password: "member-password"},
		{Email: "member@fitpro.test", Password: "wrong-password"},
		{Email: "", Password: ""},
	} {
		if _, err := ExecuteLogin(ctx, in, deps); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("ExecuteLogin(%q) = %v, want ErrInvalidCredentials", in.Email, err)
		}
	}
}

// TestExecuteLogin_Lockout tests the account locks after repeated failures and unlocks later.
func TestExecuteLogin_Lockout(t *testing.T) {
	store, deps, now := newLoginFixture(t)
	ctx := context.Background()
	wrong := LoginInput{Email: "member@fitpro.test", Password: "wrong-password"}
	right := LoginInput{Email: "member@fitpro.test", Password: "member-password"}

	for i := 0; i < account.MaxFailedLogins; i++ {
		if _, err := ExecuteLogin(ctx, wrong, deps); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}
	if _, err := ExecuteLogin(ctx, right, deps); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	*now = now.Add(account.LockoutDuration + time.Second)
	if _, err := ExecuteLogin(ctx, right, deps); err != nil {
		t.Fatalf("expected login after lockout window, got %v", err)
	}
	if got := store.byID["u1"]; got.FailedLogins != 0 || !got.LockedUntil.IsZero() {
		t.Errorf("expected counters reset, got failed=%d locked=%v", got.FailedLogins, got.LockedUntil)
	}
}
