package account_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fitpro/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr error
	}{
		{
			name:    "valid admin account",
			account: account.Account{ID: "1", Email: "admin@fitpro.test", Role: account.RoleAdmin},
		},
		{
			name:    "valid member account",
			account: account.Account{ID: "2", Email: "member@fitpro.test", Role: account.RoleMember},
		},
		{
			name:    "empty email",
			account: account.Account{ID: "3", Email: "  ", Role: account.RoleMember},
			wantErr: account.ErrEmptyEmail,
		},
		{
			name:    "email without at sign",
			account: account.Account{ID: "4", Email: "member.fitpro.test", Role: account.RoleMember},
			wantErr: account.ErrInvalidEmail,
		},
		{
			name:    "email too long",
			account: account.Account{ID: "5", Email: strings.Repeat("a", 250) + "@x.io", Role: account.RoleMember},
			wantErr: account.ErrEmailTooLong,
		},
		{
			name:    "unknown role",
			account: account.Account{ID: "6", Email: "coach@fitpro.test", Role: "coach"},
			wantErr: account.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests the password length rule and hashing.
func TestAccount_SetPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "empty", password: "", wantErr: account.ErrEmptyPassword},
		{name: "too short", password: "short12", wantErr: account.ErrPasswordTooShort},
		{name: "minimum length", password: "exactly8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a account.Account
			err := a.SetPassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("SetPassword() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if a.PasswordHash == "" || a.PasswordHash == tt.password {
				t.Errorf("PasswordHash = %q, want a bcrypt hash", a.PasswordHash)
			}
			if err := a.CheckPassword(tt.password); err != nil {
				t.Errorf("CheckPassword(correct) = %v", err)
			}
			if err := a.CheckPassword("wrong-password"); !errors.Is(err, account.ErrWrongPassword) {
				t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
			}
		})
	}
}

// TestAccount_CheckPassword_NoHash verifies an account without a hash never authenticates.
func TestAccount_CheckPassword_NoHash(t *testing.T) {
	a := account.Account{}
	if err := a.CheckPassword(""); !errors.Is(err, account.ErrWrongPassword) {
		t.Errorf("CheckPassword() = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout verifies the account locks after five failures and unlocks after the window.
func TestAccount_Lockout(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := account.Account{}

	for i := 0; i < account.MaxFailedLogins-1; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("account locked before reaching the failure limit")
	}

	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("account should be locked after the failure limit")
	}
	if a.IsLocked(now.Add(account.LockoutDuration)) {
		t.Error("lock should expire after the lockout duration")
	}

	a.ResetFailedLogins()
	if a.FailedLogins != 0 || !a.LockedUntil.IsZero() {
		t.Errorf("after reset FailedLogins=%d LockedUntil=%v", a.FailedLogins, a.LockedUntil)
	}
}

// TestNormalizeEmail verifies lookups are case and whitespace insensitive.
func TestNormalizeEmail(t *testing.T) {
	if got := account.NormalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}
