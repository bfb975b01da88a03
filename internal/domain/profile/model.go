package profile

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxPhoneLength = 30
)

// Domain errors
var (
	ErrEmptyID       = errors.New("profile ID cannot be empty")
	ErrEmptyFullName = errors.New("full name cannot be empty")
	ErrNameTooLong   = errors.New("full name cannot exceed 100 characters")
	ErrPhoneTooLong  = errors.New("phone cannot exceed 30 characters")
)

// Profile is the descriptive record of a person. ID equals the identity ID.
type Profile struct {
	ID       string
	FullName string
	Phone    string
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(p.FullName) == "" {
		return ErrEmptyFullName
	}
	if len(p.FullName) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(p.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	return nil
}
