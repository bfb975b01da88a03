package trainer

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength           = 100
	MaxSpecializationLength = 100
	MaxBioLength            = 4000
)

// Domain errors
var (
	ErrEmptyName    = errors.New("trainer name cannot be empty")
	ErrNameTooLong  = errors.New("trainer name cannot exceed 100 characters")
	ErrEmptyEmail   = errors.New("trainer email cannot be empty")
	ErrInvalidEmail = errors.New("trainer email must contain '@'")
	ErrSpecTooLong  = errors.New("specialization cannot exceed 100 characters")
	ErrBioTooLong   = errors.New("bio cannot exceed 4000 characters")
	ErrInactive     = errors.New("trainer is not active")
)

// Trainer is a staff member who can lead classes. Bio is markdown.
type Trainer struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Specialization string
	Bio            string
	IsActive       bool
}

// Validate checks if the Trainer has valid data.
// PRE: Trainer struct is populated
// POST: Returns nil if valid, error otherwise
func (t *Trainer) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if len(t.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(t.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(t.Email, "@") {
		return ErrInvalidEmail
	}
	if len(t.Specialization) > MaxSpecializationLength {
		return ErrSpecTooLong
	}
	if len(t.Bio) > MaxBioLength {
		return ErrBioTooLong
	}
	return nil
}

// Deactivate removes the trainer from active listings. Classes keep their trainer_id.
// POST: IsActive is false
func (t *Trainer) Deactivate() {
	t.IsActive = false
}
