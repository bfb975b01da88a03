package booking

import (
	"errors"
	"strings"
	"time"
)

// StatusConfirmed is the only booking status. Cancelling removes the row.
const StatusConfirmed = "confirmed"

// Domain errors
var (
	ErrEmptyUserID     = errors.New("booking user ID cannot be empty")
	ErrEmptyScheduleID = errors.New("booking schedule ID cannot be empty")
	ErrInvalidStatus   = errors.New("booking status must be confirmed")
	ErrAlreadyBooked   = errors.New("you have already booked this class")
	ErrNotBooked       = errors.New("you have not booked this class")
)

// Booking reserves one spot in a scheduled session for a member.
type Booking struct {
	ID         string
	UserID     string
	ScheduleID string
	Status     string
	CreatedAt  time.Time
}

// Validate checks if the Booking has valid data.
// PRE: Booking struct is populated
// POST: Returns nil if valid, error otherwise
func (b *Booking) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(b.ScheduleID) == "" {
		return ErrEmptyScheduleID
	}
	if b.Status != StatusConfirmed {
		return ErrInvalidStatus
	}
	return nil
}
