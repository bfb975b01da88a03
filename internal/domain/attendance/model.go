package attendance

import (
	"errors"
	"fmt"
	"time"
)

// InProgress is the duration label for an open visit.
const InProgress = "In progress"

// Domain errors
var (
	ErrEmptyUserID      = errors.New("attendance must be associated with a member")
	ErrNoCheckIn        = errors.New("check-in time must be set")
	ErrCheckOutBefore   = errors.New("check-out time cannot be before check-in time")
	ErrAlreadyCheckedIn = errors.New("member is already checked in")
	ErrNotCheckedIn     = errors.New("member is not checked in")
)

// Attendance records one gym visit. CheckOutTime is zero while the visit is open.
type Attendance struct {
	ID           string
	UserID       string
	CheckInTime  time.Time
	CheckOutTime time.Time
}

// Validate checks if the Attendance has valid data.
// PRE: Attendance struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: UserID must not be empty, CheckInTime must be set
func (a *Attendance) Validate() error {
	if a.UserID == "" {
		return ErrEmptyUserID
	}
	if a.CheckInTime.IsZero() {
		return ErrNoCheckIn
	}
	if !a.CheckOutTime.IsZero() && a.CheckOutTime.Before(a.CheckInTime) {
		return ErrCheckOutBefore
	}
	return nil
}

// IsOpen returns true while the member has not checked out.
// INVARIANT: Attendance fields are not mutated
func (a *Attendance) IsOpen() bool {
	return a.CheckOutTime.IsZero()
}

// CheckOut closes the visit at now.
// PRE: visit is open, now is not before CheckInTime
// POST: CheckOutTime is now
func (a *Attendance) CheckOut(now time.Time) error {
	if !a.IsOpen() {
		return ErrNotCheckedIn
	}
	if now.Before(a.CheckInTime) {
		return ErrCheckOutBefore
	}
	a.CheckOutTime = now
	return nil
}

// Duration returns the length of a closed visit, or zero while open.
func (a *Attendance) Duration() time.Duration {
	if a.IsOpen() {
		return 0
	}
	return a.CheckOutTime.Sub(a.CheckInTime)
}

// FormatDuration renders a visit length as "Xh Ym", or "In progress" when open.
// Minutes are floored within the hour.
func (a *Attendance) FormatDuration() string {
	if a.IsOpen() {
		return InProgress
	}
	d := a.Duration()
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
