package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fitpro/internal/domain/gymtime"
)

// TimeLayout is the wall-clock format for start and end times.
const TimeLayout = "15:04"

// Domain errors
var (
	ErrEmptyClassID     = errors.New("class ID cannot be empty")
	ErrInvalidDate      = errors.New("scheduled date must be YYYY-MM-DD")
	ErrInvalidStartTime = errors.New("start time must be HH:MM")
	ErrInvalidEndTime   = errors.New("end time must be HH:MM")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
	ErrNegativeBookings = errors.New("current bookings cannot be negative")
	ErrInPast           = errors.New("class session has already taken place")
	ErrFull             = errors.New("class session is full")
)

// Schedule is a dated occurrence of a class. CurrentBookings counts confirmed bookings.
type Schedule struct {
	ID              string
	ClassID         string
	ScheduledDate   string // YYYY-MM-DD
	StartTime       string // HH:MM
	EndTime         string // HH:MM
	CurrentBookings int
}

// Validate checks if the Schedule has valid data.
// PRE: Schedule struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Schedule) Validate() error {
	if strings.TrimSpace(s.ClassID) == "" {
		return ErrEmptyClassID
	}
	if _, err := time.Parse(gymtime.DateLayout, s.ScheduledDate); err != nil {
		return ErrInvalidDate
	}
	start, err := time.Parse(TimeLayout, s.StartTime)
	if err != nil {
		return ErrInvalidStartTime
	}
	end, err := time.Parse(TimeLayout, s.EndTime)
	if err != nil {
		return ErrInvalidEndTime
	}
	if !end.After(start) {
		return ErrEndBeforeStart
	}
	if s.CurrentBookings < 0 {
		return ErrNegativeBookings
	}
	return nil
}

// IsPast reports whether the session's date is before today (YYYY-MM-DD).
// Sessions later today remain bookable.
func (s *Schedule) IsPast(today string) bool {
	return s.ScheduledDate < today
}

// RemainingSpots returns how many bookings the session can still take.
func (s *Schedule) RemainingSpots(maxCapacity int) int {
	if left := maxCapacity - s.CurrentBookings; left > 0 {
		return left
	}
	return 0
}

// IsFull reports whether the session has reached maxCapacity.
func (s *Schedule) IsFull(maxCapacity int) bool {
	return s.CurrentBookings >= maxCapacity
}

// StartsAt returns the session start as an instant in loc.
// PRE: ScheduledDate and StartTime are valid
func (s *Schedule) StartsAt(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(gymtime.DateLayout+" "+TimeLayout, s.ScheduledDate+" "+s.StartTime, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session start %q %q: %w", s.ScheduledDate, s.StartTime, err)
	}
	return t, nil
}
