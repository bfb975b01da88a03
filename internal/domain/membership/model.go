package membership

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fitpro/internal/domain/gymtime"
	"fitpro/internal/domain/plan"
)

// Status constants
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusActive, StatusExpired, StatusCancelled}

// Domain errors
var (
	ErrEmptyUserID    = errors.New("membership user ID cannot be empty")
	ErrEmptyPlanID    = errors.New("membership plan ID cannot be empty")
	ErrInvalidStatus  = errors.New("status must be one of: active, expired, cancelled")
	ErrInvalidDate    = errors.New("membership dates must be YYYY-MM-DD")
	ErrEndBeforeStart = errors.New("membership end date must not precede start date")
	ErrNotActive      = errors.New("membership is not active")
	ErrNoActive       = errors.New("member has no active membership")
)

// Membership ties a member to a plan for a date range. Dates are YYYY-MM-DD.
type Membership struct {
	ID        string
	UserID    string
	PlanID    string
	StartDate string
	EndDate   string
	Status    string
}

// EndDateFor returns the last covered date for a plan of months starting on start.
// PRE: start is YYYY-MM-DD, months >= 0
// POST: Returns start plus months with the day clamped to the target month
func EndDateFor(start string, months int) (string, error) {
	d, err := time.Parse(gymtime.DateLayout, start)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, start)
	}
	return gymtime.AddMonths(d, months).Format(gymtime.DateLayout), nil
}

// New creates an active membership for userID on p starting today.
// PRE: p is active and valid; today is YYYY-MM-DD
// POST: Returns an active membership with EndDate = EndDateFor(today, p.DurationMonths)
func New(id, userID string, p plan.Plan, today string) (Membership, error) {
	if !p.IsActive {
		return Membership{}, plan.ErrInactive
	}
	end, err := EndDateFor(today, p.DurationMonths)
	if err != nil {
		return Membership{}, err
	}
	m := Membership{
		ID:        id,
		UserID:    userID,
		PlanID:    p.ID,
		StartDate: today,
		EndDate:   end,
		Status:    StatusActive,
	}
	return m, m.Validate()
}

// Validate checks if the Membership has valid data.
// PRE: Membership struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Membership) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(m.PlanID) == "" {
		return ErrEmptyPlanID
	}
	if !isValidStatus(m.Status) {
		return ErrInvalidStatus
	}
	if _, err := time.Parse(gymtime.DateLayout, m.StartDate); err != nil {
		return ErrInvalidDate
	}
	if _, err := time.Parse(gymtime.DateLayout, m.EndDate); err != nil {
		return ErrInvalidDate
	}
	// YYYY-MM-DD compares lexically.
	if m.EndDate < m.StartDate {
		return ErrEndBeforeStart
	}
	return nil
}

// IsActive returns true if the membership status is active.
// INVARIANT: Membership fields are not mutated
func (m *Membership) IsActive() bool {
	return m.Status == StatusActive
}

// IsLapsed reports whether an active membership ended before today.
func (m *Membership) IsLapsed(today string) bool {
	return m.IsActive() && m.EndDate < today
}

// Cancel ends an active membership early.
// PRE: Membership is active
// POST: Status is cancelled
func (m *Membership) Cancel() error {
	if !m.IsActive() {
		return ErrNotActive
	}
	m.Status = StatusCancelled
	return nil
}

// Expire marks an active membership as expired.
// PRE: Membership is active
// POST: Status is expired
func (m *Membership) Expire() error {
	if !m.IsActive() {
		return ErrNotActive
	}
	m.Status = StatusExpired
	return nil
}

func isValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
