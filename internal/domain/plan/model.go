package plan

import (
	"errors"
	"strings"
)

// Bounds for plan fields.
const (
	MaxNameLength     = 100
	MinDurationMonths = 1
	MaxDurationMonths = 120
)

// Domain errors
var (
	ErrEmptyName       = errors.New("plan name cannot be empty")
	ErrNameTooLong     = errors.New("plan name cannot exceed 100 characters")
	ErrNegativePrice   = errors.New("plan price cannot be negative")
	ErrInvalidDuration = errors.New("plan duration must be between 1 and 120 months")
	ErrInactive        = errors.New("plan is not active")
)

// Plan is a purchasable membership product. Price is in cents.
type Plan struct {
	ID             string
	Name           string
	Price          int64
	DurationMonths int
	IsActive       bool
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if p.Price < 0 {
		return ErrNegativePrice
	}
	if p.DurationMonths < MinDurationMonths || p.DurationMonths > MaxDurationMonths {
		return ErrInvalidDuration
	}
	return nil
}

// Deactivate hides the plan from the catalog without removing memberships that reference it.
// POST: IsActive is false
func (p *Plan) Deactivate() {
	p.IsActive = false
}

// DefaultCatalog is the starter catalog seeded into an empty database.
func DefaultCatalog() []Plan {
	return []Plan{
		{Name: "Monthly", Price: 4999, DurationMonths: 1, IsActive: true},
		{Name: "Quarterly", Price: 13499, DurationMonths: 3, IsActive: true},
		{Name: "Yearly", Price: 49999, DurationMonths: 12, IsActive: true},
	}
}
