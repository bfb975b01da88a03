package class

import (
	"errors"
	"strings"
)

// Bounds and defaults for class fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 4000
	MinDurationMinutes   = 1
	MaxDurationMinutes   = 600
	MinCapacity          = 1
	MaxCapacity          = 1000

	DefaultDurationMinutes = 60
	DefaultMaxCapacity     = 20
)

// UnassignedTrainer is the display name for a class without a trainer.
const UnassignedTrainer = "Unassigned"

// Domain errors
var (
	ErrEmptyName       = errors.New("class name cannot be empty")
	ErrNameTooLong     = errors.New("class name cannot exceed 100 characters")
	ErrDescTooLong     = errors.New("class description cannot exceed 4000 characters")
	ErrInvalidDuration = errors.New("class duration must be between 1 and 600 minutes")
	ErrInvalidCapacity = errors.New("class capacity must be between 1 and 1000")
	ErrInactive        = errors.New("class is not active")
)

// Class is a bookable class type. Description is markdown; TrainerID is empty when unassigned.
type Class struct {
	ID              string
	Name            string
	Description     string
	DurationMinutes int
	MaxCapacity     int
	TrainerID       string
	IsActive        bool
}

// ApplyDefaults fills omitted numeric fields with the catalog defaults.
// POST: zero DurationMinutes and MaxCapacity are replaced by their defaults
func (c *Class) ApplyDefaults() {
	if c.DurationMinutes == 0 {
		c.DurationMinutes = DefaultDurationMinutes
	}
	if c.MaxCapacity == 0 {
		c.MaxCapacity = DefaultMaxCapacity
	}
	c.TrainerID = strings.TrimSpace(c.TrainerID)
}

// Validate checks if the Class has valid data.
// PRE: Class struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Class) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(c.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if c.DurationMinutes < MinDurationMinutes || c.DurationMinutes > MaxDurationMinutes {
		return ErrInvalidDuration
	}
	if c.MaxCapacity < MinCapacity || c.MaxCapacity > MaxCapacity {
		return ErrInvalidCapacity
	}
	return nil
}

// HasTrainer reports whether a trainer is assigned.
func (c *Class) HasTrainer() bool {
	return c.TrainerID != ""
}

// TrainerDisplayName returns the label shown for a class's trainer. A class with
// a trainer_id shows that trainer's name even when the trainer is inactive.
func TrainerDisplayName(trainerID, trainerName string) string {
	if trainerID == "" {
		return UnassignedTrainer
	}
	return trainerName
}

// Deactivate hides the class from listings; existing schedules are kept.
// POST: IsActive is false
func (c *Class) Deactivate() {
	c.IsActive = false
}
