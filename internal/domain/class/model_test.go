package class_test

import (
	"errors"
	"testing"

	"fitpro/internal/domain/class"
)

func TestClass_ApplyDefaults(t *testing.T) {
	c := class.Class{Name: "Yoga", TrainerID: "  "}
	c.ApplyDefaults()
	if c.DurationMinutes != class.DefaultDurationMinutes {
		t.Errorf("DurationMinutes = %d, want %d", c.DurationMinutes, class.DefaultDurationMinutes)
	}
	if c.MaxCapacity != class.DefaultMaxCapacity {
		t.Errorf("MaxCapacity = %d, want %d", c.MaxCapacity, class.DefaultMaxCapacity)
	}
	if c.HasTrainer() {
		t.Error("blank trainer id should become unassigned")
	}

	explicit := class.Class{Name: "HIIT", DurationMinutes: 45, MaxCapacity: 12}
	explicit.ApplyDefaults()
	if explicit.DurationMinutes != 45 || explicit.MaxCapacity != 12 {
		t.Errorf("explicit values overwritten: %+v", explicit)
	}
}

func TestClass_Validate(t *testing.T) {
	tests := []struct {
		name    string
		class   class.Class
		wantErr error
	}{
		{name: "valid", class: class.Class{Name: "Yoga", DurationMinutes: 60, MaxCapacity: 20}},
		{name: "bounds", class: class.Class{Name: "Marathon", DurationMinutes: 600, MaxCapacity: 1000}},
		{name: "empty name", class: class.Class{DurationMinutes: 60, MaxCapacity: 20}, wantErr: class.ErrEmptyName},
		{name: "zero duration", class: class.Class{Name: "x", DurationMinutes: 0, MaxCapacity: 20}, wantErr: class.ErrInvalidDuration},
		{name: "negative duration", class: class.Class{Name: "x", DurationMinutes: -5, MaxCapacity: 20}, wantErr: class.ErrInvalidDuration},
		{name: "zero capacity", class: class.Class{Name: "x", DurationMinutes: 60, MaxCapacity: 0}, wantErr: class.ErrInvalidCapacity},
		{name: "huge capacity", class: class.Class{Name: "x", DurationMinutes: 60, MaxCapacity: 1001}, wantErr: class.ErrInvalidCapacity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.class.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrainerDisplayName(t *testing.T) {
	tests := []struct {
		id, name, want string
	}{
		{"", "", class.UnassignedTrainer},
		{"t1", "Sam Lee", "Sam Lee"},
		// Inactive trainers still resolve by id; only a NULL id reads as unassigned.
		{"t2", "Former Coach", "Former Coach"},
	}
	for _, tt := range tests {
		if got := class.TrainerDisplayName(tt.id, tt.name); got != tt.want {
			t.Errorf("TrainerDisplayName(%q, %q) = %q, want %q", tt.id, tt.name, got, tt.want)
		}
	}
}
