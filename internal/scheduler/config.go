// Package scheduler places pending tasks into free time computed from
// availability blocks and existing events.
package scheduler

import "time"

// Config defines the assignment engine configuration.
type Config struct {
	// UrgencyWeight scales the declared urgency level in the priority
	// score. It must dominate the due-date pressure term so an explicit
	// user signal always wins over temporal proximity.
	UrgencyWeight float64 `yaml:"urgency_weight"`
	// DueFloor clamps the remaining time until a task's due date before
	// inversion, so overdue tasks score high but finite.
	DueFloor time.Duration `yaml:"due_floor"`
	// SlotPadding is shaved off both ends of every free slot, leaving
	// transition time around commitments. Zero disables padding.
	SlotPadding time.Duration `yaml:"slot_padding"`
	// MinSlot drops free slots shorter than this after padding. Zero
	// keeps every non-empty slot.
	MinSlot time.Duration `yaml:"min_slot"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		UrgencyWeight: 10,
		DueFloor:      time.Minute,
	}
}
