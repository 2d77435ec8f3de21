// Package models defines the core domain types for lifeorg.
package models

import "time"

// Urgency bounds for tasks. 5 is the most urgent.
const (
	UrgencyMin = 1
	UrgencyMax = 5
)

// Event represents a fixed-time calendar item. When IsTask is true the
// event is the committed placement of a task and TaskID references the
// originating task.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	IsTask      bool      `json:"is_task"`
	TaskID      string    `json:"task_id,omitempty"`
	Completed   bool      `json:"completed"`
}

// Task represents a unit of flexible work awaiting placement on the
// timeline. While Scheduled is false no placement event exists for it.
type Task struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Duration  time.Duration `json:"duration"`
	Urgency   int           `json:"urgency"`
	DueDate   time.Time     `json:"due_date"`
	Scheduled bool          `json:"scheduled"`
	Completed bool          `json:"completed"`
}

// Block is a recurring weekly window of availability. Start and End are
// offsets from the start of the week (Monday 00:00 in the configured
// zone). Blocks are the only source of schedulable time.
type Block struct {
	ID    string        `json:"id"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// FreeSlot is a derived interval of schedulable time. Slots are computed
// fresh on every scheduling run and never persisted.
type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Placement pairs a task with the event that commits it to the timeline.
type Placement struct {
	Task  Task  `json:"task"`
	Event Event `json:"event"`
}

// AuditEntry records a state-mutating action for the audit trail.
type AuditEntry struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	InputsHash string    `json:"inputs_hash"`
	Outcome    string    `json:"outcome"`
	Details    string    `json:"details,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
