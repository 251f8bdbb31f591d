// Package types provides the shared data structures for tasks,
// feedback, and persisted scoring models.
package types

import (
	"errors"
	"time"
)

// Rating represents a coarse low/medium/high classification. It is used
// for task urgency, impact, and required energy. An empty Rating means
// the field was not set by the user.
type Rating string

const (
	RatingLow    Rating = "low"
	RatingMedium Rating = "medium"
	RatingHigh   Rating = "high"
)

// Valid reports whether r is one of the known rating values.
func (r Rating) Valid() bool {
	switch r {
	case RatingLow, RatingMedium, RatingHigh:
		return true
	default:
		return false
	}
}

// OrDefault returns r, or RatingMedium when r is unset.
func (r Rating) OrDefault() Rating {
	if r == "" {
		return RatingMedium
	}
	return r
}

// PriorityLevel represents the rule-derived priority category of a task.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p PriorityLevel) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusArchived   TaskStatus = "archived"
	TaskStatusPostponed  TaskStatus = "postponed"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted,
		TaskStatusArchived, TaskStatusPostponed:
		return true
	default:
		return false
	}
}

// Task represents a user task with its scheduling attributes and the
// rule-derived priority fields.
//
// PriorityLevel and PriorityScore are consistent with the rule formula at
// the moment they were last computed. They are not recomputed automatically
// when other fields change; recomputation is an explicit operation.
type Task struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	CategoryID  string `json:"category_id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Urgency        Rating `json:"urgency,omitempty"`
	Impact         Rating `json:"impact,omitempty"`
	EnergyRequired Rating `json:"energy_required,omitempty"`

	// EstimatedDuration is in minutes. Zero means not estimated.
	EstimatedDuration int        `json:"estimated_duration,omitempty"`
	Deadline          *time.Time `json:"deadline,omitempty"`

	Status TaskStatus `json:"status"`

	PriorityLevel PriorityLevel `json:"priority_level,omitempty"`
	PriorityScore int           `json:"priority_score,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// ActualDuration is in minutes, filled when the task completes.
	ActualDuration int `json:"actual_duration,omitempty"`
}

// Validate checks the task's field domains.
func (t *Task) Validate() error {
	if t.Title == "" {
		return errors.New("task title is required")
	}
	if t.UserID == "" {
		return errors.New("task user_id is required")
	}
	if t.Status != "" && !t.Status.Valid() {
		return errors.New("invalid task status: " + string(t.Status))
	}
	for _, r := range []Rating{t.Urgency, t.Impact, t.EnergyRequired} {
		if r != "" && !r.Valid() {
			return errors.New("invalid rating value: " + string(r))
		}
	}
	if t.EstimatedDuration < 0 {
		return errors.New("estimated_duration cannot be negative")
	}
	return nil
}

// IsOpen reports whether the task is still actionable (pending or started).
func (t *Task) IsOpen() bool {
	return t.Status == TaskStatusPending || t.Status == TaskStatusInProgress
}
