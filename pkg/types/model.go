package types

import "time"

// ModelTypePriorityPredictor is the model type trained from completed-task
// history and used to score pending tasks.
const ModelTypePriorityPredictor = "priority_predictor"

// ModelRecord is a persisted, user-scoped model artifact. ModelData is an
// opaque serialized blob owned by the scoring package; the surrounding
// metadata is what storage and the API layer operate on.
//
// At most one record is active per (user_id, model_type). Saving a new
// version deactivates the previous active record, it does not delete it.
type ModelRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ModelType    string    `json:"model_type"`
	ModelVersion string    `json:"model_version"`
	ModelData    []byte    `json:"-"`
	IsActive     bool      `json:"is_active"`
	TrainedAt    time.Time `json:"trained_at"`
}

// Feedback records a user's judgement of a prediction. Negative feedback
// (WasUseful=false) doubles as a retraining signal.
type Feedback struct {
	ID           string `json:"id"`
	TaskID       string `json:"task_id"`
	UserID       string `json:"user_id"`
	FeedbackType string `json:"feedback_type"`
	WasUseful    bool   `json:"was_useful"`

	ActualPriority PriorityLevel `json:"actual_priority,omitempty"`
	// ActualCompletionTime is in minutes. Zero means not reported.
	ActualCompletionTime int `json:"actual_completion_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Known feedback types, matching what the frontend submits.
const (
	FeedbackTypePriority   = "priority"
	FeedbackTypeSchedule   = "schedule"
	FeedbackTypeCompletion = "completion"
)

// HistoryEntry is an append-only record of a task change, written by the
// request layer on create/update/status transitions and priority recomputes.
type HistoryEntry struct {
	ID          string                 `json:"id"`
	TaskID      string                 `json:"task_id"`
	UserID      string                 `json:"user_id"`
	ChangeType  string                 `json:"change_type"`
	OldValues   map[string]interface{} `json:"old_values,omitempty"`
	NewValues   map[string]interface{} `json:"new_values,omitempty"`
	Description string                 `json:"change_description,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// History change types.
const (
	ChangeTypeCreated       = "created"
	ChangeTypeUpdated       = "updated"
	ChangeTypeStatusChanged = "status_changed"
	ChangeTypeRecomputed    = "priority_recomputed"
	ChangeTypeDeleted       = "deleted"
)

// EnergyLog records a self-reported energy level, optionally tied to a task.
type EnergyLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskID      string    `json:"task_id,omitempty"`
	EnergyLevel Rating    `json:"energy_level"`
	Notes       string    `json:"notes,omitempty"`
	LoggedAt    time.Time `json:"logged_at"`
}
