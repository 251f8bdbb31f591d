// Package storage provides data access for tasks, feedback, scoring
// models, and task history, backed by PostgreSQL or SQLite.
package storage

import (
	"context"
	"errors"
	"time"

	"taskpilot/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// TaskStore defines task data access.
type TaskStore interface {
	Create(ctx context.Context, task *types.Task) error
	GetByID(ctx context.Context, id string) (*types.Task, error)
	Update(ctx context.Context, task *types.Task) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string, status types.TaskStatus, limit, offset int) ([]types.Task, error)
	// ListOpen returns the user's pending and in-progress tasks.
	ListOpen(ctx context.Context, userID string) ([]types.Task, error)
	// ListCompleted returns the user's completed tasks, the training corpus.
	ListCompleted(ctx context.Context, userID string) ([]types.Task, error)
}

// ModelStore defines access to persisted scoring model artifacts.
type ModelStore interface {
	// GetActiveModel returns the single active model for (user, model type),
	// or (nil, nil) when the user has no active model.
	GetActiveModel(ctx context.Context, userID, modelType string) (*types.ModelRecord, error)
	// SaveModelVersion inserts the record as the new active model and
	// deactivates all previously active models of the same type for the
	// user. Both steps happen in one transaction: at most one row is
	// active per (user_id, model_type) at any time.
	SaveModelVersion(ctx context.Context, record *types.ModelRecord) error
}

// FeedbackStore defines access to prediction feedback records.
type FeedbackStore interface {
	Append(ctx context.Context, fb *types.Feedback) error
	ListByUser(ctx context.Context, userID string) ([]types.Feedback, error)
	// HasNegativeSince reports whether the task received was_useful=false
	// feedback at or after the given time.
	HasNegativeSince(ctx context.Context, taskID string, since time.Time) (bool, error)
}

// HistoryStore defines access to the append-only task change log.
type HistoryStore interface {
	Append(ctx context.Context, entry *types.HistoryEntry) error
	ListByTask(ctx context.Context, taskID string) ([]types.HistoryEntry, error)
}

// EnergyLogStore defines access to self-reported energy levels.
type EnergyLogStore interface {
	Append(ctx context.Context, log *types.EnergyLog) error
	ListByUser(ctx context.Context, userID string, limit int) ([]types.EnergyLog, error)
}

// Store aggregates every repository backed by one database handle.
type Store interface {
	TaskStore() TaskStore
	ModelStore() ModelStore
	FeedbackStore() FeedbackStore
	HistoryStore() HistoryStore
	EnergyLogStore() EnergyLogStore
	Close() error
}
