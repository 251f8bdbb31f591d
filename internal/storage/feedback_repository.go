package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskpilot/pkg/types"
)

// FeedbackRepository is the SQL-backed FeedbackStore.
type FeedbackRepository struct {
	db *sql.DB
}

// Append stores a feedback record.
func (r *FeedbackRepository) Append(ctx context.Context, fb *types.Feedback) error {
	query := `INSERT INTO task_feedback
		(id, task_id, user_id, feedback_type, was_useful, actual_priority, actual_completion_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.TaskID, fb.UserID, fb.FeedbackType, fb.WasUseful,
		string(fb.ActualPriority), fb.ActualCompletionTime, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListByUser returns the user's feedback records, oldest first.
func (r *FeedbackRepository) ListByUser(ctx context.Context, userID string) ([]types.Feedback, error) {
	query := `SELECT id, task_id, user_id, feedback_type, was_useful, actual_priority, actual_completion_time, created_at
		FROM task_feedback WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var records []types.Feedback
	for rows.Next() {
		var fb types.Feedback
		var priority string
		if err := rows.Scan(&fb.ID, &fb.TaskID, &fb.UserID, &fb.FeedbackType,
			&fb.WasUseful, &priority, &fb.ActualCompletionTime, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		fb.ActualPriority = types.PriorityLevel(priority)
		records = append(records, fb)
	}
	return records, rows.Err()
}

// HasNegativeSince reports whether the task received was_useful=false
// feedback at or after the given time.
func (r *FeedbackRepository) HasNegativeSince(ctx context.Context, taskID string, since time.Time) (bool, error) {
	query := `SELECT COUNT(1) FROM task_feedback
		WHERE task_id = $1 AND was_useful = FALSE AND created_at >= $2`

	var count int
	if err := r.db.QueryRowContext(ctx, query, taskID, since).Scan(&count); err != nil {
		return false, fmt.Errorf("count negative feedback: %w", err)
	}
	return count > 0, nil
}
