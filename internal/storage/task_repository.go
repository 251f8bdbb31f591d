package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskpilot/pkg/types"
)

const taskColumns = `id, user_id, category_id, title, description,
	urgency, impact, energy_required, estimated_duration, deadline,
	status, priority_level, priority_score,
	created_at, updated_at, completed_at, actual_duration`

// TaskRepository is the SQL-backed TaskStore.
type TaskRepository struct {
	db *sql.DB
}

// Create inserts a new task.
func (r *TaskRepository) Create(ctx context.Context, task *types.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, nullString(task.CategoryID), task.Title, task.Description,
		string(task.Urgency), string(task.Impact), string(task.EnergyRequired),
		task.EstimatedDuration, task.Deadline,
		string(task.Status), string(task.PriorityLevel), task.PriorityScore,
		task.CreatedAt, task.UpdatedAt, task.CompletedAt, task.ActualDuration)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// GetByID fetches a task, returning ErrNotFound when it does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// Update rewrites every mutable column of the task.
func (r *TaskRepository) Update(ctx context.Context, task *types.Task) error {
	query := `UPDATE tasks SET
		category_id = $1, title = $2, description = $3,
		urgency = $4, impact = $5, energy_required = $6,
		estimated_duration = $7, deadline = $8,
		status = $9, priority_level = $10, priority_score = $11,
		updated_at = $12, completed_at = $13, actual_duration = $14
		WHERE id = $15`

	result, err := r.db.ExecContext(ctx, query,
		nullString(task.CategoryID), task.Title, task.Description,
		string(task.Urgency), string(task.Impact), string(task.EnergyRequired),
		task.EstimatedDuration, task.Deadline,
		string(task.Status), string(task.PriorityLevel), task.PriorityScore,
		task.UpdatedAt, task.CompletedAt, task.ActualDuration,
		task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireRow(result)
}

// Delete removes a task, returning ErrNotFound when it does not exist.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(result)
}

// ListByUser returns the user's tasks, newest first, optionally filtered by
// status. A zero limit means no limit.
func (r *TaskRepository) ListByUser(ctx context.Context, userID string, status types.TaskStatus, limit, offset int) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, string(status))
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", len(args)+1)
		args = append(args, limit)
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", len(args)+1)
		args = append(args, offset)
	}

	return r.queryTasks(ctx, query, args...)
}

// ListOpen returns the user's pending and in-progress tasks.
func (r *TaskRepository) ListOpen(ctx context.Context, userID string) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC, id DESC`
	return r.queryTasks(ctx, query, userID,
		string(types.TaskStatusPending), string(types.TaskStatusInProgress))
}

// ListCompleted returns the user's completed tasks, oldest first, so a
// training corpus is stable across runs.
func (r *TaskRepository) ListCompleted(ctx context.Context, userID string) ([]types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND status = $2
		ORDER BY completed_at ASC, id ASC`
	return r.queryTasks(ctx, query, userID, string(types.TaskStatusCompleted))
}

func (r *TaskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]types.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*types.Task, error) {
	var task types.Task
	var categoryID sql.NullString
	var deadline, completedAt sql.NullTime
	var urgency, impact, energy, status, level string

	err := row.Scan(
		&task.ID, &task.UserID, &categoryID, &task.Title, &task.Description,
		&urgency, &impact, &energy, &task.EstimatedDuration, &deadline,
		&status, &level, &task.PriorityScore,
		&task.CreatedAt, &task.UpdatedAt, &completedAt, &task.ActualDuration)
	if err != nil {
		return nil, err
	}

	task.CategoryID = categoryID.String
	task.Urgency = types.Rating(urgency)
	task.Impact = types.Rating(impact)
	task.EnergyRequired = types.Rating(energy)
	task.Status = types.TaskStatus(status)
	task.PriorityLevel = types.PriorityLevel(level)
	if deadline.Valid {
		t := deadline.Time
		task.Deadline = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		task.CompletedAt = &t
	}
	return &task, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// requireRow converts a zero-row write into ErrNotFound.
func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
