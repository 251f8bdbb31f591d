package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"taskpilot/pkg/types"
)

// HistoryRepository is the SQL-backed HistoryStore. Old and new value maps
// are stored as JSON text columns.
type HistoryRepository struct {
	db *sql.DB
}

// Append stores a task change record.
func (r *HistoryRepository) Append(ctx context.Context, entry *types.HistoryEntry) error {
	oldValues, err := marshalValues(entry.OldValues)
	if err != nil {
		return fmt.Errorf("encode old values: %w", err)
	}
	newValues, err := marshalValues(entry.NewValues)
	if err != nil {
		return fmt.Errorf("encode new values: %w", err)
	}

	query := `INSERT INTO task_history
		(id, task_id, user_id, change_type, old_values, new_values, change_description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.TaskID, entry.UserID, entry.ChangeType,
		oldValues, newValues, entry.Description, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// ListByTask returns the task's change records, oldest first.
func (r *HistoryRepository) ListByTask(ctx context.Context, taskID string) ([]types.HistoryEntry, error) {
	query := `SELECT id, task_id, user_id, change_type, old_values, new_values, change_description, created_at
		FROM task_history WHERE task_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []types.HistoryEntry
	for rows.Next() {
		var entry types.HistoryEntry
		var oldValues, newValues sql.NullString
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.UserID, &entry.ChangeType,
			&oldValues, &newValues, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		if entry.OldValues, err = unmarshalValues(oldValues); err != nil {
			return nil, fmt.Errorf("decode old values: %w", err)
		}
		if entry.NewValues, err = unmarshalValues(newValues); err != nil {
			return nil, fmt.Errorf("decode new values: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func marshalValues(values map[string]interface{}) (sql.NullString, error) {
	if len(values) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalValues(column sql.NullString) (map[string]interface{}, error) {
	if !column.Valid || column.String == "" {
		return nil, nil
	}
	var values map[string]interface{}
	if err := json.Unmarshal([]byte(column.String), &values); err != nil {
		return nil, err
	}
	return values, nil
}
