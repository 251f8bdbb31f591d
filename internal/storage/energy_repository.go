package storage

import (
	"context"
	"database/sql"
	"fmt"

	"taskpilot/pkg/types"
)

// EnergyLogRepository is the SQL-backed EnergyLogStore.
type EnergyLogRepository struct {
	db *sql.DB
}

// Append stores an energy log entry.
func (r *EnergyLogRepository) Append(ctx context.Context, log *types.EnergyLog) error {
	query := `INSERT INTO energy_logs (id, user_id, task_id, energy_level, notes, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		log.ID, log.UserID, nullString(log.TaskID),
		string(log.EnergyLevel), log.Notes, log.LoggedAt)
	if err != nil {
		return fmt.Errorf("insert energy log: %w", err)
	}
	return nil
}

// ListByUser returns the user's most recent energy logs, newest first.
// A zero limit means no limit.
func (r *EnergyLogRepository) ListByUser(ctx context.Context, userID string, limit int) ([]types.EnergyLog, error) {
	query := `SELECT id, user_id, task_id, energy_level, notes, logged_at
		FROM energy_logs WHERE user_id = $1 ORDER BY logged_at DESC, id DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list energy logs: %w", err)
	}
	defer rows.Close()

	var logs []types.EnergyLog
	for rows.Next() {
		var log types.EnergyLog
		var taskID sql.NullString
		var level string
		if err := rows.Scan(&log.ID, &log.UserID, &taskID, &level, &log.Notes, &log.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan energy log: %w", err)
		}
		log.TaskID = taskID.String
		log.EnergyLevel = types.Rating(level)
		logs = append(logs, log)
	}
	return logs, rows.Err()
}
