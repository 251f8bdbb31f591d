package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskpilot/pkg/types"
)

// ModelRepository is the SQL-backed ModelStore.
type ModelRepository struct {
	db *sql.DB
}

// GetActiveModel fetches the active model for (user, model type). A user
// with no active model yields (nil, nil), not an error: callers treat it
// as "rank heuristically".
func (r *ModelRepository) GetActiveModel(ctx context.Context, userID, modelType string) (*types.ModelRecord, error) {
	query := `SELECT id, user_id, model_type, model_version, model_data, is_active, trained_at
		FROM task_models
		WHERE user_id = $1 AND model_type = $2 AND is_active = TRUE
		ORDER BY trained_at DESC
		LIMIT 1`

	var record types.ModelRecord
	var data string
	err := r.db.QueryRowContext(ctx, query, userID, modelType).Scan(
		&record.ID, &record.UserID, &record.ModelType, &record.ModelVersion,
		&data, &record.IsActive, &record.TrainedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active model: %w", err)
	}
	record.ModelData = []byte(data)
	return &record, nil
}

// SaveModelVersion deactivates the user's previously active models of the
// same type and inserts the new record as active, in one transaction.
func (r *ModelRepository) SaveModelVersion(ctx context.Context, record *types.ModelRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save model: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE task_models SET is_active = FALSE
		WHERE user_id = $1 AND model_type = $2 AND is_active = TRUE`,
		record.UserID, record.ModelType)
	if err != nil {
		return fmt.Errorf("deactivate previous models: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO task_models (id, user_id, model_type, model_version, model_data, is_active, trained_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID, record.UserID, record.ModelType, record.ModelVersion,
		string(record.ModelData), record.IsActive, record.TrainedAt)
	if err != nil {
		return fmt.Errorf("insert model version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save model: %w", err)
	}
	return nil
}
