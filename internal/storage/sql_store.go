package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Database drivers registered for config-selected backends.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Options tunes the database connection pool.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// SQLStore is the database-backed Store implementation. All repositories
// share one *sql.DB handle and use $N placeholders, which both supported
// drivers accept.
type SQLStore struct {
	db *sql.DB

	tasks    *TaskRepository
	models   *ModelRepository
	feedback *FeedbackRepository
	history  *HistoryRepository
	energy   *EnergyLogRepository
}

// Open connects to the database, verifies the connection, and ensures the
// schema exists. Supported drivers are "sqlite3" and "postgres".
func Open(ctx context.Context, driver, dsn string, opts Options) (*SQLStore, error) {
	switch driver {
	case "sqlite3", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &SQLStore{
		db:       db,
		tasks:    &TaskRepository{db: db},
		models:   &ModelRepository{db: db},
		feedback: &FeedbackRepository{db: db},
		history:  &HistoryRepository{db: db},
		energy:   &EnergyLogRepository{db: db},
	}, nil
}

// TaskStore returns the task repository.
func (s *SQLStore) TaskStore() TaskStore { return s.tasks }

// ModelStore returns the model repository.
func (s *SQLStore) ModelStore() ModelStore { return s.models }

// FeedbackStore returns the feedback repository.
func (s *SQLStore) FeedbackStore() FeedbackStore { return s.feedback }

// HistoryStore returns the history repository.
func (s *SQLStore) HistoryStore() HistoryStore { return s.history }

// EnergyLogStore returns the energy log repository.
func (s *SQLStore) EnergyLogStore() EnergyLogStore { return s.energy }

// Close closes the underlying database handle.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
