package storage

// Schema statements are written in the dialect subset shared by SQLite
// and PostgreSQL so one set of DDL serves both drivers.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category_id TEXT,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		urgency TEXT NOT NULL DEFAULT '',
		impact TEXT NOT NULL DEFAULT '',
		energy_required TEXT NOT NULL DEFAULT '',
		estimated_duration INTEGER NOT NULL DEFAULT 0,
		deadline TIMESTAMP,
		status TEXT NOT NULL DEFAULT 'pending',
		priority_level TEXT NOT NULL DEFAULT '',
		priority_score INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		actual_duration INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_status ON tasks(user_id, status)`,

	`CREATE TABLE IF NOT EXISTS task_models (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		model_type TEXT NOT NULL,
		model_version TEXT NOT NULL,
		model_data TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT FALSE,
		trained_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_models_user_type_active ON task_models(user_id, model_type, is_active)`,

	`CREATE TABLE IF NOT EXISTS task_feedback (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		feedback_type TEXT NOT NULL,
		was_useful BOOLEAN NOT NULL,
		actual_priority TEXT NOT NULL DEFAULT '',
		actual_completion_time INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_task ON task_feedback(task_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_user ON task_feedback(user_id)`,

	`CREATE TABLE IF NOT EXISTS task_history (
		id TEXT PRIMARY KEY,
		task_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		change_type TEXT NOT NULL,
		old_values TEXT,
		new_values TEXT,
		change_description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_task ON task_history(task_id, created_at)`,

	`CREATE TABLE IF NOT EXISTS energy_logs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		task_id TEXT,
		energy_level TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		logged_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_energy_user ON energy_logs(user_id, logged_at)`,
}
