package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillProjectSequences(db); err != nil {
		return fmt.Errorf("backfilling project sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id                 TEXT PRIMARY KEY,
		short_id           TEXT NOT NULL,
		name               TEXT NOT NULL,
		start_date         TEXT NOT NULL,
		planned_completion TEXT NOT NULL,
		status             TEXT NOT NULL DEFAULT 'active'
		                   CHECK(status IN ('active','paused','done','archived')),
		archived_at        TEXT,
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id)`,

	`CREATE TABLE IF NOT EXISTS project_sequences (
		project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		next_seq   INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS timeline_tasks (
		id                 TEXT PRIMARY KEY,
		project_id         TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		seq                INTEGER NOT NULL,
		name               TEXT NOT NULL,
		start_date         TEXT NOT NULL,
		end_date           TEXT NOT NULL,
		responsible_person TEXT NOT NULL,
		progress           INTEGER NOT NULL DEFAULT 0
		                   CHECK(progress BETWEEN 0 AND 100),
		status             TEXT NOT NULL DEFAULT 'not_started'
		                   CHECK(status IN ('not_started','in_progress','delayed','completed')),
		description        TEXT NOT NULL DEFAULT '',
		created_at         TEXT NOT NULL,
		updated_at         TEXT NOT NULL,
		CHECK(status != 'completed' OR progress = 100)
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_timeline_tasks_project_seq ON timeline_tasks(project_id, seq)`,

	`CREATE TABLE IF NOT EXISTS timeline_events (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		occurred_at TEXT NOT NULL,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_delayed  INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_timeline_events_project ON timeline_events(project_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_adherence (
		project_id          TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
		delayed_pct         INTEGER NOT NULL CHECK(delayed_pct BETWEEN 0 AND 100),
		slip_days           INTEGER NOT NULL CHECK(slip_days >= 0),
		forecast_completion TEXT NOT NULL,
		on_track            INTEGER NOT NULL,
		total_tasks         INTEGER NOT NULL DEFAULT 0,
		delayed_tasks       INTEGER NOT NULL DEFAULT 0,
		computed_at         TEXT NOT NULL
	)`,

	// Site location on projects
	`ALTER TABLE projects ADD COLUMN location TEXT NOT NULL DEFAULT ''`,

	// Link events to the task they describe and record what produced them
	`ALTER TABLE timeline_events ADD COLUMN task_id TEXT`,
	`ALTER TABLE timeline_events ADD COLUMN source TEXT NOT NULL DEFAULT 'manual'`,
}

// migrateBackfillProjectSequences makes sure every project has an allocator
// row whose next_seq is above every task seq already assigned. Idempotent.
func migrateBackfillProjectSequences(db *sql.DB) error {
	ctx := context.Background()

	query := `INSERT INTO project_sequences (project_id, next_seq)
		SELECT p.id, COALESCE(MAX(t.seq), 0) + 1
		FROM projects p
		LEFT JOIN timeline_tasks t ON t.project_id = p.id
		GROUP BY p.id
		ON CONFLICT(project_id) DO UPDATE
		SET next_seq = MAX(project_sequences.next_seq, excluded.next_seq)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("upserting project sequence rows: %w", err)
	}

	return nil
}
