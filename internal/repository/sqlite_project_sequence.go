package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/canteiro/internal/db"
)

// SQLiteProjectSequenceRepo tracks project-scoped task numbers in the
// project_sequences table. Numbers are never reused, even after deletes.
type SQLiteProjectSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteProjectSequenceRepo creates a new SQLiteProjectSequenceRepo.
func NewSQLiteProjectSequenceRepo(conn db.DBTX) *SQLiteProjectSequenceRepo {
	return &SQLiteProjectSequenceRepo{db: conn}
}

// PeekNextSeq returns the number the next task of the project will get,
// seeding the allocator row from existing tasks when it is missing.
func (r *SQLiteProjectSequenceRepo) PeekNextSeq(ctx context.Context, projectID string) (int, error) {
	seedQuery := `INSERT OR IGNORE INTO project_sequences (project_id, next_seq)
		SELECT ?, COALESCE(MAX(seq), 0) + 1
		FROM timeline_tasks WHERE project_id = ?`
	if _, err := r.db.ExecContext(ctx, seedQuery, projectID, projectID); err != nil {
		return 0, fmt.Errorf("seeding project sequence for %s: %w", projectID, err)
	}

	var next int
	if err := r.db.QueryRowContext(ctx,
		`SELECT next_seq FROM project_sequences WHERE project_id = ?`, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("reading next seq for project %s: %w", projectID, err)
	}
	return next, nil
}

// AdvanceTo raises the allocator to next. It never moves it backwards.
func (r *SQLiteProjectSequenceRepo) AdvanceTo(ctx context.Context, projectID string, next int) error {
	query := `INSERT INTO project_sequences (project_id, next_seq) VALUES (?, ?)
		ON CONFLICT(project_id) DO UPDATE
		SET next_seq = MAX(project_sequences.next_seq, excluded.next_seq)`
	if _, err := r.db.ExecContext(ctx, query, projectID, next); err != nil {
		return fmt.Errorf("advancing seq for project %s: %w", projectID, err)
	}
	return nil
}
