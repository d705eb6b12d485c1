package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
)

// SQLiteEventRepo implements EventRepo. Insertion order (rowid) is the
// ordering key; occurred_at is display data only.
type SQLiteEventRepo struct {
	db db.DBTX
}

func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

const eventColumns = `id, project_id, task_id, occurred_at, title, description, is_delayed, source`

func (r *SQLiteEventRepo) Append(ctx context.Context, e *domain.TimelineEvent) error {
	query := `INSERT INTO timeline_events (` + eventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ProjectID,
		nullableString(e.TaskID),
		formatTimestamp(e.OccurredAt),
		e.Title,
		e.Description,
		boolToInt(e.IsDelayed),
		string(e.Source),
	)
	if err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// ListByProject returns up to limit events, newest first. limit <= 0
// returns all of them.
func (r *SQLiteEventRepo) ListByProject(ctx context.Context, projectID string, limit int) ([]*domain.TimelineEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM timeline_events WHERE project_id = ? ORDER BY rowid DESC`
	args := []any{projectID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// ListRecent returns the newest events across non-archived projects.
func (r *SQLiteEventRepo) ListRecent(ctx context.Context, limit int) ([]*domain.TimelineEvent, error) {
	query := `SELECT e.id, e.project_id, e.task_id, e.occurred_at, e.title, e.description, e.is_delayed, e.source
		FROM timeline_events e
		JOIN projects p ON p.id = e.project_id
		WHERE p.archived_at IS NULL
		ORDER BY e.rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

// Prune deletes all but the newest keep events of a project and returns
// how many were removed. keep <= 0 disables pruning.
func (r *SQLiteEventRepo) Prune(ctx context.Context, projectID string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	query := `DELETE FROM timeline_events
		WHERE project_id = ?
		AND rowid NOT IN (
			SELECT rowid FROM timeline_events WHERE project_id = ? ORDER BY rowid DESC LIMIT ?
		)`
	res, err := r.db.ExecContext(ctx, query, projectID, projectID, keep)
	if err != nil {
		return 0, fmt.Errorf("pruning events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading pruned rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteEventRepo) list(ctx context.Context, query string, args ...any) ([]*domain.TimelineEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*domain.TimelineEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return events, nil
}

func scanEvent(s scanner) (*domain.TimelineEvent, error) {
	var e domain.TimelineEvent
	var taskID sql.NullString
	var occurredStr, sourceStr string
	var delayed int

	if err := s.Scan(&e.ID, &e.ProjectID, &taskID, &occurredStr, &e.Title, &e.Description, &delayed, &sourceStr); err != nil {
		return nil, err
	}
	e.TaskID = stringPtr(taskID)
	e.IsDelayed = intToBool(delayed)
	e.Source = domain.EventSource(sourceStr)

	var err error
	if e.OccurredAt, err = parseTimestamp("occurred_at", occurredStr); err != nil {
		return nil, err
	}
	return &e, nil
}
