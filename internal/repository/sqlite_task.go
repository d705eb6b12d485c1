package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, seq, name, start_date, end_date, responsible_person, progress, status, description, created_at, updated_at`

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.TimelineTask) error {
	query := `INSERT INTO timeline_tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Seq,
		t.Name,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.ResponsiblePerson,
		t.Progress,
		string(t.Status),
		t.Description,
		formatTimestamp(t.CreatedAt),
		formatTimestamp(t.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.TimelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM timeline_tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "task", id, "scanning task")
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.TimelineTask, error) {
	query := `SELECT ` + taskColumns + ` FROM timeline_tasks WHERE project_id = ? ORDER BY seq`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.TimelineTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.TimelineTask) error {
	query := `UPDATE timeline_tasks SET name = ?, start_date = ?, end_date = ?, responsible_person = ?,
		progress = ?, status = ?, description = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.StartDate.Format(dateLayout),
		t.EndDate.Format(dateLayout),
		t.ResponsiblePerson,
		t.Progress,
		string(t.Status),
		t.Description,
		formatTimestamp(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM timeline_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(s scanner) (*domain.TimelineTask, error) {
	var t domain.TimelineTask
	var startStr, endStr, statusStr, createdAtStr, updatedAtStr string

	if err := s.Scan(
		&t.ID, &t.ProjectID, &t.Seq, &t.Name,
		&startStr, &endStr,
		&t.ResponsiblePerson, &t.Progress, &statusStr, &t.Description,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	t.Status = domain.TaskStatus(statusStr)

	var err error
	if t.StartDate, err = parseDate("start_date", startStr); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseDate("end_date", endStr); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &t, nil
}
