package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, short_id, name, location, start_date, planned_completion, status, archived_at, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		p.Location,
		p.StartDate.Format(dateLayout),
		p.PlannedCompletion.Format(dateLayout),
		string(p.Status),
		nullableTimeToString(p.ArchivedAt, time.RFC3339),
		formatTimestamp(p.CreatedAt),
		formatTimestamp(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err, "project", id, "scanning project")
	}
	return p, nil
}

func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE UPPER(short_id) = UPPER(?)`
	p, err := scanProject(r.db.QueryRowContext(ctx, query, shortID))
	if err != nil {
		return nil, notFoundOr(err, "project", shortID, "scanning project")
	}
	return p, nil
}

func (r *SQLiteProjectRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE archived_at IS NULL ORDER BY created_at, short_id`
	if includeArchived {
		query = `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, short_id`
	}
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	query := `UPDATE projects SET short_id = ?, name = ?, location = ?, start_date = ?, planned_completion = ?, status = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		p.ShortID,
		p.Name,
		p.Location,
		p.StartDate.Format(dateLayout),
		p.PlannedCompletion.Format(dateLayout),
		string(p.Status),
		formatTimestamp(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	return requireAffected(res, "project", p.ID)
}

func (r *SQLiteProjectRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE projects SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, now, now, id)
	if err != nil {
		return fmt.Errorf("archiving project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) Unarchive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE projects SET status = 'active', archived_at = NULL, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return fmt.Errorf("unarchiving project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var startStr, plannedStr, statusStr, createdAtStr, updatedAtStr string
	var archivedAtStr sql.NullString

	if err := s.Scan(
		&p.ID, &p.ShortID, &p.Name, &p.Location,
		&startStr, &plannedStr,
		&statusStr, &archivedAtStr,
		&createdAtStr, &updatedAtStr,
	); err != nil {
		return nil, err
	}

	p.Status = domain.ProjectStatus(statusStr)
	p.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

	var err error
	if p.StartDate, err = parseDate("start_date", startStr); err != nil {
		return nil, err
	}
	if p.PlannedCompletion, err = parseDate("planned_completion", plannedStr); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp("created_at", createdAtStr); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp("updated_at", updatedAtStr); err != nil {
		return nil, err
	}
	return &p, nil
}
