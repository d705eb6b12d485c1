package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/domain"
)

// SQLiteAdherenceRepo keeps the latest adherence snapshot per project so
// dashboards can read it without loading every task.
type SQLiteAdherenceRepo struct {
	db db.DBTX
}

func NewSQLiteAdherenceRepo(conn db.DBTX) *SQLiteAdherenceRepo {
	return &SQLiteAdherenceRepo{db: conn}
}

func (r *SQLiteAdherenceRepo) Upsert(ctx context.Context, projectID string, s domain.ScheduleAdherence) error {
	query := `INSERT INTO schedule_adherence
		(project_id, delayed_pct, slip_days, forecast_completion, on_track, total_tasks, delayed_tasks, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id) DO UPDATE SET
			delayed_pct = excluded.delayed_pct,
			slip_days = excluded.slip_days,
			forecast_completion = excluded.forecast_completion,
			on_track = excluded.on_track,
			total_tasks = excluded.total_tasks,
			delayed_tasks = excluded.delayed_tasks,
			computed_at = excluded.computed_at`
	_, err := r.db.ExecContext(ctx, query,
		projectID,
		s.DelayedTasksPercentage,
		s.PlannedVsActualDifference,
		s.DynamicCompletionForecast.Format(dateLayout),
		boolToInt(s.OnTrack),
		s.TotalTasks,
		s.DelayedTasks,
		formatTimestamp(s.ComputedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting adherence for %s: %w", projectID, err)
	}
	return nil
}

func (r *SQLiteAdherenceRepo) Get(ctx context.Context, projectID string) (*domain.ScheduleAdherence, error) {
	query := `SELECT delayed_pct, slip_days, forecast_completion, on_track, total_tasks, delayed_tasks, computed_at
		FROM schedule_adherence WHERE project_id = ?`

	var s domain.ScheduleAdherence
	var forecastStr, computedStr string
	var onTrack int
	err := r.db.QueryRowContext(ctx, query, projectID).Scan(
		&s.DelayedTasksPercentage, &s.PlannedVsActualDifference, &forecastStr,
		&onTrack, &s.TotalTasks, &s.DelayedTasks, &computedStr,
	)
	if err != nil {
		return nil, notFoundOr(err, "adherence snapshot", projectID, "scanning adherence")
	}
	s.OnTrack = intToBool(onTrack)
	if s.DynamicCompletionForecast, err = parseDate("forecast_completion", forecastStr); err != nil {
		return nil, err
	}
	if s.ComputedAt, err = parseTimestamp("computed_at", computedStr); err != nil {
		return nil, err
	}
	return &s, nil
}
