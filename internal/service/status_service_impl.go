package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/app"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/repository"
)

type statusService struct {
	projects  repository.ProjectRepo
	tasks     repository.TaskRepo
	adherence repository.AdherenceRepo
	policy    adherence.Policy
}

func NewStatusService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	adherenceRepo repository.AdherenceRepo,
	policy adherence.Policy,
) StatusService {
	return &statusService{
		projects:  projects,
		tasks:     tasks,
		adherence: adherenceRepo,
		policy:    policy,
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = *req.Now
	}

	projects, err := s.projects.List(ctx, req.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	scoped := filterProjectsByScope(projects, req.ProjectScope)
	if len(req.ProjectScope) > 0 && len(scoped) == 0 {
		return nil, &app.StatusError{
			Code:    app.StatusErrInvalidScope,
			Message: fmt.Sprintf("no project matches %s", strings.Join(req.ProjectScope, ", ")),
		}
	}

	views, warnings, err := s.buildProjectViews(ctx, scoped, req.IncludeArchived, now)
	if err != nil {
		return nil, err
	}

	sortStatusViews(views)

	return &app.StatusResponse{
		Summary:  buildStatusSummary(views, now),
		Projects: views,
		Warnings: warnings,
	}, nil
}

func (s *statusService) buildProjectViews(ctx context.Context, projects []*domain.Project, includeArchived bool, now time.Time) ([]app.ProjectStatusView, []string, error) {
	var (
		views    []app.ProjectStatusView
		warnings []string
	)
	for _, p := range projects {
		if p.Status != domain.ProjectActive && !(includeArchived && p.Status == domain.ProjectArchived) {
			continue
		}

		stored, err := s.tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading tasks of %s: %w", p.DisplayID(), err)
		}
		tasks := derefTasks(stored)

		snap, err := s.adherence.Get(ctx, p.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// older databases have no snapshot until the next write
			computed := adherence.Compute(tasks, p.PlannedCompletion, s.policy, now)
			snap = &computed
			warnings = append(warnings, fmt.Sprintf("%s: adherence snapshot missing, computed on the fly", p.DisplayID()))
		case err != nil:
			return nil, nil, fmt.Errorf("loading adherence of %s: %w", p.DisplayID(), err)
		}

		views = append(views, buildProjectView(p, tasks, *snap, now))
	}
	return views, warnings, nil
}

func buildProjectView(p *domain.Project, tasks []domain.TimelineTask, snap domain.ScheduleAdherence, now time.Time) app.ProjectStatusView {
	v := app.ProjectStatusView{
		ProjectID:         p.ID,
		ShortID:           p.ShortID,
		ProjectName:       p.Name,
		Location:          p.Location,
		Status:            p.Status,
		PlannedCompletion: p.PlannedCompletion,
		Forecast:          snap.DynamicCompletionForecast,
		DelayedPct:        snap.DelayedTasksPercentage,
		SlipDays:          snap.PlannedVsActualDifference,
		OnTrack:           snap.OnTrack,
		TotalTasks:        len(tasks),
	}

	var progressSum int
	for _, t := range tasks {
		progressSum += t.Progress
		switch t.Status {
		case domain.StatusCompleted:
			v.CompletedTasks++
		case domain.StatusDelayed:
			v.DelayedTasks++
		}
	}
	v.OpenTasks = v.TotalTasks - v.CompletedTasks
	if v.TotalTasks > 0 {
		v.AvgProgressPct = progressSum / v.TotalTasks
	}
	if !v.Forecast.IsZero() {
		v.DaysLeft = int(v.Forecast.Sub(domain.DateOnly(now)).Hours() / 24)
	}

	v.RiskLevel = adherence.Risk(adherence.RiskInput{
		Snapshot:  snap,
		Now:       now,
		OpenTasks: v.OpenTasks,
	})

	if v.TotalTasks == 0 {
		v.Notes = append(v.Notes, "no tasks on the timeline yet")
	}
	if v.OpenTasks > 0 && v.DaysLeft < 0 {
		v.Notes = append(v.Notes, fmt.Sprintf("forecast passed %d days ago with %d open tasks", -v.DaysLeft, v.OpenTasks))
	}
	return v
}

func sortStatusViews(views []app.ProjectStatusView) {
	ranked := make([]adherence.Ranked, len(views))
	byID := make(map[string]app.ProjectStatusView, len(views))
	for i, v := range views {
		ranked[i] = adherence.Ranked{
			ProjectID: v.ProjectID,
			Name:      v.ProjectName,
			Risk:      v.RiskLevel,
			Snapshot:  domain.ScheduleAdherence{DelayedTasksPercentage: v.DelayedPct},
		}
		byID[v.ProjectID] = v
	}
	adherence.SortByRisk(ranked)
	for i, r := range ranked {
		views[i] = byID[r.ProjectID]
	}
}

func buildStatusSummary(views []app.ProjectStatusView, now time.Time) app.GlobalStatusSummary {
	var countOnTrack, countAtRisk, countCritical int
	for _, v := range views {
		switch v.RiskLevel {
		case domain.RiskOnTrack:
			countOnTrack++
		case domain.RiskAtRisk:
			countAtRisk++
		case domain.RiskCritical:
			countCritical++
		}
	}

	var msg string
	switch {
	case len(views) == 0:
		msg = "No active projects."
	case countCritical > 0:
		msg = fmt.Sprintf("%d project(s) critical: review delayed tasks first.", countCritical)
	case countAtRisk > 0:
		msg = fmt.Sprintf("%d project(s) at risk.", countAtRisk)
	default:
		msg = "All projects on track."
	}

	return app.GlobalStatusSummary{
		GeneratedAt:    now,
		CountsTotal:    len(views),
		CountsOnTrack:  countOnTrack,
		CountsAtRisk:   countAtRisk,
		CountsCritical: countCritical,
		PolicyMessage:  msg,
	}
}
