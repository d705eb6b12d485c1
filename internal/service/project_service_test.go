package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/canteiro/internal/adherence"
	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/repository"
	"github.com/alexanderramin/canteiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectService_CreateFillsDefaultsAndSeedsAdherence(t *testing.T) {
	database := testutil.NewTestDB(t)
	uow := testutil.NewTestUoW(database)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), uow, adherence.DefaultPolicy())
	ctx := context.Background()

	p := &domain.Project{
		ShortID:           "obr01",
		Name:              "Residencial Aurora",
		StartDate:         day(2025, 1, 6),
		PlannedCompletion: svcPlanned,
	}
	require.NoError(t, svc.Create(ctx, p))

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "OBR01", p.ShortID)
	assert.Equal(t, domain.ProjectActive, p.Status)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Residencial Aurora", got.Name)

	snap, err := repository.NewSQLiteAdherenceRepo(database).Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, snap.OnTrack)
	assert.Equal(t, 0, snap.TotalTasks)
	assert.Equal(t, svcPlanned, snap.DynamicCompletionForecast)
}

func TestProjectService_CreateValidation(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database), adherence.DefaultPolicy())
	ctx := context.Background()

	tests := []struct {
		name    string
		project domain.Project
		field   string
	}{
		{"bad short id", domain.Project{ShortID: "O1", Name: "x", StartDate: day(2025, 1, 1), PlannedCompletion: svcPlanned}, "short_id"},
		{"missing name", domain.Project{ShortID: "OBR01", StartDate: day(2025, 1, 1), PlannedCompletion: svcPlanned}, "name"},
		{"missing planned completion", domain.Project{ShortID: "OBR01", Name: "x", StartDate: day(2025, 1, 1)}, "planned_completion"},
		{"completion before start", domain.Project{ShortID: "OBR01", Name: "x", StartDate: svcPlanned, PlannedCompletion: day(2025, 1, 1)}, "planned_completion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.project
			err := svc.Create(ctx, &p)
			require.Error(t, err)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	projects, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectService_CreateRejectsDuplicateShortID(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewProjectService(repository.NewSQLiteProjectRepo(database), testutil.NewTestUoW(database), adherence.DefaultPolicy())
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, testutil.NewTestProject("Aurora", testutil.WithShortID("AUR01"))))
	err := svc.Create(ctx, testutil.NewTestProject("Outra", testutil.WithShortID("AUR01")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "Aurora")
}

func TestProjectService_UpdateRecomputesForecast(t *testing.T) {
	env := newTimelineEnv(t)
	ctx := context.Background()
	tasks := env.addTasks(t, "Fundação", "Estrutura")

	delayed := domain.StatusDelayed
	_, err := env.timeline.UpdateTask(ctx, env.project.ID, tasks[0].ID, domain.TaskPatch{Status: &delayed})
	require.NoError(t, err)

	p, err := env.projects.GetByID(ctx, env.project.ID)
	require.NoError(t, err)
	p.PlannedCompletion = day(2026, 1, 31)
	require.NoError(t, env.projects.Update(ctx, p))

	snap, err := env.timeline.GetAdherence(ctx, env.project.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.PlannedVsActualDifference)
	assert.Equal(t, day(2026, 2, 3), snap.DynamicCompletionForecast)
}

func TestProjectService_DeleteRequiresArchive(t *testing.T) {
	env := newTimelineEnv(t)
	ctx := context.Background()
	env.addTasks(t, "Fundação")

	err := env.projects.Delete(ctx, env.project.ID, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be archived")

	require.NoError(t, env.projects.Archive(ctx, env.project.ID))
	require.NoError(t, env.projects.Delete(ctx, env.project.ID, false))

	_, err = env.projects.GetByID(ctx, env.project.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	tasks, err := env.timeline.ListTasks(ctx, env.project.ID, false)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestProjectService_ForceDelete(t *testing.T) {
	env := newTimelineEnv(t)
	ctx := context.Background()

	require.NoError(t, env.projects.Delete(ctx, env.project.ID, true))

	projects, err := env.projects.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
