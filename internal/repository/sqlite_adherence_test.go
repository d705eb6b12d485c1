package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
	"github.com/alexanderramin/canteiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdherenceRepo_UpsertAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Adesão")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	repo := NewSQLiteAdherenceRepo(db)

	_, err := repo.Get(ctx, proj.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	snap := domain.ScheduleAdherence{
		DelayedTasksPercentage:    25,
		PlannedVsActualDifference: 3,
		DynamicCompletionForecast: time.Date(2025, 12, 4, 0, 0, 0, 0, time.UTC),
		OnTrack:                   false,
		TotalTasks:                4,
		DelayedTasks:              1,
		ComputedAt:                time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, proj.ID, snap))

	got, err := repo.Get(ctx, proj.ID)
	require.NoError(t, err)
	assert.Equal(t, snap, *got)

	snap.DelayedTasksPercentage = 0
	snap.PlannedVsActualDifference = 0
	snap.OnTrack = true
	snap.DelayedTasks = 0
	require.NoError(t, repo.Upsert(ctx, proj.ID, snap))

	got, err = repo.Get(ctx, proj.ID)
	require.NoError(t, err)
	assert.True(t, got.OnTrack)
	assert.Equal(t, 0, got.DelayedTasksPercentage)
}
