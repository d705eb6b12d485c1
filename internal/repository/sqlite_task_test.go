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

func TestTaskRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Tarefas")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	repo := NewSQLiteTaskRepo(db)

	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	task := testutil.NewTestTask(proj.ID, "Fundação",
		testutil.WithDates(start, start.AddDate(0, 0, 20)),
		testutil.WithStatus(domain.StatusInProgress),
		testutil.WithProgress(45),
		testutil.WithResponsible("Maria"),
		testutil.WithDescription("[03/03/2025 08:00] Maria: começamos"),
	)
	require.NoError(t, repo.Create(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, *task, *got)
}

func TestTaskRepo_ListByProject_InsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	projRepo := NewSQLiteProjectRepo(db)
	p1 := testutil.NewTestProject("Um")
	p2 := testutil.NewTestProject("Dois")
	require.NoError(t, projRepo.Create(ctx, p1))
	require.NoError(t, projRepo.Create(ctx, p2))
	repo := NewSQLiteTaskRepo(db)

	late := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(p1.ID, "Cobertura", testutil.WithSeq(1), testutil.WithDates(late, late))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(p1.ID, "Fundação", testutil.WithSeq(2), testutil.WithDates(early, early))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestTask(p2.ID, "Outra obra", testutil.WithSeq(1))))

	tasks, err := repo.ListByProject(ctx, p1.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Cobertura", tasks[0].Name)
	assert.Equal(t, "Fundação", tasks[1].Name)
}

func TestTaskRepo_UpdateAndDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Update")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	repo := NewSQLiteTaskRepo(db)

	task := testutil.NewTestTask(proj.ID, "Alvenaria")
	require.NoError(t, repo.Create(ctx, task))

	task.Status = domain.StatusCompleted
	task.Progress = 100
	task.Description = "done"
	require.NoError(t, repo.Update(ctx, task))

	got, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "done", got.Description)

	require.NoError(t, repo.Delete(ctx, task.ID))
	_, err = repo.GetByID(ctx, task.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, task.ID), domain.ErrNotFound))
}

func TestTaskRepo_RejectsCompletedBelowFullProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Check")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	task := testutil.NewTestTask(proj.ID, "Pintura", testutil.WithStatus(domain.StatusCompleted), testutil.WithProgress(80))
	assert.Error(t, NewSQLiteTaskRepo(db).Create(ctx, task))
}
