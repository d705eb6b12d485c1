package repository

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/canteiro/internal/db"
	"github.com/alexanderramin/canteiro/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newConcurrentTestDB creates a file-backed SQLite database in a temp directory.
// Unlike :memory:, a file-backed DB shares state across all connections in the
// pool, which is required to test real concurrent access with WAL mode.
func newConcurrentTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "concurrent_test.db")
	database, err := db.OpenDB(dbPath)
	require.NoError(t, err, "failed to create concurrent test database")
	t.Cleanup(func() { database.Close() })
	return database
}

// TestConcurrentAccess_ReadDuringWrite verifies that task listings stay
// consistent while a writer appends tasks and events.
func TestConcurrentAccess_ReadDuringWrite(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	taskRepo := NewSQLiteTaskRepo(database)
	eventRepo := NewSQLiteEventRepo(database)

	proj := testutil.NewTestProject("ReadWrite")
	require.NoError(t, projRepo.Create(ctx, proj))

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			task := testutil.NewTestTask(proj.ID, fmt.Sprintf("Etapa-%d", i), testutil.WithSeq(i+1))
			if err := taskRepo.Create(ctx, task); err != nil {
				t.Errorf("writer: create task %d: %v", i, err)
				return
			}
			if err := eventRepo.Append(ctx, testutil.NewTestEvent(proj.ID, "Task added: "+task.Name)); err != nil {
				t.Errorf("writer: append event %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 5; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				tasks, err := taskRepo.ListByProject(ctx, proj.ID)
				if err != nil {
					t.Errorf("reader %d: list tasks: %v", reader, err)
					return
				}
				for j := 1; j < len(tasks); j++ {
					if tasks[j].Seq <= tasks[j-1].Seq {
						t.Errorf("reader %d: tasks out of order", reader)
					}
				}
			}
		}(r)
	}

	wg.Wait()

	tasks, err := taskRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 20)
	events, err := eventRepo.ListByProject(ctx, proj.ID, 0)
	require.NoError(t, err)
	assert.Len(t, events, 20)
}

func TestConcurrentAccess_ProjectSequence_NoDuplicateSeq(t *testing.T) {
	database := newConcurrentTestDB(t)
	ctx := context.Background()

	projRepo := NewSQLiteProjectRepo(database)
	taskRepo := NewSQLiteTaskRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	proj := testutil.NewTestProject("Seq Concurrency")
	require.NoError(t, projRepo.Create(ctx, proj))
	require.NoError(t, taskRepo.Create(ctx, testutil.NewTestTask(proj.ID, "Root", testutil.WithSeq(1))))

	retryTx := func(fn func() error) error {
		const maxRetries = 10
		for attempt := 0; attempt < maxRetries; attempt++ {
			err := fn()
			if err == nil {
				return nil
			}
			if attempt == maxRetries-1 {
				return err
			}
			time.Sleep(time.Millisecond * time.Duration(1<<attempt))
		}
		return nil
	}

	const workers = 20
	var wg sync.WaitGroup
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := retryTx(func() error {
				return uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
					txSeq := NewSQLiteProjectSequenceRepo(tx)
					txTask := NewSQLiteTaskRepo(tx)

					seq, err := txSeq.PeekNextSeq(ctx, proj.ID)
					if err != nil {
						return err
					}
					task := testutil.NewTestTask(proj.ID, fmt.Sprintf("Etapa-%d", i), testutil.WithSeq(seq))
					if err := txTask.Create(ctx, task); err != nil {
						return err
					}
					return txSeq.AdvanceTo(ctx, proj.ID, seq+1)
				})
			})
			if err != nil {
				errCh <- err
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	tasks, err := taskRepo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)

	seen := make(map[int]bool, len(tasks))
	for _, task := range tasks {
		assert.Falsef(t, seen[task.Seq], "duplicate seq %d on task %s", task.Seq, task.ID)
		seen[task.Seq] = true
	}
	assert.Len(t, tasks, workers+1)
}
