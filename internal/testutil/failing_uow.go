package testutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/alexanderramin/canteiro/internal/db"
)

// FailOnNthExecUoW injects Err on the FailOn-th write of a transaction, so
// tests can break a timeline operation half way and check the rollback.
//
// Only ExecContext calls are counted, starting at 1. When Match is set,
// only statements containing it count (e.g. "timeline_events").
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Match  string
	Err    error

	attempts atomic.Int32
}

// Attempts reports how many transactions were started.
func (u *FailOnNthExecUoW) Attempts() int {
	return int(u.attempts.Load())
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	u.attempts.Add(1)
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, match: u.Match, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	match  string
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.match == "" || strings.Contains(query, f.match) {
		if f.count.Add(1) == f.failOn {
			return nil, f.err
		}
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// ErrBusyOnce is what BusyOnceUoW returns on its first attempt.
var ErrBusyOnce = errors.New("database is locked (test)")

// NewBusyOnceUoW wraps a real SQLite unit of work whose first transaction
// runs the callback to completion and then fails with ErrBusyOnce, so the
// retry loop replays the whole callback.
func NewBusyOnceUoW(database *sql.DB) *BusyOnceUoW {
	u := &BusyOnceUoW{}
	u.inner = db.NewSQLiteUnitOfWork(database).WithRetry(db.RetryPolicy{
		Attempts:  2,
		Retryable: func(err error) bool { return errors.Is(err, ErrBusyOnce) },
	})
	return u
}

type BusyOnceUoW struct {
	inner  *db.SQLiteUnitOfWork
	failed atomic.Bool
	runs   atomic.Int32
}

// Runs reports how many times a callback was executed, replays included.
func (u *BusyOnceUoW) Runs() int {
	return int(u.runs.Load())
}

func (u *BusyOnceUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return u.inner.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		u.runs.Add(1)
		if err := fn(ctx, tx); err != nil {
			return err
		}
		if u.failed.CompareAndSwap(false, true) {
			return ErrBusyOnce
		}
		return nil
	})
}
