package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so repositories work the
// same inside and outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// UnitOfWork runs one timeline operation atomically. The callback builds
// tx-scoped repositories from the DBTX it receives.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// RetryPolicy controls how often a transaction that lost the database
// lock is replayed. The callback must therefore be safe to run again; all
// timeline operations rebuild their state from the transaction.
type RetryPolicy struct {
	Attempts  int
	Backoff   time.Duration
	Retryable func(error) bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond, Retryable: IsBusy}
}

// IsBusy reports whether err is SQLite refusing a lock held by another
// connection or process.
func IsBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

type SQLiteUnitOfWork struct {
	db    *sql.DB
	retry RetryPolicy
}

func NewSQLiteUnitOfWork(db *sql.DB) *SQLiteUnitOfWork {
	return &SQLiteUnitOfWork{db: db, retry: DefaultRetryPolicy()}
}

// WithRetry replaces the busy-retry policy.
func (u *SQLiteUnitOfWork) WithRetry(p RetryPolicy) *SQLiteUnitOfWork {
	u.retry = p
	return u
}

func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	attempts := max(u.retry.Attempts, 1)

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(u.retry.Backoff * time.Duration(i)):
			}
		}
		err = u.runOnce(ctx, fn)
		if err == nil || u.retry.Retryable == nil || !u.retry.Retryable(err) {
			return err
		}
	}
	return fmt.Errorf("database busy after %d attempts: %w", attempts, err)
}

func (u *SQLiteUnitOfWork) runOnce(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
