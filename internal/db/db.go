package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// busyTimeoutMs lets a writer wait for the lock held by another canteiro
// process (typically `report watch`) before failing with SQLITE_BUSY.
const busyTimeoutMs = 5000

// OpenDB opens the SQLite database at path and runs migrations. A path of
// ":memory:" opens a private in-memory database on a single connection.
func OpenDB(path string) (*sql.DB, error) {
	if path == memoryPath {
		return openMemory()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	// Pragmas in the DSN are applied to every pooled connection.
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeoutMs))

	db, err := sql.Open("sqlite", path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return finishOpen(db)
}

func openMemory() (*sql.DB, error) {
	db, err := sql.Open("sqlite", memoryPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return finishOpen(db)
}

func finishOpen(db *sql.DB) (*sql.DB, error) {
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
