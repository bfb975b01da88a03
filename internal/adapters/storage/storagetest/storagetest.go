// Package storagetest opens migrated in-memory databases for store tests.
package storagetest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"fitpro/internal/adapters/storage"
)

// Open returns a migrated in-memory SQLite database.
// The pool is pinned to one connection: every new connection to ":memory:"
// would otherwise see its own empty database.
func Open(t *testing.T) *storage.TimedDB {
	t.Helper()
	raw, err := sqlx.Open(storage.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { raw.Close() })

	if _, err := raw.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	db := storage.NewTimedDB(raw, nil)
	if err := storage.MigrateDB(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

// Exec runs a raw statement for fixture setup, failing the test on error.
func Exec(t *testing.T, db storage.SQLDB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), db.Rebind(query), args...); err != nil {
		t.Fatalf("fixture %q failed: %v", query, err)
	}
}
