package db

import (
	"path/filepath"
	"testing"
)

// NewTest creates a migrated database in a temp dir and returns the handle
// together with its file path, for building an Executor against it.
func NewTest(tb testing.TB) (*DB, string) {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "test.db")
	database, err := New(path)
	if err != nil {
		tb.Fatalf("failed to create test database: %v", err)
	}
	tb.Cleanup(func() { _ = database.Close() })

	if err := database.Migrate(); err != nil {
		tb.Fatalf("failed to migrate test database: %v", err)
	}
	return database, path
}
