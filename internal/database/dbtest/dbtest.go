// Package dbtest opens migrated throwaway databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"studyreview/internal/database"
)

// New returns a migrated cgo-free SQLite database that is removed when the
// test ends.
func New(tb testing.TB) *database.DB {
	tb.Helper()

	db, err := database.Open(database.NewPureSQLiteDialect(), database.DialectConfig{
		Path: filepath.Join(tb.TempDir(), "test.db"),
	})
	if err != nil {
		tb.Fatalf("dbtest: open: %v", err)
	}
	tb.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background()); err != nil {
		tb.Fatalf("dbtest: migrate: %v", err)
	}
	return db
}
