package db

import (
	"database/sql"
	"testing"
)

// NewTestDB creates a fresh in-memory database with the items document table
// applied, closed automatically when the test finishes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating items schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
