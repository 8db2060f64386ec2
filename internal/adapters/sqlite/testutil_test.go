// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production. Do not
// hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/museqc/internal/core/recording"
	"github.com/example/museqc/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// testKey builds a collection key with a fixed pod and configurable start.
func testKey(westonID string, start time.Time) recording.Key {
	return recording.NewKey(westonID, "6002-CNZB-5F0A", start)
}

// seedParticipant inserts a participant row.
func seedParticipant(t *testing.T, conn *sql.DB, westonID, site string) {
	t.Helper()
	if _, err := conn.Exec("INSERT INTO participants (weston_id, site) VALUES (?, ?)", westonID, site); err != nil {
		t.Fatalf("failed to seed participant: %v", err)
	}
}

// seedCollection inserts a bare collection row for a key, as registration
// would.
func seedCollection(t *testing.T, conn *sql.DB, key recording.Key, upload time.Time) {
	t.Helper()
	_, err := conn.Exec(
		"INSERT INTO collections (weston_id, pod_id, start_dt, tz_offset, upload_dt) VALUES (?, ?, ?, -4.0, ?)",
		key.WestonID, key.PodID, key.Start, upload.Format(time.DateTime),
	)
	if err != nil {
		t.Fatalf("failed to seed collection: %v", err)
	}
}
