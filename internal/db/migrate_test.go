package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"completions", "tracker_snapshots", "session_logs", "completion_events"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_EventKindConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO completion_events (id, session_type, kind, at) VALUES ('e1', 'lllt/daily', 'start', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO completion_events (id, session_type, kind, at) VALUES ('e2', 'lllt/daily', 'bogus', '2025-01-01T00:00:00Z')`)
	assert.Error(t, err)
}

func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`SELECT name FROM pragma_table_info(?) ORDER BY cid`, table)
	require.NoError(t, err)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

// Every column is read or written by a repository.
func TestMigrate_Columns(t *testing.T) {
	db := openTestDB(t)

	assert.Equal(t, []string{"date", "session_type", "item_key"}, tableColumns(t, db, "completions"))
	assert.Equal(t, []string{"id", "session_type", "started_at", "ended_at", "completed_count", "total_count", "created_at"},
		tableColumns(t, db, "session_logs"))
}
