package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is safe to re-run.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS completions (
		date         TEXT NOT NULL,
		session_type TEXT NOT NULL,
		item_key     TEXT NOT NULL,
		PRIMARY KEY (date, session_type, item_key)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_completions_date ON completions(date)`,

	`CREATE TABLE IF NOT EXISTS tracker_snapshots (
		session_type TEXT PRIMARY KEY,
		date         TEXT NOT NULL,
		state        TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS session_logs (
		id              TEXT PRIMARY KEY,
		session_type    TEXT NOT NULL,
		started_at      TEXT NOT NULL,
		ended_at        TEXT NOT NULL,
		completed_count INTEGER NOT NULL DEFAULT 0 CHECK(completed_count >= 0),
		total_count     INTEGER NOT NULL DEFAULT 0 CHECK(total_count >= 0),
		created_at      TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_session_logs_type ON session_logs(session_type, started_at)`,

	`CREATE TABLE IF NOT EXISTS completion_events (
		id           TEXT PRIMARY KEY,
		session_type TEXT NOT NULL,
		item_key     TEXT NOT NULL DEFAULT '',
		kind         TEXT NOT NULL
		             CHECK(kind IN ('start','pause','resume','restart','complete','expire','toggle_on','toggle_off','reset')),
		at           TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_completion_events_type ON completion_events(session_type, at)`,
}
