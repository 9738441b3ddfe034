package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// SQLiteSnapshotRepo implements SnapshotRepo, storing each snapshot as JSON.
type SQLiteSnapshotRepo struct {
	db db.DBTX
}

// NewSQLiteSnapshotRepo creates a new SQLiteSnapshotRepo.
func NewSQLiteSnapshotRepo(conn db.DBTX) *SQLiteSnapshotRepo {
	return &SQLiteSnapshotRepo{db: conn}
}

func (r *SQLiteSnapshotRepo) Save(ctx context.Context, sessionType domain.SessionType, date string, snap tracker.Snapshot) error {
	state, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO tracker_snapshots (session_type, date, state, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(session_type) DO UPDATE SET date = excluded.date, state = excluded.state, updated_at = excluded.updated_at`,
		string(sessionType), date, string(state), nowUTC())
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteSnapshotRepo) Load(ctx context.Context, sessionType domain.SessionType) (string, tracker.Snapshot, error) {
	var date, state string
	err := r.db.QueryRowContext(ctx,
		`SELECT date, state FROM tracker_snapshots WHERE session_type = ?`,
		string(sessionType)).Scan(&date, &state)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", tracker.Snapshot{}, fmt.Errorf("snapshot %s: %w", sessionType, ErrNotFound)
		}
		return "", tracker.Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}

	var snap tracker.Snapshot
	if err := json.Unmarshal([]byte(state), &snap); err != nil {
		return "", tracker.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return date, snap, nil
}

func (r *SQLiteSnapshotRepo) Delete(ctx context.Context, sessionType domain.SessionType) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tracker_snapshots WHERE session_type = ?`, string(sessionType))
	if err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}
