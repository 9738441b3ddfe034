package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
)

// SQLiteSessionLogRepo implements SessionLogRepo using a SQLite database.
type SQLiteSessionLogRepo struct {
	db db.DBTX
}

// NewSQLiteSessionLogRepo creates a new SQLiteSessionLogRepo.
func NewSQLiteSessionLogRepo(conn db.DBTX) *SQLiteSessionLogRepo {
	return &SQLiteSessionLogRepo{db: conn}
}

func (r *SQLiteSessionLogRepo) Create(ctx context.Context, s *domain.SessionLog) error {
	query := `INSERT INTO session_logs (id, session_type, started_at, ended_at, completed_count, total_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		string(s.SessionType),
		formatTime(s.StartedAt),
		formatTime(s.EndedAt),
		s.CompletedCount,
		s.TotalCount,
		formatTime(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting session log: %w", err)
	}
	return nil
}

func (r *SQLiteSessionLogRepo) GetByID(ctx context.Context, id string) (*domain.SessionLog, error) {
	query := `SELECT id, session_type, started_at, ended_at, completed_count, total_count, created_at
		FROM session_logs WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	var s domain.SessionLog
	var sessionType, startedAt, endedAt, createdAt string
	err := row.Scan(&s.ID, &sessionType, &startedAt, &endedAt, &s.CompletedCount, &s.TotalCount, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session log: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning session log: %w", err)
	}
	return populateSessionLog(&s, sessionType, startedAt, endedAt, createdAt)
}

// ListRecent returns the newest logs first. An empty sessionType lists all.
func (r *SQLiteSessionLogRepo) ListRecent(ctx context.Context, sessionType domain.SessionType, limit int) ([]*domain.SessionLog, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, session_type, started_at, ended_at, completed_count, total_count, created_at
		FROM session_logs
		WHERE (? = '' OR session_type = ?)
		ORDER BY started_at DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, string(sessionType), string(sessionType), limit)
	if err != nil {
		return nil, fmt.Errorf("listing session logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.SessionLog
	for rows.Next() {
		var s domain.SessionLog
		var st, startedAt, endedAt, createdAt string
		if err := rows.Scan(&s.ID, &st, &startedAt, &endedAt, &s.CompletedCount, &s.TotalCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning session log row: %w", err)
		}
		log, err := populateSessionLog(&s, st, startedAt, endedAt, createdAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session logs: %w", err)
	}
	return logs, nil
}

func populateSessionLog(s *domain.SessionLog, sessionType, startedAt, endedAt, createdAt string) (*domain.SessionLog, error) {
	var err error
	s.SessionType = domain.SessionType(sessionType)
	if s.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if s.EndedAt, err = parseTime(endedAt); err != nil {
		return nil, fmt.Errorf("parsing ended_at: %w", err)
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return s, nil
}
