package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
)

// SQLiteCompletionRepo implements CompletionRepo using a SQLite database.
type SQLiteCompletionRepo struct {
	db db.DBTX
}

// NewSQLiteCompletionRepo creates a new SQLiteCompletionRepo.
func NewSQLiteCompletionRepo(conn db.DBTX) *SQLiteCompletionRepo {
	return &SQLiteCompletionRepo{db: conn}
}

func (r *SQLiteCompletionRepo) Save(ctx context.Context, date string, sessionType domain.SessionType, keys []string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM completions WHERE date = ? AND session_type = ?`,
		date, string(sessionType))
	if err != nil {
		return fmt.Errorf("clearing completions: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(keys))
	args := make([]any, 0, len(keys)*3)
	rows := 0
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		args = append(args, date, string(sessionType), k)
		rows++
	}
	if rows == 0 {
		return nil
	}

	query := `INSERT INTO completions (date, session_type, item_key) VALUES `
	for i := 0; i < rows; i++ {
		if i > 0 {
			query += ", "
		}
		query += "(" + placeholders(3) + ")"
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting completions: %w", err)
	}
	return nil
}

func (r *SQLiteCompletionRepo) Load(ctx context.Context, date string, sessionType domain.SessionType) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_key FROM completions WHERE date = ? AND session_type = ? ORDER BY item_key`,
		date, string(sessionType))
	if err != nil {
		return nil, fmt.Errorf("loading completions: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning completion row: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completions: %w", err)
	}
	return keys, nil
}

func (r *SQLiteCompletionRepo) History(ctx context.Context, from, to string) ([]domain.HistoryDay, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT date, session_type, item_key FROM completions
		WHERE date >= ? AND date <= ?
		ORDER BY date DESC, session_type, item_key`,
		from, to)
	if err != nil {
		return nil, fmt.Errorf("listing completion history: %w", err)
	}
	defer rows.Close()

	var days []domain.HistoryDay
	for rows.Next() {
		var date, sessionType, key string
		if err := rows.Scan(&date, &sessionType, &key); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if len(days) == 0 || days[len(days)-1].Date != date {
			days = append(days, domain.HistoryDay{Date: date, Sessions: make(map[domain.SessionType][]string)})
		}
		day := &days[len(days)-1]
		st := domain.SessionType(sessionType)
		day.Sessions[st] = append(day.Sessions[st], key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	for _, d := range days {
		for _, keys := range d.Sessions {
			sort.Strings(keys)
		}
	}
	return days, nil
}
