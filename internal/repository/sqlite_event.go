package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/oklog/ulid/v2"
)

// SQLiteEventRepo implements EventRepo. Event ids are ULIDs drawn from a
// monotonic entropy source so rows sort by creation order even within one
// millisecond.
type SQLiteEventRepo struct {
	db db.DBTX
}

// NewSQLiteEventRepo creates a new SQLiteEventRepo.
func NewSQLiteEventRepo(conn db.DBTX) *SQLiteEventRepo {
	return &SQLiteEventRepo{db: conn}
}

func newEventID(at time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(at), ulid.DefaultEntropy())
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Append stores e, assigning an id when e.ID is empty.
func (r *SQLiteEventRepo) Append(ctx context.Context, e *domain.CompletionEvent) error {
	if !domain.ValidEventKinds[e.Kind] {
		return fmt.Errorf("invalid event kind %q", e.Kind)
	}
	if e.ID == "" {
		id, err := newEventID(e.At)
		if err != nil {
			return fmt.Errorf("generating event id: %w", err)
		}
		e.ID = id
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO completion_events (id, session_type, item_key, kind, at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, string(e.SessionType), e.ItemKey, string(e.Kind), formatTime(e.At))
	if err != nil {
		return fmt.Errorf("inserting completion event: %w", err)
	}
	return nil
}

// ListByDate returns the events of one local calendar date in order.
func (r *SQLiteEventRepo) ListByDate(ctx context.Context, sessionType domain.SessionType, date string) ([]*domain.CompletionEvent, error) {
	day, err := time.ParseInLocation(domain.DateLayout, date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", date, err)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, session_type, item_key, kind, at FROM completion_events
		WHERE session_type = ? AND at >= ? AND at < ?
		ORDER BY at, id`,
		string(sessionType), formatTime(day), formatTime(day.AddDate(0, 0, 1)))
	if err != nil {
		return nil, fmt.Errorf("listing completion events: %w", err)
	}
	defer rows.Close()

	var events []*domain.CompletionEvent
	for rows.Next() {
		var e domain.CompletionEvent
		var st, kind, at string
		if err := rows.Scan(&e.ID, &st, &e.ItemKey, &kind, &at); err != nil {
			return nil, fmt.Errorf("scanning completion event: %w", err)
		}
		e.SessionType = domain.SessionType(st)
		e.Kind = domain.EventKind(kind)
		if e.At, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("parsing at: %w", err)
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating completion events: %w", err)
	}
	return events, nil
}
