package repository

import (
	"context"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// CompletionRepo stores completed item keys per calendar date and session type.
type CompletionRepo interface {
	// Save replaces the set for (date, sessionType). An empty set clears it.
	Save(ctx context.Context, date string, sessionType domain.SessionType, keys []string) error
	// Load returns the saved set, or an empty set when nothing was saved.
	Load(ctx context.Context, date string, sessionType domain.SessionType) ([]string, error)
	// History returns every day in [from, to] with at least one completion,
	// newest first.
	History(ctx context.Context, from, to string) ([]domain.HistoryDay, error)
}

// SnapshotRepo keeps the in-progress tracker state per session type so
// separate invocations continue the same session.
type SnapshotRepo interface {
	Save(ctx context.Context, sessionType domain.SessionType, date string, snap tracker.Snapshot) error
	Load(ctx context.Context, sessionType domain.SessionType) (date string, snap tracker.Snapshot, err error)
	Delete(ctx context.Context, sessionType domain.SessionType) error
}

type SessionLogRepo interface {
	Create(ctx context.Context, s *domain.SessionLog) error
	GetByID(ctx context.Context, id string) (*domain.SessionLog, error)
	ListRecent(ctx context.Context, sessionType domain.SessionType, limit int) ([]*domain.SessionLog, error)
}

// EventRepo is an append-only log of tracker transitions.
type EventRepo interface {
	Append(ctx context.Context, e *domain.CompletionEvent) error
	ListByDate(ctx context.Context, sessionType domain.SessionType, date string) ([]*domain.CompletionEvent, error)
}
