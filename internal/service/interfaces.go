package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/tracker"
)

// Catalog resolves session types to their protocol definitions.
type Catalog interface {
	ProtocolSession(t domain.SessionType) (*domain.ProtocolSession, error)
	SessionTypes() []domain.SessionType
}

// SessionService drives one open tracking session at a time. Every mutation
// is applied to the in-memory tracker first and then persisted; a storage
// failure comes back as a *PersistError alongside the updated view.
type SessionService interface {
	Open(ctx context.Context, t domain.SessionType) (*SessionView, error)
	Current() domain.SessionType
	View() (*SessionView, error)

	Start(ctx context.Context, key string) (*SessionView, error)
	Pause(ctx context.Context) (*SessionView, error)
	Resume(ctx context.Context) (*SessionView, error)
	Restart(ctx context.Context) (*SessionView, error)
	Complete(ctx context.Context) (*SessionView, error)
	Toggle(ctx context.Context, key string) (*SessionView, error)
	Reset(ctx context.Context) (*SessionView, error)
	// Tick completes the active item when its timer has run out and reports
	// whether that happened.
	Tick(ctx context.Context) (*SessionView, bool, error)
}

type HistoryService interface {
	History(ctx context.Context, days int) ([]domain.HistoryDay, error)
	Stats(ctx context.Context, days int) (*domain.CompletionStats, error)
	ExportCSV(ctx context.Context, w io.Writer, days int) (int, error)
	RecentSessions(ctx context.Context, t domain.SessionType, limit int) ([]*domain.SessionLog, error)
	Events(ctx context.Context, t domain.SessionType, date string) ([]*domain.CompletionEvent, error)
}

// ItemView is one checklist row.
type ItemView struct {
	domain.Item
	Completed       bool
	Active          bool
	DurationSeconds int
}

// SessionView is the read model presentation layers render.
type SessionView struct {
	SessionType     domain.SessionType
	Title           string
	Notes           []string
	Date            string
	Items           []ItemView
	Status          domain.TimerStatus
	Active          *domain.Item
	TimerDisplay    string
	Remaining       time.Duration
	DurationSeconds int
	Progress        tracker.Progress
	// Extra counts completed keys that no longer match an item.
	Extra int
}

// ActiveIndex returns the position of the active item, or -1.
func (v *SessionView) ActiveIndex() int {
	for i, it := range v.Items {
		if it.Active {
			return i
		}
	}
	return -1
}
