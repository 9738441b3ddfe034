package tracker

import (
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
)

// Snapshot is a serializable copy of a tracker's mutable state.
type Snapshot struct {
	Completed    []string       `json:"completed"`
	ActiveKey    string         `json:"active_key,omitempty"`
	SessionStart *time.Time     `json:"session_start,omitempty"`
	Timer        *TimerSnapshot `json:"timer,omitempty"`
}

type TimerSnapshot struct {
	DurationSeconds int        `json:"duration_seconds"`
	StartedAt       time.Time  `json:"started_at"`
	Paused          bool       `json:"paused"`
	PausedAt        *time.Time `json:"paused_at,omitempty"`
}

// Snapshot captures the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{Completed: sortedKeys(t.completed)}
	if t.sessionStart != nil {
		ss := *t.sessionStart
		s.SessionStart = &ss
	}
	if t.active != nil && t.timer != nil {
		s.ActiveKey = t.active.Key
		ts := &TimerSnapshot{
			DurationSeconds: t.timer.DurationSeconds,
			StartedAt:       t.timer.StartedAt,
			Paused:          t.timer.Paused,
		}
		if t.timer.PausedAt != nil {
			pa := *t.timer.PausedAt
			ts.PausedAt = &pa
		}
		s.Timer = ts
	}
	return s
}

// Restore rebuilds a tracker from a snapshot over the current item list.
// An active key that no longer names an item is dropped along with its
// timer. Completed keys are kept as-is, including the active one.
func Restore(s Snapshot, items []domain.Item, opts ...Option) *Tracker {
	t := New(items, opts...)
	for _, k := range s.Completed {
		t.completed[k] = struct{}{}
	}
	if s.SessionStart != nil {
		ss := *s.SessionStart
		t.sessionStart = &ss
	}
	if s.ActiveKey == "" || s.Timer == nil {
		return t
	}
	item, ok := domain.FindItem(t.items, s.ActiveKey)
	if !ok {
		return t
	}
	t.active = &item
	t.timer = &Timer{
		DurationSeconds: capSeconds(s.Timer.DurationSeconds),
		StartedAt:       s.Timer.StartedAt,
		Paused:          s.Timer.Paused,
	}
	if s.Timer.PausedAt != nil {
		pa := *s.Timer.PausedAt
		t.timer.PausedAt = &pa
	}
	return t
}

// Empty reports whether the snapshot carries no session progress.
func (s Snapshot) Empty() bool {
	return len(s.Completed) == 0 && s.ActiveKey == "" && s.SessionStart == nil
}
