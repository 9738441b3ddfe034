package domain

import "time"

// SessionLog records a finished (reset) tracking session.
type SessionLog struct {
	ID             string
	SessionType    SessionType
	StartedAt      time.Time
	EndedAt        time.Time
	CompletedCount int
	TotalCount     int
	CreatedAt      time.Time
}

// Duration returns how long the session ran.
func (s *SessionLog) Duration() time.Duration {
	d := s.EndedAt.Sub(s.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// CompletionEvent is one state change recorded against a session type.
type CompletionEvent struct {
	ID          string
	SessionType SessionType
	ItemKey     string
	Kind        EventKind
	At          time.Time
}

// HistoryDay holds the completed item keys per session type for one date.
type HistoryDay struct {
	Date     string
	Sessions map[SessionType][]string
}

// TotalCompleted sums completed items across all session types.
func (d HistoryDay) TotalCompleted() int {
	total := 0
	for _, keys := range d.Sessions {
		total += len(keys)
	}
	return total
}

// DailyCompletion is one point on a completion series.
type DailyCompletion struct {
	Date      string
	Completed int
}

// CompletionStats summarises history for progress charts.
type CompletionStats struct {
	Daily         []DailyCompletion
	BySessionType map[SessionType][]DailyCompletion
	LongestStreak int
	CurrentStreak int
}
