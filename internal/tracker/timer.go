package tracker

import (
	"fmt"
	"time"
)

// Timer counts down one active item. Paused time never counts toward Elapsed:
// Resume shifts StartedAt forward by the length of the pause.
type Timer struct {
	DurationSeconds int
	StartedAt       time.Time
	Paused          bool
	PausedAt        *time.Time
}

func newTimer(durationSeconds int, now time.Time) *Timer {
	return &Timer{DurationSeconds: durationSeconds, StartedAt: now}
}

// Elapsed returns counted time, frozen at PausedAt while paused.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	ref := now
	if t.Paused && t.PausedAt != nil {
		ref = *t.PausedAt
	}
	d := ref.Sub(t.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// Remaining is max(0, duration - elapsed).
func (t *Timer) Remaining(now time.Time) time.Duration {
	r := time.Duration(capSeconds(t.DurationSeconds))*time.Second - t.Elapsed(now)
	if r < 0 {
		return 0
	}
	return r
}

func (t *Timer) Expired(now time.Time) bool {
	return t.Remaining(now) <= 0
}

func (t *Timer) pause(now time.Time) bool {
	if t.Paused {
		return false
	}
	t.Paused = true
	t.PausedAt = &now
	return true
}

func (t *Timer) resume(now time.Time) bool {
	if !t.Paused {
		return false
	}
	if t.PausedAt != nil {
		if d := now.Sub(*t.PausedAt); d > 0 {
			t.StartedAt = t.StartedAt.Add(d)
		}
	}
	t.Paused = false
	t.PausedAt = nil
	return true
}

func (t *Timer) restart(now time.Time) {
	t.StartedAt = now
	t.Paused = false
	t.PausedAt = nil
}

// Display renders the remaining time as MM:SS, rounding partial seconds up.
func (t *Timer) Display(now time.Time) string {
	return FormatClock(t.Remaining(now))
}

// FormatClock renders d as MM:SS. Minutes are not capped at 59.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
