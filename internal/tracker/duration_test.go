package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"90 seconds", 90},
		{"5 minutes", 300},
		{"2 mins/side", 240},
		{"10 reps", 50},
		{"3 sets x 30 seconds", 90},
		{"3x10 reps", 150},
		{"3x30s hold", 90},
		{"2x30s/side", 120},
		{"15 reps/side", 150},
		{"10 reps/direction/side", 100},
		{"120", 120},
		{"1 min 30 sec", 90},
		{"  5 MINUTES ", 300},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDuration(tc.text, 60))
		})
	}
}

func TestParseDuration_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, 60, ParseDuration("gibberish", 60))
	assert.Equal(t, 45, ParseDuration("", 45))
	assert.Equal(t, 60, ParseDuration("0 minutes", 60))
	assert.Equal(t, 60, ParseDuration("as long as it takes", 60))
}

func TestParseDuration_CapsAtOneDay(t *testing.T) {
	assert.Equal(t, MaxDurationSeconds, ParseDuration("200000000000 minutes", 60))
	assert.Equal(t, MaxDurationSeconds, ParseDuration("99999999999999999999999 seconds", 60))
	assert.Equal(t, MaxDurationSeconds, ParseDuration("9999999999 sets x 9999999999 reps", 60))
	assert.Equal(t, MaxDurationSeconds, ParseDuration("99999999999999999999", 60))
}

func TestTimer_RemainingCapsStoredDuration(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	tm := &Timer{DurationSeconds: 1 << 60, StartedAt: now}
	assert.Equal(t, time.Duration(MaxDurationSeconds)*time.Second, tm.Remaining(now))
	assert.False(t, tm.Expired(now))
}
