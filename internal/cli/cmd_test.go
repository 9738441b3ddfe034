package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- protocol ---

func TestProtocolList(t *testing.T) {
	app, _ := testApp(t)
	out, err := executeCmd(t, app, "protocol", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "lllt")
	assert.Contains(t, out, "mobility-advanced")
	assert.Contains(t, out, "morning, lunch, pre-bed")
}

func TestProtocolShow(t *testing.T) {
	app, _ := testApp(t)
	out, err := executeCmd(t, app, "protocol", "show", "lllt")
	require.NoError(t, err)
	assert.Contains(t, out, "Crown Treatment")
	assert.Contains(t, out, "lllt/daily")
	assert.Contains(t, out, "2m")
}

func TestProtocolShow_Unknown(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "protocol", "show", "yoga")
	assert.ErrorIs(t, err, protocol.ErrUnknownProtocol)
}

func TestProtocolValidate(t *testing.T) {
	app, _ := testApp(t)
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`name: breathing
title: Breathing
version: 1.0.0
sessions:
  - name: evening
    items:
      - name: Box Breathing
        duration: 4 minutes
`), 0o644))
	out, err := executeCmd(t, app, "protocol", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "breathing v1.0.0: 1 session(s) OK")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte(`name: broken
version: 1.0.0
sessions:
  - name: evening
    items:
      - name: No Duration
`), 0o644))
	out, err = executeCmd(t, app, "protocol", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation error")
	assert.Contains(t, out, "✖")
}

// --- session ---

func TestSession_StartStatusAcrossInvocations(t *testing.T) {
	app, clock := testApp(t)

	out, err := executeCmd(t, app, "session", "start", "crown-treatment", "--type", "lllt/daily")
	require.NoError(t, err)
	assert.Contains(t, out, "Crown Treatment")
	assert.Contains(t, out, "02:00")

	clock.Advance(30 * time.Second)
	out, err = executeCmd(t, app, "session", "status", "--type", "lllt")
	require.NoError(t, err)
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "01:30")
	assert.Contains(t, out, "0/3 complete")
}

func TestSession_ExpiredTimerCompletesOnNextInvocation(t *testing.T) {
	app, clock := testApp(t)

	_, err := executeCmd(t, app, "session", "start", "1")
	require.NoError(t, err)

	clock.Advance(121 * time.Second)
	out, err := executeCmd(t, app, "session", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3 complete")
	assert.Contains(t, out, "IDLE")

	history, err := app.History.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, []string{"crown-treatment"}, history[0].Sessions["lllt/daily"])
}

func TestSession_PauseResumeRestartComplete(t *testing.T) {
	app, clock := testApp(t)

	_, err := executeCmd(t, app, "session", "start", "Temporal Treatment")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	out, err := executeCmd(t, app, "session", "pause")
	require.NoError(t, err)
	assert.Contains(t, out, "PAUSED")
	assert.Contains(t, out, "01:20")

	clock.Advance(time.Hour)
	out, err = executeCmd(t, app, "session", "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "RUNNING")
	assert.Contains(t, out, "01:20")

	out, err = executeCmd(t, app, "session", "restart")
	require.NoError(t, err)
	assert.Contains(t, out, "01:30")

	out, err = executeCmd(t, app, "session", "complete")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")
	assert.NotContains(t, out, "Temporal")
}

func TestSession_ToggleAndReset(t *testing.T) {
	app, _ := testApp(t)

	out, err := executeCmd(t, app, "session", "toggle", "3", "-t", "lllt/daily")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")

	out, err = executeCmd(t, app, "session", "toggle", "occipital-treatment")
	require.NoError(t, err)
	assert.Contains(t, out, "0/3")

	_, err = executeCmd(t, app, "session", "toggle", "1")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "session", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "0/3")
}

func TestSession_UnknownItem(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "session", "start", "handstand")
	assert.ErrorIs(t, err, service.ErrUnknownItem)

	_, err = executeCmd(t, app, "session", "start", "9")
	assert.ErrorIs(t, err, service.ErrUnknownItem)
}

func TestSession_UnknownType(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "session", "status", "--type", "mobility")
	assert.ErrorIs(t, err, protocol.ErrUnknownSession)

	_, err = executeCmd(t, app, "session", "status", "--type", "yoga/daily")
	assert.ErrorIs(t, err, protocol.ErrUnknownProtocol)
}

func TestSession_EventsAndLog(t *testing.T) {
	app, clock := testApp(t)

	_, err := executeCmd(t, app, "session", "start", "1")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = executeCmd(t, app, "session", "complete")
	require.NoError(t, err)
	clock.Advance(time.Second)
	_, err = executeCmd(t, app, "session", "reset")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "session", "events")
	require.NoError(t, err)
	assert.Contains(t, out, "start")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "reset")

	out, err = executeCmd(t, app, "session", "log")
	require.NoError(t, err)
	assert.Contains(t, out, "1/3")

	_, err = executeCmd(t, app, "session", "events", "--date", "yesterday")
	assert.Error(t, err)
}

// --- history, stats, export, import ---

func TestHistoryStatsExport(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "session", "toggle", "crown-treatment")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "session", "toggle", "1", "--type", "mobility/morning")
	require.NoError(t, err)

	out, err := executeCmd(t, app, "history", "--days", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "crown-treatment")
	assert.Contains(t, out, "dynamic-cat-cow")

	out, err = executeCmd(t, app, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 1 day")

	path := filepath.Join(t.TempDir(), "out.csv")
	out, err = executeCmd(t, app, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 row(s)")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Date,Session,Completed Exercises,Exercise IDs")
	assert.Contains(t, string(data), "2025-03-10,lllt/daily,1,crown-treatment")

	out, err = executeCmd(t, app, "export")
	require.NoError(t, err)
	assert.Contains(t, out, "Date,Session")
}

func TestImport(t *testing.T) {
	app, _ := testApp(t)
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"2025-03-08": {"lllt": ["Crown Treatment", 1]},
		"2025-03-09": {"morning": [0]}
	}`), 0o644))

	out, err := executeCmd(t, app, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 completion set(s) across 2 day(s)")
	assert.Contains(t, out, "lllt/daily")

	history, err := app.History.History(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []string{"crown-treatment", "temporal-treatment"},
		history[1].Sessions[domain.SessionType("lllt/daily")])
}

func TestRootCmd_NonInteractivePrintsHelp(t *testing.T) {
	app, _ := testApp(t)
	app.IsInteractive = func() bool { return false }
	out, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "Wellness protocol session tracker")
}

func TestRootCmd_SetupRunsAfterFlags(t *testing.T) {
	app, _ := testApp(t)
	var seen string
	app.Setup = func(ctx context.Context, a *App) error {
		seen = a.Config.DBPath
		return nil
	}
	_, err := executeCmd(t, app, "--db", "/tmp/flag.db", "protocol", "list")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", seen)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	app, _ := testApp(t)
	_, err := executeCmd(t, app, "--default-duration", "0", "protocol", "list")
	assert.ErrorContains(t, err, "default duration")
}

func TestResolveItem(t *testing.T) {
	view := &service.SessionView{Items: []service.ItemView{
		{Item: domain.Item{Key: "crown-treatment", Name: "Crown Treatment"}},
		{Item: domain.Item{Key: "temporal-treatment", Name: "Temporal Treatment"}},
	}}

	tests := []struct {
		arg  string
		want string
	}{
		{"crown-treatment", "crown-treatment"},
		{"2", "temporal-treatment"},
		{"crown treatment", "crown-treatment"},
		{"Temporal  Treatment", "temporal-treatment"},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveItem(view, tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveItem(view, "0")
	assert.ErrorIs(t, err, service.ErrUnknownItem)
}
