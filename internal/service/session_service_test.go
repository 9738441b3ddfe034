package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService_OpenFresh(t *testing.T) {
	f := newFixture(t)

	v := f.open(t, llltDaily)

	assert.Equal(t, llltDaily, f.svc.Current())
	assert.Equal(t, "Daily Treatments", v.Title)
	assert.Len(t, v.Notes, 3)
	require.Len(t, v.Items, 3)
	assert.Equal(t, 120, v.Items[0].DurationSeconds)
	assert.Equal(t, domain.TimerIdle, v.Status)
	assert.Equal(t, "00:00", v.TimerDisplay)
	assert.Equal(t, -1, v.ActiveIndex())
}

func TestSessionService_OpenUnknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Open(context.Background(), "mobility/dinner")
	assert.ErrorIs(t, err, protocol.ErrUnknownSession)

	_, err = f.svc.View()
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = f.svc.Pause(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionService_StartPauseResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, mobMorn)

	v, err := f.svc.Start(ctx, "dynamic-cat-cow")
	require.NoError(t, err)
	assert.Equal(t, domain.TimerRunning, v.Status)
	assert.Equal(t, 0, v.ActiveIndex())
	assert.Equal(t, "02:00", v.TimerDisplay)

	f.clock.Advance(30 * time.Second)
	v, err = f.svc.Pause(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TimerPaused, v.Status)

	f.clock.Advance(5 * time.Minute)
	v, err = f.svc.Resume(ctx)
	require.NoError(t, err)
	assert.Equal(t, "01:30", v.TimerDisplay)

	events, err := repository.NewSQLiteEventRepo(f.db).ListByDate(ctx, mobMorn, f.clock.Now().Format(domain.DateLayout))
	require.NoError(t, err)
	kinds := make([]domain.EventKind, 0, len(events))
	for _, e := range events {
		kinds = append(kinds, e.Kind)
		assert.Equal(t, "dynamic-cat-cow", e.ItemKey)
	}
	assert.Equal(t, []domain.EventKind{domain.EventStart, domain.EventPause, domain.EventResume}, kinds)
}

func TestSessionService_StartUnknownItem(t *testing.T) {
	f := newFixture(t)
	f.open(t, llltDaily)

	_, err := f.svc.Start(context.Background(), "frontal-treatment")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSessionService_NoOpsAreNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Pause(ctx)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx)
	require.NoError(t, err)

	events, err := repository.NewSQLiteEventRepo(f.db).ListByDate(ctx, llltDaily, f.clock.Now().Format(domain.DateLayout))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestSessionService_CompletePersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "crown-treatment")
	require.NoError(t, err)
	v, err := f.svc.Complete(ctx)
	require.NoError(t, err)

	assert.Nil(t, v.Active)
	assert.True(t, v.Items[0].Completed)
	assert.Equal(t, 1, v.Progress.Completed)
	assert.Equal(t, []string{"crown-treatment"}, f.savedKeys(t, llltDaily))
}

func TestSessionService_TickExpiresAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "temporal-treatment")
	require.NoError(t, err)

	f.clock.Advance(89 * time.Second)
	_, fired, err := f.svc.Tick(ctx)
	require.NoError(t, err)
	assert.False(t, fired)

	f.clock.Advance(time.Second)
	v, fired, err := f.svc.Tick(ctx)
	require.NoError(t, err)
	assert.True(t, fired)
	assert.True(t, v.Items[1].Completed)
	assert.Nil(t, v.Active)

	select {
	case n := <-f.notifier.C():
		assert.Equal(t, llltDaily, n.SessionType)
		assert.Equal(t, "temporal-treatment", n.Key)
		assert.True(t, n.Expired)
	default:
		t.Fatal("expected a completion notification")
	}
	assert.Equal(t, []string{"temporal-treatment"}, f.savedKeys(t, llltDaily))
}

func TestSessionService_ToggleKeepsTimer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "crown-treatment")
	require.NoError(t, err)
	v, err := f.svc.Toggle(ctx, "crown-treatment")
	require.NoError(t, err)

	assert.True(t, v.Items[0].Completed)
	assert.True(t, v.Items[0].Active)
	assert.Equal(t, domain.TimerRunning, v.Status)

	_, err = f.svc.Toggle(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestSessionService_ReopenContinuesSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, mobMorn)

	_, err := f.svc.Toggle(ctx, "dynamic-leg-swings")
	require.NoError(t, err)
	_, err = f.svc.Start(ctx, "dynamic-cat-cow")
	require.NoError(t, err)
	f.clock.Advance(40 * time.Second)

	other := f.newService(testutil.NewTestUoW(f.db))
	v, err := other.Open(ctx, mobMorn)
	require.NoError(t, err)

	require.NotNil(t, v.Active)
	assert.Equal(t, "dynamic-cat-cow", v.Active.Key)
	assert.Equal(t, 80*time.Second, v.Remaining)
	assert.True(t, v.Items[1].Completed)
}

func TestSessionService_StaleSnapshotDiscarded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "crown-treatment")
	require.NoError(t, err)
	_, err = f.svc.Toggle(ctx, "occipital-treatment")
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	v := f.open(t, llltDaily)

	assert.Nil(t, v.Active)
	assert.Equal(t, 0, v.Progress.Completed)
	assert.False(t, v.Progress.Started)

	_, _, err = repository.NewSQLiteSnapshotRepo(f.db).Load(ctx, llltDaily)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSessionService_ResetLogsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "crown-treatment")
	require.NoError(t, err)
	f.clock.Advance(2 * time.Minute)
	_, err = f.svc.Complete(ctx)
	require.NoError(t, err)

	v, err := f.svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Progress.Completed)
	assert.False(t, v.Progress.Started)
	assert.Empty(t, f.savedKeys(t, llltDaily))

	logs, err := repository.NewSQLiteSessionLogRepo(f.db).ListRecent(ctx, llltDaily, 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 1, logs[0].CompletedCount)
	assert.Equal(t, 3, logs[0].TotalCount)
	assert.Equal(t, 2*time.Minute, logs[0].Duration())
}

func TestSessionService_ResetWithoutStartSkipsLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Reset(ctx)
	require.NoError(t, err)

	logs, err := repository.NewSQLiteSessionLogRepo(f.db).ListRecent(ctx, "", 5)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestSessionService_ObserverLogs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.open(t, llltDaily)

	_, err := f.svc.Start(ctx, "crown-treatment")
	require.NoError(t, err)
	_, _, err = f.svc.Tick(ctx)
	require.NoError(t, err)

	out := f.logs.String()
	assert.Contains(t, out, "use_case=open-session")
	assert.Contains(t, out, "use_case=start-item")
	assert.Contains(t, out, "session_type=lllt/daily")
	assert.NotContains(t, out, "use_case=expire-item")
}

func TestSessionService_UnparseableDurationUsesConfiguredDefault(t *testing.T) {
	f := newFixture(t, WithDefaultDuration(45))
	items := []domain.Item{testutil.NewTestItem("Breathe", testutil.WithDuration("until calm"))}
	cat, err := protocol.NewCatalog(testutil.NewTestProtocol("calm", "evening", items...))
	require.NoError(t, err)
	f.catalog = cat
	f.svc = f.newService(testutil.NewTestUoW(f.db), WithDefaultDuration(45))

	f.open(t, "calm/evening")
	v, err := f.svc.Start(context.Background(), "breathe")
	require.NoError(t, err)
	assert.Equal(t, 45, v.DurationSeconds)
	assert.Equal(t, "00:45", v.TimerDisplay)
}

func TestPersistError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&PersistError{Op: "start-item", Err: inner})

	assert.True(t, IsPersistError(err))
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "persisting start-item: disk full", err.Error())
	assert.False(t, IsPersistError(inner))
}

func TestSessionService_StaleKeysDoNotInflateProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := f.clock.Now().Format(domain.DateLayout)
	require.NoError(t, repository.NewSQLiteCompletionRepo(f.db).Save(ctx, today, llltDaily,
		[]string{"crown-treatment", "forehead-treatment"}))

	v := f.open(t, llltDaily)
	assert.Equal(t, 1, v.Progress.Completed)
	assert.Equal(t, 1, v.Extra)

	for _, key := range []string{"temporal-treatment", "occipital-treatment"} {
		var err error
		v, err = f.svc.Toggle(ctx, key)
		require.NoError(t, err)
	}

	assert.Equal(t, 3, v.Progress.Completed)
	assert.Equal(t, 3, v.Progress.Total)
	assert.Equal(t, 1, v.Extra)
	assert.InDelta(t, 1.0, v.Progress.Percent(), 0.0001)
	assert.Contains(t, f.savedKeys(t, llltDaily), "forehead-treatment")
}
