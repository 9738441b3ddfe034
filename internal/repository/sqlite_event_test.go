package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/testutil"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepo_AppendAssignsULID(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	e := &domain.CompletionEvent{SessionType: lllt, ItemKey: "crown-treatment", Kind: domain.EventStart, At: at}
	require.NoError(t, repo.Append(context.Background(), e))

	id, err := ulid.Parse(e.ID)
	require.NoError(t, err)
	assert.Equal(t, ulid.Timestamp(at), id.Time())
}

func TestEventRepo_RejectsUnknownKind(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))

	err := repo.Append(context.Background(), &domain.CompletionEvent{SessionType: lllt, Kind: "jump", At: time.Now()})
	assert.Error(t, err)
}

func TestEventRepo_ListByDate(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	day := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	kinds := []domain.EventKind{domain.EventStart, domain.EventPause, domain.EventResume, domain.EventComplete}
	for i, k := range kinds {
		require.NoError(t, repo.Append(ctx, &domain.CompletionEvent{
			SessionType: lllt, ItemKey: "crown-treatment", Kind: k, At: day.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, repo.Append(ctx, &domain.CompletionEvent{SessionType: lllt, Kind: domain.EventReset, At: day.AddDate(0, 0, 1)}))
	require.NoError(t, repo.Append(ctx, &domain.CompletionEvent{SessionType: morning, Kind: domain.EventReset, At: day}))

	events, err := repo.ListByDate(ctx, lllt, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i, e := range events {
		assert.Equal(t, kinds[i], e.Kind)
		assert.True(t, day.Add(time.Duration(i)*time.Second).Equal(e.At))
	}

	_, err = repo.ListByDate(ctx, lllt, "10/03/2025")
	assert.Error(t, err)
}
