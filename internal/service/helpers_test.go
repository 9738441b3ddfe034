package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/notify"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/testutil"
	"github.com/stretchr/testify/require"
)

const (
	llltDaily = domain.SessionType("lllt/daily")
	mobMorn   = domain.SessionType("mobility/morning")
)

type fixture struct {
	db       *sql.DB
	clock    *testutil.FakeClock
	catalog  *protocol.Catalog
	notifier *notify.Channel
	logs     *bytes.Buffer
	svc      SessionService
}

func newFixture(t *testing.T, opts ...SessionOption) *fixture {
	t.Helper()
	f := &fixture{
		db:       testutil.NewTestDB(t),
		clock:    testutil.NewFakeClock(time.Time{}),
		catalog:  protocol.MustLoadBuiltin(),
		notifier: notify.NewChannel(8),
		logs:     &bytes.Buffer{},
	}
	f.svc = f.newService(db.NewSQLiteUnitOfWork(f.db), opts...)
	return f
}

func (f *fixture) newService(uow db.UnitOfWork, opts ...SessionOption) SessionService {
	base := []SessionOption{
		WithClock(f.clock),
		WithNotifier(f.notifier),
		WithObserver(NewLogUseCaseObserver(f.logs)),
	}
	return NewSessionService(f.catalog,
		repository.NewSQLiteCompletionRepo(f.db),
		repository.NewSQLiteSnapshotRepo(f.db),
		uow,
		append(base, opts...)...)
}

func (f *fixture) open(t *testing.T, st domain.SessionType) *SessionView {
	t.Helper()
	v, err := f.svc.Open(context.Background(), st)
	require.NoError(t, err)
	return v
}

func (f *fixture) savedKeys(t *testing.T, st domain.SessionType) []string {
	t.Helper()
	keys, err := repository.NewSQLiteCompletionRepo(f.db).Load(context.Background(), f.clock.Now().Format(domain.DateLayout), st)
	require.NoError(t, err)
	return keys
}
