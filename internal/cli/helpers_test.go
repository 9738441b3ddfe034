package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/alexanderramin/regimen/internal/config"
	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/alexanderramin/regimen/internal/testutil"
)

// testApp wires a full App backed by an in-memory DB and a fake clock.
func testApp(t *testing.T) (*App, *testutil.FakeClock) {
	t.Helper()
	database := testutil.NewTestDB(t)
	clock := testutil.NewFakeClock(time.Time{})
	catalog := protocol.MustLoadBuiltin()
	uow := db.NewSQLiteUnitOfWork(database)

	completions := repository.NewSQLiteCompletionRepo(database)
	cfg := config.DefaultConfig()
	cfg.DBPath = ":memory:"

	return &App{
		Config:  &cfg,
		Catalog: catalog,
		Clock:   clock,
		Sessions: service.NewSessionService(catalog, completions,
			repository.NewSQLiteSnapshotRepo(database), uow,
			service.WithClock(clock)),
		History: service.NewHistoryService(completions,
			repository.NewSQLiteSessionLogRepo(database),
			repository.NewSQLiteEventRepo(database), clock),
		Import: service.NewImportService(catalog, uow),
	}, clock
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}
