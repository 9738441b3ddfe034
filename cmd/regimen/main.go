package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/regimen/internal/cli"
	"github.com/alexanderramin/regimen/internal/config"
	"github.com/alexanderramin/regimen/internal/db"
	"github.com/alexanderramin/regimen/internal/notify"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/repository"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/alexanderramin/regimen/internal/tracker"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Completion banners for the TUI; CLI invocations leave it undrained.
	banners := notify.NewChannel(8)

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{
		Config:        &cfg,
		Clock:         tracker.SystemClock{},
		Notifications: banners.C(),
	}

	// Wiring happens after flag parsing so --db and --protocol-dir apply.
	app.Setup = func(ctx context.Context, app *cli.App) error {
		catalog, err := protocol.Load(app.Config.ProtocolDir)
		if err != nil {
			return fmt.Errorf("loading protocols: %w", err)
		}

		if err := app.Config.EnsureDBDir(); err != nil {
			return err
		}
		database, err = db.OpenDB(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		completionRepo := repository.NewSQLiteCompletionRepo(database)
		snapshotRepo := repository.NewSQLiteSnapshotRepo(database)
		logRepo := repository.NewSQLiteSessionLogRepo(database)
		eventRepo := repository.NewSQLiteEventRepo(database)

		uow := db.NewSQLiteUnitOfWork(database)

		var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
		if app.Config.LogCalls {
			observer = service.NewLogUseCaseObserver(os.Stderr)
		}

		notifier := notify.Multi{banners}
		if app.Config.Bell {
			notifier = append(notifier, notify.NewBell(os.Stderr))
		}

		app.Catalog = catalog
		app.Sessions = service.NewSessionService(catalog, completionRepo, snapshotRepo, uow,
			service.WithClock(app.Clock),
			service.WithNotifier(notifier),
			service.WithObserver(observer),
			service.WithDefaultDuration(app.Config.DefaultDurationSeconds),
		)
		app.History = service.NewHistoryService(completionRepo, logRepo, eventRepo, app.Clock, observer)
		app.Import = service.NewImportService(catalog, uow, observer)
		return nil
	}

	// Detect interactive terminal for the bare "regimen" entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
