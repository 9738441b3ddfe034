package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/regimen/internal/config"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/notify"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/alexanderramin/regimen/internal/tracker"
	"github.com/spf13/cobra"
)

// App holds references to all services used by CLI commands and the TUI.
type App struct {
	Config   *config.Config
	Catalog  *protocol.Catalog
	Sessions service.SessionService
	History  service.HistoryService
	Import   service.ImportService
	Clock    tracker.Clock

	// Notifications feeds completion banners to the TUI. Nil disables the
	// listener; banners then come only from tick results.
	Notifications <-chan notify.Notification

	// Setup runs after flags are parsed and before any command executes,
	// so flag overrides of Config reach the wiring. Nil when services are
	// injected directly.
	Setup func(ctx context.Context, app *App) error

	// IsInteractive reports whether stdin is a terminal; a bare "regimen"
	// launches the TUI when it does.
	IsInteractive func() bool
}

func (a *App) clock() tracker.Clock {
	if a.Clock == nil {
		return tracker.SystemClock{}
	}
	return a.Clock
}

func (a *App) today() string {
	return a.clock().Now().Format(domain.DateLayout)
}

// NewRootCmd creates the top-level "regimen" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		cfg := config.DefaultConfig()
		app.Config = &cfg
	}

	root := &cobra.Command{
		Use:           "regimen",
		Short:         "Wellness protocol session tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if app.Setup == nil {
				return nil
			}
			return app.Setup(cmd.Context(), app)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}
	app.Config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newProtocolCmd(app),
		newSessionCmd(app),
		newHistoryCmd(app),
		newStatsCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newTUICmd(app),
	)

	return root
}

// resolveSessionType maps a --type value onto a catalog session type.
// An empty value picks the first session type in the catalog.
func resolveSessionType(app *App, raw string) (domain.SessionType, error) {
	if raw == "" {
		types := app.Catalog.SessionTypes()
		if len(types) == 0 {
			return "", errors.New("no protocols loaded")
		}
		return types[0], nil
	}
	t, err := app.Catalog.Resolve(raw)
	if err != nil {
		return "", fmt.Errorf("session type %q: %w", raw, err)
	}
	return t, nil
}
