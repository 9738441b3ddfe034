package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var sessionType string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive session dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionType != "" {
				t, err := resolveSessionType(app, sessionType)
				if err != nil {
					return err
				}
				if _, err := app.Sessions.Open(cmd.Context(), t); err != nil {
					return err
				}
			}
			return runTUI(cmd.Context(), app)
		},
	}
	cmd.Flags().StringVarP(&sessionType, "type", "t", "", "session type to open first")
	return cmd
}

func runTUI(ctx context.Context, app *App) error {
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
