package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	var sessionType string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Drive the timer and checklist for one protocol session",
		Long: `Each subcommand reopens the session from its saved snapshot, so a timer
started in one invocation keeps running across later ones.`,
	}
	cmd.PersistentFlags().StringVarP(&sessionType, "type", "t", "", "session type, e.g. lllt/daily or mobility/morning")

	// open reopens the session and lets an expired timer complete before the
	// command acts, so the checklist reflects time spent between invocations.
	open := func(ctx context.Context) (*service.SessionView, error) {
		t, err := resolveSessionType(app, sessionType)
		if err != nil {
			return nil, err
		}
		if _, err := app.Sessions.Open(ctx, t); err != nil {
			return nil, err
		}
		view, _, err := app.Sessions.Tick(ctx)
		return view, err
	}

	simple := func(use, short string, op func(context.Context) (*service.SessionView, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				warn := persistWarning(cmd)
				if _, err := warn(open(ctx)); err != nil {
					return err
				}
				view, err := warn(op(ctx))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusLine(view))
				return nil
			},
		}
	}

	withItem := func(use, short string, op func(context.Context, string) (*service.SessionView, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <item>",
			Short: short,
			Long:  "<item> is an item key, its 1-based position, or its name.",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				warn := persistWarning(cmd)
				view, err := warn(open(ctx))
				if err != nil {
					return err
				}
				key, err := resolveItem(view, args[0])
				if err != nil {
					return err
				}
				view, err = warn(op(ctx, key))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusLine(view))
				return nil
			},
		}
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the checklist, active timer and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := persistWarning(cmd)(open(cmd.Context()))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSession(view))
			return nil
		},
	}

	cmd.AddCommand(
		status,
		withItem("start", "Start the timer for an item", func(ctx context.Context, key string) (*service.SessionView, error) {
			return app.Sessions.Start(ctx, key)
		}),
		withItem("toggle", "Mark an item done or not done without touching the timer", func(ctx context.Context, key string) (*service.SessionView, error) {
			return app.Sessions.Toggle(ctx, key)
		}),
		simple("pause", "Pause the running timer", func(ctx context.Context) (*service.SessionView, error) {
			return app.Sessions.Pause(ctx)
		}),
		simple("resume", "Resume a paused timer", func(ctx context.Context) (*service.SessionView, error) {
			return app.Sessions.Resume(ctx)
		}),
		simple("restart", "Restart the active item's timer from full length", func(ctx context.Context) (*service.SessionView, error) {
			return app.Sessions.Restart(ctx)
		}),
		simple("complete", "Complete the active item now", func(ctx context.Context) (*service.SessionView, error) {
			return app.Sessions.Complete(ctx)
		}),
		simple("reset", "Clear today's checklist and stop the timer", func(ctx context.Context) (*service.SessionView, error) {
			return app.Sessions.Reset(ctx)
		}),
		newSessionWatchCmd(app, open),
		newSessionLogCmd(app, &sessionType),
		newSessionEventsCmd(app, &sessionType),
	)

	return cmd
}

// newSessionWatchCmd follows the running timer until it finishes or the
// command is interrupted.
func newSessionWatchCmd(app *App, open func(context.Context) (*service.SessionView, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the active timer until it completes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			view, err := persistWarning(cmd)(open(ctx))
			if err != nil {
				return err
			}
			if view.Active == nil {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No active item."))
				return nil
			}
			return watch(ctx, cmd.OutOrStdout(), app, app.Config.TickInterval)
		},
	}
}

func watch(ctx context.Context, w io.Writer, app *App, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(w)
			return nil
		case <-ticker.C:
			view, done, err := app.Sessions.Tick(ctx)
			if err != nil && !service.IsPersistError(err) {
				return err
			}
			if done {
				fmt.Fprintf(w, "\r%s\n", formatter.FormatStatusLine(view))
				return nil
			}
			if view.Active == nil {
				fmt.Fprintln(w)
				return nil
			}
			fmt.Fprintf(w, "\r%s", formatter.FormatStatusLine(view))
		}
	}
}

func newSessionLogCmd(app *App, sessionType *string) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List finished sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveSessionType(app, *sessionType)
			if err != nil {
				return err
			}
			logs, err := app.History.RecentSessions(cmd.Context(), t, limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSessionLogs(logs, app.clock().Now()))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum sessions to list")
	return cmd
}

func newSessionEventsCmd(app *App, sessionType *string) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event log for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolveSessionType(app, *sessionType)
			if err != nil {
				return err
			}
			if date == "" {
				date = app.today()
			}
			if _, err := time.Parse(domain.DateLayout, date); err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			events, err := app.History.Events(cmd.Context(), t, date)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvents(events))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")
	return cmd
}

// persistWarning downgrades a persistence failure to a warning on stderr.
// The in-memory state already changed and the view is still valid.
func persistWarning(cmd *cobra.Command) func(*service.SessionView, error) (*service.SessionView, error) {
	return func(view *service.SessionView, err error) (*service.SessionView, error) {
		if err == nil {
			return view, nil
		}
		if service.IsPersistError(err) && view != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("warning: "+err.Error()))
			return view, nil
		}
		return nil, err
	}
}

// resolveItem accepts an item key, a 1-based position or a case-insensitive
// item name.
func resolveItem(view *service.SessionView, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	for _, it := range view.Items {
		if it.Key == arg {
			return it.Key, nil
		}
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n >= 1 && n <= len(view.Items) {
			return view.Items[n-1].Key, nil
		}
		return "", fmt.Errorf("item %d out of range 1-%d: %w", n, len(view.Items), service.ErrUnknownItem)
	}
	for _, it := range view.Items {
		if strings.EqualFold(it.Name, arg) {
			return it.Key, nil
		}
	}
	if key := domain.ItemKey(arg); key != "" {
		for _, it := range view.Items {
			if it.Key == key {
				return it.Key, nil
			}
		}
	}
	return "", fmt.Errorf("%q: %w", arg, service.ErrUnknownItem)
}
