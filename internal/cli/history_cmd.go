package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed items per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := app.History.History(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(history, app.clock().Now()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, "number of days to include, today included")
	return cmd
}

func newStatsCmd(app *App) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily completion totals and streaks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := app.History.Stats(cmd.Context(), days)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStats(stats))
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "number of days to include, today included")
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	var days int
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export completion history as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			var w io.Writer = cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, ferr := os.Create(out)
				if ferr != nil {
					return fmt.Errorf("creating %s: %w", out, ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}()
				w = f
			}
			rows, err := app.History.ExportCSV(cmd.Context(), w, days)
			if err != nil {
				return err
			}
			if out != "" && out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", rows, out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 30, "number of days to include, today included")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
