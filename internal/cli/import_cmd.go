package cli

import (
	"fmt"
	"sort"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <progress.json>",
		Short: "Merge a legacy JSON progress file into history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Import.ImportProgress(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Imported %d completion set(s) across %d day(s), %d item(s)\n",
				formatter.StyleGreen.Render("✔"), res.Sets, res.Days, res.Keys)

			types := make([]string, 0, len(res.Sessions))
			for t := range res.Sessions {
				types = append(types, t)
			}
			sort.Strings(types)
			for _, t := range types {
				fmt.Fprintf(out, "  %s %s\n", formatter.StylePurple.Render(t), formatter.Dim(fmt.Sprintf("%d item(s)", res.Sessions[t])))
			}
			return nil
		},
	}
}
