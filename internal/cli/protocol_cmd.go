package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/alexanderramin/regimen/internal/protocol"
	"github.com/spf13/cobra"
)

func newProtocolCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "protocol",
		Aliases: []string{"protocols"},
		Short:   "Inspect the loaded protocols",
	}

	cmd.AddCommand(
		newProtocolListCmd(app),
		newProtocolShowCmd(app),
		newProtocolValidateCmd(),
	)

	return cmd
}

func newProtocolListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List protocols and their sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProtocolList(app.Catalog.List()))
			return nil
		},
	}
}

func newProtocolShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <protocol>",
		Short: "Show a protocol's sessions, items and parsed timer lengths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Catalog.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProtocol(p, app.Config.DefaultDurationSeconds))
			return nil
		},
	}
}

func newProtocolValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a protocol YAML file before adding it to the protocol directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			p, err := protocol.Parse(data)
			if err != nil {
				out := cmd.ErrOrStderr()
				if verrs := protocol.ValidationErrors(err); len(verrs) > 0 {
					for _, v := range verrs {
						fmt.Fprintln(out, formatter.StyleRed.Render("✖ ")+v.Error())
					}
					return fmt.Errorf("%s: %d validation error(s)", args[0], len(verrs))
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s v%s: %d session(s) OK\n",
				formatter.StyleGreen.Render("✔"), p.Name, p.Version, len(p.Sessions))
			return nil
		},
	}
}
