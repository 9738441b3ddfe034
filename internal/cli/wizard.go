package cli

import (
	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// regimenHuhTheme returns a huh theme using the Gruvbox palette.
func regimenHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// wizardSelectSession creates a huh form to pick a session type.
func wizardSelectSession(app *App, result *string) *huh.Form {
	types := app.Catalog.SessionTypes()
	if len(types) == 0 {
		return nil
	}

	options := make([]huh.Option[string], 0, len(types))
	for _, t := range types {
		label := string(t)
		if s, err := app.Catalog.ProtocolSession(t); err == nil && s.Title != "" {
			label = s.Title + "  " + formatter.Dim(string(t))
		}
		options = append(options, huh.NewOption(label, string(t)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which session?").
				Options(options...).
				Value(result),
		),
	).WithTheme(regimenHuhTheme()).WithShowHelp(false)
}

// wizardConfirm creates a yes/no form.
func wizardConfirm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(regimenHuhTheme()).WithShowHelp(false)
}
