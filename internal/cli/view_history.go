package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type historyLoadedMsg struct {
	history []domain.HistoryDay
	stats   *domain.CompletionStats
	logs    []*domain.SessionLog
	err     error
}

// historyView shows recent completions, the stats series and finished
// sessions for the open session type in a scrollable pane.
type historyView struct {
	state   *SharedState
	days    int
	loaded  *historyLoadedMsg
	vp      viewport.Model
	loading bool
}

func newHistoryView(state *SharedState) *historyView {
	vp := viewport.New(max(state.Width, 20), state.ContentHeight())
	return &historyView{state: state, days: 7, vp: vp, loading: true}
}

func (v *historyView) ID() ViewID    { return ViewHistory }
func (v *historyView) Title() string { return "History" }

func (v *historyView) ShortHelp() []key.Binding {
	return []key.Binding{
		historyKeys.Range,
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *historyView) Init() tea.Cmd {
	return v.load()
}

func (v *historyView) load() tea.Cmd {
	app := v.state.App
	days := v.days
	t := v.state.SessionType
	return func() tea.Msg {
		ctx := context.Background()
		history, err := app.History.History(ctx, days)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		stats, err := app.History.Stats(ctx, days)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		logs, err := app.History.RecentSessions(ctx, t, 5)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{history: history, stats: stats, logs: logs}
	}
}

func (v *historyView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		v.loading = false
		v.loaded = &msg
		v.vp.SetContent(v.render())
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case tea.WindowSizeMsg:
		v.vp.Width = msg.Width
		v.vp.Height = v.state.ContentHeight()
		return v, nil

	case tea.KeyMsg:
		if key.Matches(msg, historyKeys.Range) {
			if v.days == 7 {
				v.days = 30
			} else {
				v.days = 7
			}
			v.loading = true
			return v, v.load()
		}
		var cmd tea.Cmd
		v.vp, cmd = v.vp.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *historyView) render() string {
	if v.loaded == nil {
		return ""
	}
	if v.loaded.err != nil {
		return formatter.StyleRed.Render("Error: " + v.loaded.err.Error())
	}
	now := v.state.App.clock().Now()
	var b strings.Builder
	b.WriteString(formatter.Header("Last " + pluralize(v.days, "day")))
	b.WriteString("\n")
	b.WriteString(formatter.FormatHistory(v.loaded.history, now))
	b.WriteString("\n")
	b.WriteString(formatter.FormatStats(v.loaded.stats))
	b.WriteString("\n\n")
	b.WriteString(formatter.Header("Finished " + string(v.state.SessionType) + " sessions"))
	b.WriteString("\n")
	b.WriteString(formatter.FormatSessionLogs(v.loaded.logs, now))
	return b.String()
}

func (v *historyView) View() string {
	if v.loading && v.loaded == nil {
		return formatter.Dim("Loading…")
	}
	if v.state.Height == 0 {
		return v.render()
	}
	return v.vp.View()
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
