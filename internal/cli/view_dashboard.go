package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/alexanderramin/regimen/internal/domain"
	"github.com/alexanderramin/regimen/internal/service"
	"github.com/alexanderramin/regimen/internal/tracker"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// ── messages ─────────────────────────────────────────────────────────────────

// tickMsg drives the once-per-interval expiry check.
type tickMsg time.Time

// sessionLoadedMsg carries the view returned by a service call.
type sessionLoadedMsg struct {
	view   *service.SessionView
	err    error
	banner string
}

// ── view ─────────────────────────────────────────────────────────────────────

// dashboardView is the home screen: the open session's checklist, the
// active timer and session progress.
type dashboardView struct {
	state   *SharedState
	session *service.SessionView
	err     error
	cursor  int

	reps    *tracker.RepCounter
	repsKey string

	bar progress.Model
}

func newDashboardView(state *SharedState) *dashboardView {
	bar := progress.New(
		progress.WithSolidFill(string(formatter.ColorGreen)),
		progress.WithoutPercentage(),
	)
	bar.Width = 30
	return &dashboardView{state: state, bar: bar}
}

func (v *dashboardView) ID() ViewID    { return ViewDashboard }
func (v *dashboardView) Title() string { return "Session" }

func (v *dashboardView) ShortHelp() []key.Binding {
	k := dashboardKeys
	return []key.Binding{k.Start, k.Pause, k.Complete, k.Toggle, k.Restart, k.Rep, k.Reset, k.History, k.NextSession, k.Quit}
}

func (v *dashboardView) Init() tea.Cmd {
	return tea.Batch(v.open(), v.scheduleTick())
}

// ── commands ─────────────────────────────────────────────────────────────────

func (v *dashboardView) scheduleTick() tea.Cmd {
	interval := time.Second
	if cfg := v.state.App.Config; cfg != nil && cfg.TickInterval > 0 {
		interval = cfg.TickInterval
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (v *dashboardView) open() tea.Cmd {
	app := v.state.App
	t := v.state.SessionType
	return func() tea.Msg {
		view, err := app.Sessions.Open(context.Background(), t)
		return sessionLoadedMsg{view: view, err: err}
	}
}

func (v *dashboardView) reload() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		view, err := app.Sessions.View()
		return sessionLoadedMsg{view: view, err: err}
	}
}

// call runs one service mutation and reports the result.
func (v *dashboardView) call(op func(context.Context, service.SessionService) (*service.SessionView, error), bannerText string) tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		view, err := op(context.Background(), app.Sessions)
		return sessionLoadedMsg{view: view, err: err, banner: bannerText}
	}
}

func (v *dashboardView) tick() tea.Cmd {
	app := v.state.App
	name := ""
	if v.session != nil && v.session.Active != nil {
		name = v.session.Active.Name
	}
	return func() tea.Msg {
		view, fired, err := app.Sessions.Tick(context.Background())
		msg := sessionLoadedMsg{view: view, err: err}
		if fired {
			msg.banner = completionBanner(name, true)
		}
		return msg
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (v *dashboardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.bar.Width = clamp(msg.Width-30, 10, 60)
		return v, nil

	case tickMsg:
		if v.session == nil {
			return v, v.scheduleTick()
		}
		return v, tea.Batch(v.tick(), v.scheduleTick())

	case sessionLoadedMsg:
		v.apply(msg)
		return v, nil

	case refreshViewMsg:
		if v.session == nil || v.session.SessionType != v.state.SessionType {
			return v, v.open()
		}
		return v, v.reload()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *dashboardView) apply(msg sessionLoadedMsg) {
	if msg.err != nil {
		if !service.IsPersistError(msg.err) || msg.view == nil {
			v.err = msg.err
			v.state.Banner = formatter.StyleRed.Render("✖ " + msg.err.Error())
			return
		}
		v.state.Banner = formatter.StyleYellow.Render("warning: " + msg.err.Error())
	} else if msg.banner != "" {
		v.state.Banner = msg.banner
	}
	v.err = nil
	v.session = msg.view
	v.state.SessionType = msg.view.SessionType

	if v.cursor >= len(v.session.Items) {
		v.cursor = max(len(v.session.Items)-1, 0)
	}

	switch {
	case v.session.Active == nil:
		v.reps, v.repsKey = nil, ""
	case v.session.Active.Key != v.repsKey:
		v.repsKey = v.session.Active.Key
		v.reps, _ = tracker.NewRepCounter(v.session.Active.DurationText)
	}
}

func (v *dashboardView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if v.session == nil {
		return v, nil
	}
	k := dashboardKeys
	items := v.session.Items

	switch {
	case key.Matches(msg, k.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, k.Down):
		if v.cursor < len(items)-1 {
			v.cursor++
		}

	case key.Matches(msg, k.Start):
		if len(items) == 0 {
			return v, nil
		}
		itemKey := items[v.cursor].Key
		return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
			return s.Start(ctx, itemKey)
		}, "")

	case key.Matches(msg, k.Pause):
		switch v.session.Status {
		case domain.TimerRunning:
			return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
				return s.Pause(ctx)
			}, "")
		case domain.TimerPaused:
			return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
				return s.Resume(ctx)
			}, "")
		}

	case key.Matches(msg, k.Restart):
		return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
			return s.Restart(ctx)
		}, "")

	case key.Matches(msg, k.Complete):
		if v.session.Active == nil {
			return v, nil
		}
		text := completionBanner(v.session.Active.Name, false)
		return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
			return s.Complete(ctx)
		}, text)

	case key.Matches(msg, k.Toggle):
		if len(items) == 0 {
			return v, nil
		}
		itemKey := items[v.cursor].Key
		return v, v.call(func(ctx context.Context, s service.SessionService) (*service.SessionView, error) {
			return s.Toggle(ctx, itemKey)
		}, "")

	case key.Matches(msg, k.Rep):
		if v.reps == nil {
			return v, nil
		}
		if v.reps.Increment() {
			v.state.Banner = formatter.StyleGreen.Render("All reps done, press c to complete")
		}

	case key.Matches(msg, k.Reset):
		return v, v.confirmReset()

	case key.Matches(msg, k.History):
		return v, pushView(newHistoryView(v.state))

	case key.Matches(msg, k.NextSession):
		v.state.SessionType = v.state.nextSessionType()
		v.cursor = 0
		return v, v.open()

	case key.Matches(msg, k.PickSession):
		choice := string(v.state.SessionType)
		form := wizardSelectSession(v.state.App, &choice)
		return v, startWizardCmd(v.state, "Pick session", form, func() tea.Cmd {
			v.state.SessionType = domain.SessionType(choice)
			v.cursor = 0
			return nil
		})
	}
	return v, nil
}

// confirmReset asks before clearing the checklist.
func (v *dashboardView) confirmReset() tea.Cmd {
	confirmed := false
	form := wizardConfirm(fmt.Sprintf("Reset %s? Today's checklist will be cleared.", v.state.SessionType), &confirmed)
	return startWizardCmd(v.state, "Reset", form, resetDone(v.state.App, &confirmed))
}

// resetDone returns the wizard callback that resets the session when the
// user confirmed.
func resetDone(app *App, confirmed *bool) func() tea.Cmd {
	return func() tea.Cmd {
		if !*confirmed {
			return banner(formatter.Dim("Reset cancelled."))
		}
		return func() tea.Msg {
			view, err := app.Sessions.Reset(context.Background())
			return sessionLoadedMsg{view: view, err: err, banner: formatter.StyleYellow.Render("Session reset.")}
		}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

func (v *dashboardView) View() string {
	if v.err != nil && v.session == nil {
		return formatter.StyleRed.Render("Error: " + v.err.Error())
	}
	if v.session == nil {
		return formatter.Dim("Loading…")
	}
	s := v.session
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s  %s\n", formatter.StyleHeader.Render(strings.ToUpper(s.Title)), formatter.TimerIndicator(s.Status)))
	b.WriteString(fmt.Sprintf("%s %s", v.bar.ViewAs(s.Progress.Percent()),
		formatter.Dim(fmt.Sprintf("%d/%d complete", s.Progress.Completed, s.Progress.Total))))
	if s.Progress.Started {
		b.WriteString(formatter.Dim("  ·  " + formatter.FormatDuration(s.Progress.Elapsed)))
	}
	b.WriteString("\n\n")

	if s.Active != nil {
		b.WriteString(v.renderActive())
		b.WriteString("\n")
	}

	for i, it := range s.Items {
		cursor := "  "
		if i == v.cursor {
			cursor = formatter.StyleHeader.Render("› ")
		}
		name := it.Name
		switch {
		case it.Completed:
			name = formatter.Dim(name)
		case it.Active:
			name = formatter.StyleYellowBold.Render(name)
		default:
			name = formatter.StyleFg.Render(name)
		}
		b.WriteString(fmt.Sprintf("%s%s %s  %s\n", cursor, formatter.CheckMark(it.Completed, it.Active), name,
			formatter.Dim(it.DurationText)))
	}
	if s.Extra > 0 {
		b.WriteString(formatter.Dim(fmt.Sprintf("  +%d completed item(s) no longer listed", s.Extra)) + "\n")
	}

	if len(s.Notes) > 0 {
		b.WriteString("\n")
		for _, n := range s.Notes {
			b.WriteString(formatter.Dim("• "+n) + "\n")
		}
	}
	return b.String()
}

func (v *dashboardView) renderActive() string {
	s := v.session
	item := s.Active
	var b strings.Builder
	clock := formatter.TimerColor(s.Status).Bold(true).Render(s.TimerDisplay)
	b.WriteString(fmt.Sprintf("%s %s  %s  %s\n",
		formatter.StyleYellowBold.Render("▶"),
		formatter.StyleYellowBold.Render(item.Name),
		clock,
		formatter.RenderCountdown(int(s.Remaining.Seconds()), s.DurationSeconds, 20),
	))
	b.WriteString(formatter.Dim(fmt.Sprintf("  %s  ·  %s", item.DurationText, item.DisplayEquipment())) + "\n")
	if v.reps != nil {
		b.WriteString("  " + formatter.StyleBlue.Render(v.reps.Display()) + "\n")
	}
	for i, step := range item.Steps {
		b.WriteString(fmt.Sprintf("  %s %s\n", formatter.Dim(fmt.Sprintf("%d.", i+1)), step))
	}
	if item.Notes != "" {
		b.WriteString("  " + formatter.Dim(item.Notes) + "\n")
	}
	return b.String()
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
