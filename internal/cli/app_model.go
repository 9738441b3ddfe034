package cli

import (
	"strings"

	"github.com/alexanderramin/regimen/internal/cli/formatter"
	"github.com/alexanderramin/regimen/internal/notify"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// appModel is the root bubbletea Model for the TUI.
// It manages a view stack, the completion banner and the help bar.
type appModel struct {
	state     *SharedState
	viewStack []View
	help      help.Model
	quitting  bool
}

// notificationMsg carries a completion delivered through App.Notifications.
type notificationMsg struct {
	n notify.Notification
}

func newAppModel(app *App) appModel {
	state := &SharedState{App: app}
	if app.Sessions != nil {
		state.SessionType = app.Sessions.Current()
	}
	if state.SessionType == "" {
		if types := app.Catalog.SessionTypes(); len(types) > 0 {
			state.SessionType = types[0]
		}
	}

	h := help.New()
	h.Styles.ShortKey = formatter.StyleFg
	h.Styles.ShortDesc = formatter.StyleDim
	h.Styles.ShortSeparator = formatter.StyleDim

	m := appModel{state: state, help: h}
	m.viewStack = []View{newDashboardView(state)}
	return m
}

// activeView returns the top view on the stack, or nil.
func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

// setActiveView replaces the top of the view stack.
func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// waitForNotification blocks on the notifier channel and re-arms itself
// from Update after each delivery.
func waitForNotification(ch <-chan notify.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg{n: n}
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if v := m.activeView(); v != nil {
		cmds = append(cmds, v.Init())
	}
	cmds = append(cmds, waitForNotification(m.state.App.Notifications))
	return tea.Batch(cmds...)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.help.Width = msg.Width
		return m, m.broadcast(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case refreshViewMsg:
		return m, m.broadcast(msg)

	case bannerMsg:
		m.state.Banner = msg.text
		return m, nil

	case notificationMsg:
		m.state.Banner = completionBanner(msg.n.Name, msg.n.Expired)
		return m, tea.Batch(waitForNotification(m.state.App.Notifications), refreshViews)

	case wizardCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, refreshViews)
	}

	// Ticks and data loads belong to the dashboard even when a view is
	// stacked on top of it, so the timer keeps running behind the history.
	switch msg.(type) {
	case tickMsg, sessionLoadedMsg:
		return m, m.updateView(0, msg)
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m *appModel) updateView(i int, msg tea.Msg) tea.Cmd {
	if i >= len(m.viewStack) {
		return nil
	}
	updated, cmd := m.viewStack[i].Update(msg)
	m.viewStack[i] = updated.(View)
	return cmd
}

// broadcast delivers msg to every view in the stack.
func (m *appModel) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range m.viewStack {
		if cmd := m.updateView(i, msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	m.state.Banner = ""

	// Forms receive every key so 'q' and esc reach huh.
	if v := m.activeView(); v != nil && v.ID() == ViewForm {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil
	}

	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	if m.state.Banner != "" {
		sections = append(sections, m.state.Banner)
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Render("regimen")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	header := title
	if len(crumbs) > 0 {
		header += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}
	if m.state.SessionType != "" {
		header += "  " + formatter.Dim("[") + formatter.StyleGreen.Render(string(m.state.SessionType)) + formatter.Dim("]")
	}
	header += "  " + formatter.Dim(m.state.App.today())

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderStatusBar() string {
	var bar string
	if v := m.activeView(); v != nil {
		bindings := v.ShortHelp()
		if len(m.viewStack) > 1 && v.ID() != ViewForm {
			bindings = append(bindings, escBinding)
		}
		bar = m.help.ShortHelpView(bindings)
	}
	sepStyle := lipgloss.NewStyle().Foreground(formatter.ColorDim)
	sep := sepStyle.Render(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + bar
}

func completionBanner(name string, expired bool) string {
	if expired {
		return formatter.StyleGreen.Render("✔ " + name + " complete (timer finished)")
	}
	return formatter.StyleGreen.Render("✔ " + name + " complete")
}
