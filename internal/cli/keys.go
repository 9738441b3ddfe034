package cli

import "github.com/charmbracelet/bubbles/key"

type dashboardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Start       key.Binding
	Pause       key.Binding
	Restart     key.Binding
	Complete    key.Binding
	Toggle      key.Binding
	Reset       key.Binding
	Rep         key.Binding
	History     key.Binding
	NextSession key.Binding
	PickSession key.Binding
	Quit        key.Binding
}

var dashboardKeys = dashboardKeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Start:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
	Pause:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause/resume")),
	Restart:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
	Complete:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Reset:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "reset")),
	Rep:         key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "rep")),
	History:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "history")),
	NextSession: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next session")),
	PickSession: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "pick session")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

var escBinding = key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back"))

var historyKeys = struct {
	Range key.Binding
}{
	Range: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "7/30 days")),
}
