package keys

import "github.com/charmbracelet/bubbles/key"

// MonitorKeys are the bindings of the monitor TUI.
type MonitorKeys struct {
	Quit             key.Binding
	Help             key.Binding
	Clear            key.Binding
	ToggleTimestamps key.Binding
	Up               key.Binding
	Down             key.Binding
	GotoTop          key.Binding
	GotoBottom       key.Binding
}

func NewMonitorKeys() MonitorKeys {
	return MonitorKeys{
		Quit: key.NewBinding(
			key.WithKeys("q", "Q", "ctrl+c"),
			key.WithHelp("q/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear buffer"),
		),
		ToggleTimestamps: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle timestamps"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "goto top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "follow"),
		),
	}
}

func (k MonitorKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleTimestamps, k.Clear, k.Quit}
}

func (k MonitorKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.GotoTop, k.GotoBottom},
		{k.ToggleTimestamps, k.Clear},
		{k.Help, k.Quit},
	}
}
