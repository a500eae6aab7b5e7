package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/internal/tui/colors"
)

var (
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(colors.Overlay0)

	// NoticeStyle marks lines written by fwkit itself rather than the device.
	NoticeStyle = lipgloss.NewStyle().
			Foreground(colors.Peach).
			Italic(true)

	HelpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(1, 2).
			Margin(1, 0)

	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colors.Mauve)

	stateListeningStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	stateOpeningStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	stateFailedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	stateIdleStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)
)

// StateStyle colours a monitor state for the status bar.
func StateStyle(state monitor.State, err error) lipgloss.Style {
	switch {
	case err != nil, state == monitor.StateOpenFailed:
		return stateFailedStyle
	case state == monitor.StateListening:
		return stateListeningStyle
	case state == monitor.StateOpening:
		return stateOpeningStyle
	default:
		return stateIdleStyle
	}
}

// StateIndicator is the single-glyph form of a monitor state.
func StateIndicator(state monitor.State, err error) string {
	switch {
	case err != nil, state == monitor.StateOpenFailed:
		return "✗"
	case state == monitor.StateListening:
		return "●"
	default:
		return "○"
	}
}
