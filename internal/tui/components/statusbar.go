package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/internal/tui/colors"
	"github.com/allbin/fwkit/internal/tui/styles"
)

// StatusBar is the single bottom line of the monitor TUI.
type StatusBar struct {
	device   string
	baudRate int
	duration time.Duration
	state    monitor.State
	err      error
	lines    int
	started  time.Time
	width    int
}

func NewStatusBar(cfg monitor.Config) *StatusBar {
	return &StatusBar{
		device:   cfg.Device,
		baudRate: cfg.BaudRate,
		duration: cfg.Duration,
		state:    monitor.StateIdle,
	}
}

// SetState records a transition. Entering Listening starts the countdown.
func (sb *StatusBar) SetState(state monitor.State, err error, at time.Time) {
	sb.state = state
	sb.err = err
	if state == monitor.StateListening {
		sb.started = at
	}
}

func (sb *StatusBar) State() monitor.State {
	return sb.state
}

func (sb *StatusBar) SetLines(n int) {
	sb.lines = n
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// Remaining is the time left of the session at now. It is the full duration
// before listening starts and zero once the session has stopped.
func (sb *StatusBar) Remaining(now time.Time) time.Duration {
	switch sb.state {
	case monitor.StateIdle, monitor.StateOpening:
		return sb.duration
	case monitor.StateListening:
		left := sb.duration - now.Sub(sb.started)
		if left < 0 {
			return 0
		}
		return left
	default:
		return 0
	}
}

func (sb *StatusBar) View(now time.Time) string {
	width := sb.width
	if width <= 0 {
		width = 80
	}

	stateStyle := styles.StateStyle(sb.state, sb.err)
	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1).
		Render("MONITOR")
	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.device)
	indicator := stateStyle.Render(styles.StateIndicator(sb.state, sb.err))

	status := sb.state.String()
	if sb.err != nil {
		status = fmt.Sprintf("%s: %v", status, sb.err)
	}
	statusText := stateStyle.Padding(0, 1).Render(status)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %d baud │ %d lines", sb.baudRate, sb.lines))
	remaining := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(fmt.Sprintf("%s left", sb.Remaining(now).Round(time.Second)))

	left := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, indicator, statusText, divider)
	right := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, remaining)

	spacerWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(width).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, left, spacer, right))
}
