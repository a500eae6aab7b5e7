package monitor

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/fwkit/internal/tui/colors"
)

// ConsoleHandler prints device lines to out, one per line and unstyled, so
// the stream can be piped. Banners and errors go to status.
type ConsoleHandler struct {
	cfg    Config
	out    io.Writer
	status io.Writer

	bannerStyle lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewConsoleHandler styles status output for whatever status is attached to.
func NewConsoleHandler(cfg Config, out, status io.Writer) *ConsoleHandler {
	r := lipgloss.NewRenderer(status)
	return &ConsoleHandler{
		cfg:         cfg,
		out:         out,
		status:      status,
		bannerStyle: r.NewStyle().Bold(true).Foreground(colors.Mauve),
		errorStyle:  r.NewStyle().Bold(true).Foreground(colors.Red),
	}
}

func (h *ConsoleHandler) HandleLine(line string) {
	fmt.Fprintln(h.out, line)
}

func (h *ConsoleHandler) HandleState(state State, err error) {
	switch state {
	case StateOpening:
		fmt.Fprintln(h.status, h.bannerStyle.Render("--- STARTING SERIAL MONITOR ---"))
		fmt.Fprintf(h.status, "Listening on %s at %d for %g seconds...\n",
			h.cfg.Device, h.cfg.BaudRate, h.cfg.Duration.Seconds())
	case StateOpenFailed:
		fmt.Fprintln(h.status, h.errorStyle.Render(
			fmt.Sprintf("ERROR: Could not open serial port %s: %v", h.cfg.Device, err)))
	case StateStopped:
		if err != nil {
			fmt.Fprintln(h.status, h.errorStyle.Render(
				fmt.Sprintf("ERROR: Serial read error: %v", err)))
		}
		fmt.Fprintln(h.status, h.bannerStyle.Render("--- SERIAL MONITOR FINISHED ---"))
	}
}
