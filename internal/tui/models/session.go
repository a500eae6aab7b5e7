package models

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/internal/tui/components"
	"github.com/allbin/fwkit/internal/tui/keys"
	"github.com/allbin/fwkit/internal/tui/styles"
)

// LineMsg carries one decoded device line.
type LineMsg struct {
	Time time.Time
	Text string
}

// StateMsg carries a monitor state transition.
type StateMsg struct {
	Time  time.Time
	State monitor.State
	Err   error
}

// DoneMsg is sent once Monitor.Run has returned.
type DoneMsg struct {
	Summary monitor.Summary
	Err     error
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// ProgramHandler forwards monitor events to a bubbletea program.
type ProgramHandler struct {
	send func(tea.Msg)
	now  func() time.Time
}

func NewProgramHandler(send func(tea.Msg)) *ProgramHandler {
	return &ProgramHandler{send: send, now: time.Now}
}

func (h *ProgramHandler) HandleLine(line string) {
	h.send(LineMsg{Time: h.now(), Text: line})
}

func (h *ProgramHandler) HandleState(state monitor.State, err error) {
	h.send(StateMsg{Time: h.now(), State: state, Err: err})
}

// Session is the monitor TUI. The view stays up after the session stops so
// the output can be scrolled; quitting early cancels the session.
type Session struct {
	cfg       monitor.Config
	terminal  *components.Terminal
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.MonitorKeys
	cancel    context.CancelFunc
	now       func() time.Time

	ready bool
	lines int
	done  bool
}

func NewSession(cfg monitor.Config, cancel context.CancelFunc) *Session {
	return &Session{
		cfg:       cfg,
		terminal:  components.NewTerminal(80, 20),
		statusBar: components.NewStatusBar(cfg),
		help:      help.New(),
		keys:      keys.NewMonitorKeys(),
		cancel:    cancel,
		now:       time.Now,
	}
}

func (s *Session) Terminal() *components.Terminal {
	return s.terminal
}

func (s *Session) StatusBar() *components.StatusBar {
	return s.statusBar
}

func (s *Session) Done() bool {
	return s.done
}

func (s *Session) notice(at time.Time, format string, args ...any) {
	s.terminal.Append(components.Line{Time: at, Text: fmt.Sprintf(format, args...), Notice: true})
}

func (s *Session) Init() tea.Cmd {
	return tick()
}

func (s *Session) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// One line for the status bar, one for the content border.
		s.terminal.SetSize(msg.Width, max(msg.Height-2, 1))
		s.statusBar.SetWidth(msg.Width)
		s.ready = true
		return s, s.terminal.Update(msg)

	case LineMsg:
		s.lines++
		s.terminal.Append(components.Line{Time: msg.Time, Text: msg.Text})
		s.statusBar.SetLines(s.lines)

	case StateMsg:
		s.statusBar.SetState(msg.State, msg.Err, msg.Time)
		switch msg.State {
		case monitor.StateOpening:
			s.notice(msg.Time, "Listening on %s at %d for %g seconds...",
				s.cfg.Device, s.cfg.BaudRate, s.cfg.Duration.Seconds())
		case monitor.StateOpenFailed:
			s.notice(msg.Time, "Could not open serial port %s: %v", s.cfg.Device, msg.Err)
		case monitor.StateStopped:
			if msg.Err != nil {
				s.notice(msg.Time, "Serial read error: %v", msg.Err)
			}
		}

	case DoneMsg:
		s.done = true
		if msg.Err == nil {
			s.notice(s.now(), "Session finished: %s, %d lines. Press q to quit.",
				msg.Summary.Reason, msg.Summary.Lines)
		}

	case tickMsg:
		if s.done {
			return s, nil
		}
		return s, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Quit):
			if s.cancel != nil {
				s.cancel()
			}
			return s, tea.Quit
		case key.Matches(msg, s.keys.Help):
			s.help.ShowAll = !s.help.ShowAll
		case key.Matches(msg, s.keys.Clear):
			s.terminal.Clear()
		case key.Matches(msg, s.keys.ToggleTimestamps):
			s.terminal.ToggleTimestamps()
		case key.Matches(msg, s.keys.Up):
			s.terminal.ScrollUp(1)
		case key.Matches(msg, s.keys.Down):
			s.terminal.ScrollDown(1)
		case key.Matches(msg, s.keys.GotoTop):
			s.terminal.GotoTop()
		case key.Matches(msg, s.keys.GotoBottom):
			s.terminal.GotoBottom()
		}
	}

	return s, nil
}

func (s *Session) View() string {
	content := "Initializing..."
	if s.ready {
		content = s.terminal.View()
	}

	parts := []string{styles.ContentBorderStyle.Render(content)}
	if s.help.ShowAll {
		parts = append(parts, styles.HelpBoxStyle.Render(s.help.View(s.keys)))
	}
	parts = append(parts, s.statusBar.View(s.now()))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run drives a monitor session inside a full-screen program. The returned
// error is the monitor's, so an open failure still wraps monitor.ErrOpen
// after the user has seen it and quit.
func Run(ctx context.Context, cfg monitor.Config, open monitor.Opener, opts ...tea.ProgramOption) (monitor.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	session := NewSession(cfg, cancel)
	p := tea.NewProgram(session, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)

	var (
		summary monitor.Summary
		runErr  error
	)

	g := new(errgroup.Group)
	g.Go(func() error {
		m := monitor.New(cfg, open, NewProgramHandler(p.Send))
		summary, runErr = m.Run(ctx)
		p.Send(DoneMsg{Summary: summary, Err: runErr})
		return nil
	})

	_, progErr := p.Run()
	cancel()
	_ = g.Wait()

	if runErr != nil {
		return summary, runErr
	}
	if progErr != nil {
		return summary, fmt.Errorf("monitor ui: %w", progErr)
	}
	return summary, nil
}
