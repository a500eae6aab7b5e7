package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultScrollback is the number of lines kept before the oldest are dropped.
const DefaultScrollback = 5000

// Terminal is a scrolling view of received lines. It follows the newest
// line until the user scrolls up, and resumes following at the bottom.
type Terminal struct {
	viewport   viewport.Model
	formatter  *LineFormatter
	lines      []Line
	scrollback int
	follow     bool
}

func NewTerminal(width, height int) *Terminal {
	return &Terminal{
		viewport:   viewport.New(width, height),
		formatter:  NewLineFormatter(true),
		scrollback: DefaultScrollback,
		follow:     true,
	}
}

func (t *Terminal) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

func (t *Terminal) SetScrollback(n int) {
	t.scrollback = n
}

func (t *Terminal) Append(l Line) {
	t.lines = append(t.lines, l)
	if t.scrollback > 0 && len(t.lines) > t.scrollback {
		t.lines = t.lines[len(t.lines)-t.scrollback:]
	}
	t.refresh()
}

func (t *Terminal) Lines() []Line {
	return t.lines
}

func (t *Terminal) Clear() {
	t.lines = nil
	t.follow = true
	t.viewport.SetContent("")
}

func (t *Terminal) ToggleTimestamps() {
	t.formatter.ToggleTimestamps()
	t.refresh()
}

func (t *Terminal) Following() bool {
	return t.follow
}

func (t *Terminal) ScrollUp(n int) {
	t.viewport.LineUp(n)
	t.follow = t.viewport.AtBottom()
}

func (t *Terminal) ScrollDown(n int) {
	t.viewport.LineDown(n)
	t.follow = t.viewport.AtBottom()
}

func (t *Terminal) GotoTop() {
	t.viewport.GotoTop()
	t.follow = t.viewport.AtBottom()
}

func (t *Terminal) GotoBottom() {
	t.viewport.GotoBottom()
	t.follow = true
}

func (t *Terminal) refresh() {
	t.viewport.SetContent(strings.Join(t.formatter.FormatAll(t.lines), "\n"))
	if t.follow {
		t.viewport.GotoBottom()
	}
}

// Update only forwards resize messages so key bindings stay with the model.
func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Terminal) View() string {
	return t.viewport.View()
}
