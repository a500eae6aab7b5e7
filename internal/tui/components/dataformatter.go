package components

import (
	"time"

	"github.com/allbin/fwkit/internal/tui/styles"
)

const timestampLayout = "15:04:05.000"

// Line is one decoded line shown in the terminal.
type Line struct {
	Time time.Time
	Text string
	// Notice lines are written by fwkit, not received from the device.
	Notice bool
}

type LineFormatter struct {
	showTimestamps bool
}

func NewLineFormatter(showTimestamps bool) *LineFormatter {
	return &LineFormatter{showTimestamps: showTimestamps}
}

func (f *LineFormatter) ShowTimestamps() bool {
	return f.showTimestamps
}

func (f *LineFormatter) ToggleTimestamps() bool {
	f.showTimestamps = !f.showTimestamps
	return f.showTimestamps
}

func (f *LineFormatter) Format(l Line) string {
	text := l.Text
	if l.Notice {
		text = styles.NoticeStyle.Render(text)
	}
	if !f.showTimestamps {
		return text
	}
	return styles.TimestampStyle.Render(l.Time.Format(timestampLayout)) + " " + text
}

func (f *LineFormatter) FormatAll(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = f.Format(l)
	}
	return out
}
