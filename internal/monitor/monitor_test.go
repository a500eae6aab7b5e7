package monitor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// scriptedSource plays back lines, then either fails with err or times out
// forever. Every call advances the clock the way a real port would.
type scriptedSource struct {
	clock   *fakeClock
	timeout time.Duration
	lines   []string
	err     error
	reads   int
	closed  bool
}

func (s *scriptedSource) ReadLine() ([]byte, error) {
	s.reads++
	if len(s.lines) > 0 {
		line := s.lines[0]
		s.lines = s.lines[1:]
		s.clock.Advance(10 * time.Millisecond)
		return []byte(line), nil
	}
	if s.err != nil {
		return nil, s.err
	}
	s.clock.Advance(s.timeout)
	return nil, nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

type transition struct {
	state State
	err   error
}

type recordingHandler struct {
	lines       []string
	transitions []transition
}

func (h *recordingHandler) HandleLine(line string) {
	h.lines = append(h.lines, line)
}

func (h *recordingHandler) HandleState(state State, err error) {
	h.transitions = append(h.transitions, transition{state, err})
}

func (h *recordingHandler) states() []State {
	states := make([]State, len(h.transitions))
	for i, tr := range h.transitions {
		states[i] = tr.state
	}
	return states
}

func newScripted(cfg Config, lines ...string) (*fakeClock, *scriptedSource) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return clock, &scriptedSource{clock: clock, timeout: cfg.ReadTimeout, lines: lines}
}

func openerFor(src LineSource) Opener {
	return func(Config) (LineSource, error) { return src, nil }
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.Equal(t, "/dev/ttyACM0", cfg.Device)
	require.Equal(t, 115200, cfg.BaudRate)
	require.Equal(t, time.Second, cfg.ReadTimeout)
	require.Equal(t, 60*time.Second, cfg.Duration)
	require.False(t, cfg.Reset)
}

func TestRunPrintsLinesUntilDurationElapses(t *testing.T) {
	cfg := DefaultConfig()
	clock, src := newScripted(cfg, "I (31) boot: ESP-IDF v5.1\r\n", "wifi connected\r\n", "ip=192.168.1.40\n")
	handler := &recordingHandler{}

	summary, err := New(cfg, openerFor(src), handler, WithClock(clock.Now)).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"I (31) boot: ESP-IDF v5.1", "wifi connected", "ip=192.168.1.40"}, handler.lines)
	require.Equal(t, 3, summary.Lines)
	require.Equal(t, StopElapsed, summary.Reason)
	require.NoError(t, summary.Err)
	require.GreaterOrEqual(t, summary.Elapsed, cfg.Duration)
	require.True(t, src.closed)
	require.Equal(t, []State{StateOpening, StateListening, StateStopped}, handler.states())
}

func TestRunStopsOnReadError(t *testing.T) {
	cfg := DefaultConfig()
	clock, src := newScripted(cfg, "one\n", "two\n")
	readErr := errors.New("device reports readiness to read but returned no data")
	src.err = readErr
	handler := &recordingHandler{}

	m := New(cfg, openerFor(src), handler, WithClock(clock.Now))
	summary, err := m.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"one", "two"}, handler.lines)
	require.Equal(t, StopReadError, summary.Reason)
	require.ErrorIs(t, summary.Err, readErr)
	require.Less(t, summary.Elapsed, cfg.Duration)
	require.Equal(t, 3, src.reads)
	require.Equal(t, StateStopped, m.State())

	last := handler.transitions[len(handler.transitions)-1]
	require.Equal(t, StateStopped, last.state)
	require.ErrorIs(t, last.err, readErr)
}

func TestRunOpenFailure(t *testing.T) {
	cfg := DefaultConfig()
	cause := errors.New("serial device not found")
	handler := &recordingHandler{}
	opener := func(Config) (LineSource, error) { return nil, cause }

	m := New(cfg, opener, handler)
	_, err := m.Run(context.Background())

	require.ErrorIs(t, err, ErrOpen)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "/dev/ttyACM0")
	require.Empty(t, handler.lines)
	require.Equal(t, []State{StateOpening, StateOpenFailed}, handler.states())
	require.Equal(t, StateOpenFailed, m.State())
}

func TestRunSkipsBlankAndDecodesLines(t *testing.T) {
	cfg := DefaultConfig()
	clock, src := newScripted(cfg,
		"   \r\n",
		"temp=\xff21.5C\r\n",
		"\n",
		"\t caf\xc3\xa9 \t\n",
	)
	handler := &recordingHandler{}

	summary, err := New(cfg, openerFor(src), handler, WithClock(clock.Now)).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"temp=21.5C", "café"}, handler.lines)
	require.Equal(t, 2, summary.Lines)
}

func TestRunCancelled(t *testing.T) {
	cfg := DefaultConfig()
	clock, src := newScripted(cfg, "never read\n")
	handler := &recordingHandler{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(cfg, openerFor(src), handler, WithClock(clock.Now)).Run(ctx)
	require.NoError(t, err)
	require.Equal(t, StopCancelled, summary.Reason)
	require.Empty(t, handler.lines)
	require.True(t, src.closed)
}

func TestRunOnlyOnce(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Duration = 0
	clock, src := newScripted(cfg)

	m := New(cfg, openerFor(src), &recordingHandler{}, WithClock(clock.Now))
	_, err := m.Run(context.Background())
	require.NoError(t, err)

	_, err = m.Run(context.Background())
	require.Error(t, err)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		raw  []byte
		want string
	}{
		{[]byte("hello\r\n"), "hello"},
		{[]byte("  spaced  "), "spaced"},
		{[]byte{0xfe, 'o', 'k', 0xff}, "ok"},
		{[]byte("\x1cok\x1f\r\n"), "ok"},
		{[]byte("\x1e\x1d\r\n"), ""},
		{[]byte("a\x1fb"), "a\x1fb"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := Decode(tt.raw); got != tt.want {
			t.Errorf("Decode(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "listening", StateListening.String())
	require.Equal(t, "open failed", StateOpenFailed.String())
	require.Equal(t, "read error", StopReadError.String())
}

func TestConsoleHandlerOutput(t *testing.T) {
	cfg := DefaultConfig()
	clock, src := newScripted(cfg, "alpha\n", "beta\n")
	src.err = errors.New("input/output error")

	var out, status bytes.Buffer
	handler := NewConsoleHandler(cfg, &out, &status)

	_, err := New(cfg, openerFor(src), handler, WithClock(clock.Now)).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, "alpha\nbeta\n", out.String())

	lines := strings.Split(strings.TrimSpace(status.String()), "\n")
	require.Equal(t, []string{
		"--- STARTING SERIAL MONITOR ---",
		"Listening on /dev/ttyACM0 at 115200 for 60 seconds...",
		"ERROR: Serial read error: input/output error",
		"--- SERIAL MONITOR FINISHED ---",
	}, lines)
}

func TestConsoleHandlerOpenFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Device = "/dev/ttyUSB9"

	var out, status bytes.Buffer
	handler := NewConsoleHandler(cfg, &out, &status)
	opener := func(Config) (LineSource, error) { return nil, errors.New("serial device not found") }

	_, err := New(cfg, opener, handler).Run(context.Background())
	require.ErrorIs(t, err, ErrOpen)

	require.Empty(t, out.String())
	require.Contains(t, status.String(), "ERROR: Could not open serial port /dev/ttyUSB9: serial device not found")
	require.NotContains(t, status.String(), "FINISHED")
}
