// Package monitor reads lines from a serial device for a bounded duration.
//
// A session walks Idle -> Opening -> Listening -> Stopped, or ends in
// OpenFailed when the device cannot be opened. Reads block for at most the
// configured read timeout, so the wall-clock bound is checked between lines.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/allbin/fwkit/internal/logging"
)

const (
	DefaultDevice      = "/dev/ttyACM0"
	DefaultBaudRate    = 115200
	DefaultReadTimeout = time.Second
	DefaultDuration    = 60 * time.Second
)

// ErrOpen wraps every failure to open the serial source.
var ErrOpen = errors.New("could not open serial port")

// Config describes one monitor session.
type Config struct {
	Device      string        `mapstructure:"device"`
	BaudRate    int           `mapstructure:"baud"`
	ReadTimeout time.Duration `mapstructure:"timeout"`
	Duration    time.Duration `mapstructure:"duration"`
	Reset       bool          `mapstructure:"reset"`
}

// DefaultConfig listens on the first CDC/ACM port for a minute.
func DefaultConfig() Config {
	return Config{
		Device:      DefaultDevice,
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
		Duration:    DefaultDuration,
	}
}

// State is the position of a session in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateOpenFailed
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateOpenFailed:
		return "open failed"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StopReason says why a session left the Listening state.
type StopReason int

const (
	StopNone StopReason = iota
	StopElapsed
	StopReadError
	StopCancelled
)

func (r StopReason) String() string {
	switch r {
	case StopElapsed:
		return "duration elapsed"
	case StopReadError:
		return "read error"
	case StopCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// LineSource yields raw lines. ReadLine blocks for at most the read timeout
// and returns an empty slice when nothing arrived.
type LineSource interface {
	ReadLine() ([]byte, error)
	Close() error
}

// Opener opens the source described by cfg.
type Opener func(cfg Config) (LineSource, error)

// Handler receives decoded lines and state transitions. Both are called
// from the goroutine running Monitor.Run.
type Handler interface {
	HandleLine(line string)
	HandleState(state State, err error)
}

// Summary reports how a session ended.
type Summary struct {
	Lines   int
	Reason  StopReason
	Err     error
	Elapsed time.Duration
}

// Monitor runs one session. It is not reusable.
type Monitor struct {
	cfg     Config
	open    Opener
	handler Handler
	now     func() time.Time
	state   State
}

// Option customises a Monitor.
type Option func(*Monitor)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// New creates a Monitor in the Idle state.
func New(cfg Config, open Opener, handler Handler, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:     cfg,
		open:    open,
		handler: handler,
		now:     time.Now,
		state:   StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Monitor) State() State {
	return m.state
}

func (m *Monitor) setState(state State, err error) {
	logging.Debugf("monitor %s: %s -> %s", m.cfg.Device, m.state, state)
	m.state = state
	m.handler.HandleState(state, err)
}

// Run opens the source and hands every non-empty line to the handler until
// the duration elapses, a read fails or ctx is cancelled. Only an open
// failure is returned as an error; a read error ends the session normally
// and is reported in the Summary.
func (m *Monitor) Run(ctx context.Context) (Summary, error) {
	if m.state != StateIdle {
		return Summary{}, fmt.Errorf("monitor already %s", m.state)
	}

	m.setState(StateOpening, nil)
	src, err := m.open(m.cfg)
	if err != nil {
		m.setState(StateOpenFailed, err)
		return Summary{}, fmt.Errorf("%w %s: %w", ErrOpen, m.cfg.Device, err)
	}
	defer src.Close()

	m.setState(StateListening, nil)

	var summary Summary
	start := m.now()
	for m.now().Sub(start) < m.cfg.Duration {
		if ctx.Err() != nil {
			summary.Reason = StopCancelled
			break
		}

		raw, err := src.ReadLine()
		if err != nil {
			summary.Reason = StopReadError
			summary.Err = err
			break
		}

		line := Decode(raw)
		if line == "" {
			continue
		}
		summary.Lines++
		m.handler.HandleLine(line)
	}
	if summary.Reason == StopNone {
		summary.Reason = StopElapsed
	}
	summary.Elapsed = m.now().Sub(start)

	logging.Debugf("monitor %s: %d lines, stopped after %s (%s)", m.cfg.Device, summary.Lines, summary.Elapsed, summary.Reason)
	m.setState(StateStopped, summary.Err)
	return summary, nil
}

// Decode turns raw serial bytes into a printable line. Invalid UTF-8 is
// dropped and surrounding whitespace, including the line ending and the
// \x1c-\x1f separators, stripped.
func Decode(raw []byte) string {
	return strings.TrimFunc(strings.ToValidUTF8(string(raw), ""), isBlank)
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
