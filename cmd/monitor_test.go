package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/serial"
)

func TestRunMonitorOpenFailure(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.Device = "/dev/ttyACM9"

	open := func(monitor.Config) (monitor.LineSource, error) {
		return nil, serial.ErrDeviceNotFound
	}

	var stdout, stderr bytes.Buffer
	code := runMonitor(context.Background(), cfg, open, &stdout, &stderr)

	require.Equal(t, 1, code)
	require.Zero(t, stdout.Len())
	require.Contains(t, stderr.String(), "ERROR: Could not open serial port /dev/ttyACM9")
	require.NotContains(t, stderr.String(), "Error: ")
}

// eofSource hands out its lines, then fails every read
type eofSource struct {
	lines []string
}

func (s *eofSource) ReadLine() ([]byte, error) {
	if len(s.lines) == 0 {
		return nil, errors.New("device disconnected")
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return []byte(line), nil
}

func (s *eofSource) Close() error { return nil }

func TestRunMonitorPrintsLines(t *testing.T) {
	cfg := monitor.DefaultConfig()
	cfg.Duration = time.Minute

	open := func(monitor.Config) (monitor.LineSource, error) {
		return &eofSource{lines: []string{"boot\r\n", "\r\n", "ready\r\n"}}, nil
	}

	var stdout, stderr bytes.Buffer
	code := runMonitor(context.Background(), cfg, open, &stdout, &stderr)

	require.Equal(t, 0, code)
	require.Equal(t, "boot\nready\n", stdout.String())
	require.Contains(t, stderr.String(), "ERROR: Serial read error: device disconnected")
	require.Contains(t, stderr.String(), "--- SERIAL MONITOR FINISHED ---")
}
