package monitor

import (
	"fmt"

	"github.com/allbin/fwkit/internal/logging"
	"github.com/allbin/fwkit/serial"
)

// portSource reads lines from a real serial port.
type portSource struct {
	serial.Port
	lines *serial.LineReader
}

func (s *portSource) ReadLine() ([]byte, error) {
	return s.lines.ReadLine()
}

// OpenPort is the Opener for physical devices. With cfg.Reset the board is
// rebooted through RTS/DTR after stale input is discarded, so the session
// starts at the boot log.
func OpenPort(cfg Config) (LineSource, error) {
	port, err := serial.Open(cfg.Device,
		serial.WithBaudRate(cfg.BaudRate),
		serial.WithReadTimeout(cfg.ReadTimeout),
	)
	if err != nil {
		return nil, err
	}

	if cfg.Reset {
		if err := port.FlushInput(); err != nil {
			logging.Warnf("failed to flush %s before reset: %v", cfg.Device, err)
		}
		if err := serial.HardReset(port, serial.DefaultResetHold); err != nil {
			port.Close()
			return nil, fmt.Errorf("reset failed: %w", err)
		}
		logging.Debugf("reset %s via RTS/DTR", cfg.Device)
	}

	return &portSource{
		Port:  port,
		lines: serial.NewLineReader(port),
	}, nil
}
