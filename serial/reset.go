package serial

import (
	"fmt"
	"time"
)

// DefaultResetHold is how long HardReset keeps the chip in reset.
const DefaultResetHold = 100 * time.Millisecond

// ModemControl is the subset of Port needed to drive the reset lines
type ModemControl interface {
	SetRTS(state bool) error
	SetDTR(state bool) error
}

// HardReset reboots a board whose USB-UART bridge wires RTS to EN and DTR to
// the boot strap pin. DTR stays deasserted so the chip boots the application
// rather than the ROM download mode.
func HardReset(port ModemControl, hold time.Duration) error {
	if err := port.SetDTR(false); err != nil {
		return fmt.Errorf("failed to release DTR: %w", err)
	}
	if err := port.SetRTS(true); err != nil {
		return fmt.Errorf("failed to assert RTS: %w", err)
	}
	time.Sleep(hold)
	if err := port.SetRTS(false); err != nil {
		return fmt.Errorf("failed to release RTS: %w", err)
	}
	return nil
}
