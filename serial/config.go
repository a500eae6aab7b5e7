package serial

import "time"

// MaxReadTimeout is the longest timeout VTIME can express (255 tenths).
const MaxReadTimeout = 25500 * time.Millisecond

// Config holds the configuration for a serial port
type Config struct {
	BaudRate    int
	ReadTimeout time.Duration // poll timeout and VTIME, a multiple of 100ms
}

// Option is a functional option for configuring a serial port
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		BaudRate:    115200,
		ReadTimeout: time.Second,
	}
}

// readTimeoutTenths converts the configured timeout to VTIME units
func (c Config) readTimeoutTenths() uint8 {
	return uint8(c.ReadTimeout / (100 * time.Millisecond))
}

// WithBaudRate sets the baud rate
func WithBaudRate(rate int) Option {
	return func(c *Config) error {
		if _, err := getBaudRate(rate); err != nil {
			return err
		}
		c.BaudRate = rate
		return nil
	}
}

// WithReadTimeout sets how long a read waits for the first byte.
// Zero makes reads non-blocking.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *Config) error {
		if err := ValidateReadTimeout(timeout); err != nil {
			return err
		}
		c.ReadTimeout = timeout
		return nil
	}
}

// ValidateReadTimeout reports whether timeout can be expressed as VTIME
func ValidateReadTimeout(timeout time.Duration) error {
	if timeout < 0 || timeout > MaxReadTimeout {
		return ErrInvalidConfig
	}
	if timeout%(100*time.Millisecond) != 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ValidateBaudRate reports whether rate is a supported termios speed
func ValidateBaudRate(rate int) error {
	_, err := getBaudRate(rate)
	return err
}
