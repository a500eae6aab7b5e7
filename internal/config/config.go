// Package config loads fwkit settings from defaults, an optional YAML file,
// FWKIT_* environment variables and command-line flags, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/allbin/fwkit/internal/monitor"
	"github.com/allbin/fwkit/internal/patcher"
	"github.com/allbin/fwkit/serial"
)

const (
	// EnvPrefix is prepended to every environment override, e.g. FWKIT_MONITOR_DEVICE.
	EnvPrefix = "FWKIT"

	// FileName is the config file looked up in $HOME and the working directory.
	FileName = ".fwkit"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full set of settings.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Monitor  monitor.Config `mapstructure:"monitor"`
	Patch    Patch          `mapstructure:"patch"`
}

// Patch configures the patch command.
type Patch struct {
	File string `mapstructure:"file"`
}

// New returns a viper instance with defaults and environment lookup set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// SetDefaults registers the default of every key.
func SetDefaults(v *viper.Viper) {
	m := monitor.DefaultConfig()

	v.SetDefault("log_level", "info")
	v.SetDefault("monitor.device", m.Device)
	v.SetDefault("monitor.baud", m.BaudRate)
	v.SetDefault("monitor.timeout", m.ReadTimeout)
	v.SetDefault("monitor.duration", m.Duration)
	v.SetDefault("monitor.reset", m.Reset)
	v.SetDefault("monitor.tui", false)
	v.SetDefault("patch.file", patcher.DefaultFile)
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late, at open time.
func (c Config) Validate() error {
	m := c.Monitor
	switch {
	case m.Device == "":
		return fmt.Errorf("%w: monitor.device is empty", ErrInvalid)
	case serial.ValidateBaudRate(m.BaudRate) != nil:
		return fmt.Errorf("%w: monitor.baud %d is not a supported rate", ErrInvalid, m.BaudRate)
	case serial.ValidateReadTimeout(m.ReadTimeout) != nil:
		return fmt.Errorf("%w: monitor.timeout %s must be a multiple of 100ms up to %s",
			ErrInvalid, m.ReadTimeout, serial.MaxReadTimeout)
	case m.Duration <= 0:
		return fmt.Errorf("%w: monitor.duration must be positive", ErrInvalid)
	case c.Patch.File == "":
		return fmt.Errorf("%w: patch.file is empty", ErrInvalid)
	}
	return nil
}
