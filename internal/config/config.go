// Package config loads the board configuration of a simulated device from
// YAML or TOML, with ACTR_* environment overrides.
package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Device  DeviceConfig  `yaml:"device" toml:"device"`
	UART    UARTConfig    `yaml:"uart" toml:"uart"`
	Sensor  SensorConfig  `yaml:"sensor" toml:"sensor"`
	Log     LogConfig     `yaml:"log" toml:"log"`
	Metrics MetricsConfig `yaml:"metrics" toml:"metrics"`
	NATS    NATSConfig    `yaml:"nats" toml:"nats"`
}

type DeviceConfig struct {
	ID          string `yaml:"id" toml:"id"`
	MaxActors   int    `yaml:"max_actors" toml:"max_actors"`
	MailboxSize int    `yaml:"mailbox_size" toml:"mailbox_size"`
	IRQLines    int    `yaml:"irq_lines" toml:"irq_lines"`
}

type UARTConfig struct {
	IRQ int `yaml:"irq" toml:"irq"`
}

type SensorConfig struct {
	Interval time.Duration `yaml:"interval" toml:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // text or json
}

type MetricsConfig struct {
	// Addr serves /metrics when set, e.g. ":9100".
	Addr string `yaml:"addr" toml:"addr"`
}

type NATSConfig struct {
	// URL enables the uplink and downlink when set.
	URL            string `yaml:"url" toml:"url"`
	Subject        string `yaml:"subject" toml:"subject"`
	CommandSubject string `yaml:"command_subject" toml:"command_subject"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			MaxActors:   16,
			MailboxSize: 16,
			IRQLines:    64,
		},
		UART:   UARTConfig{IRQ: 4},
		Sensor: SensorConfig{Interval: time.Second},
		Log:    LogConfig{Level: "info", Format: "text"},
		NATS: NATSConfig{
			Subject:        "actr.readings",
			CommandSubject: "actr.commands",
		},
	}
}

// NATSEnabled reports whether an uplink is configured.
func (c *Config) NATSEnabled() bool { return c.NATS.URL != "" }

func (c *Config) Validate() error {
	if c.Device.MaxActors <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxActors, c.Device.MaxActors)
	}
	if c.Device.MailboxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMailboxSize, c.Device.MailboxSize)
	}
	if c.UART.IRQ < 0 || c.UART.IRQ >= c.Device.IRQLines {
		return fmt.Errorf("%w: %d of %d lines", ErrInvalidIRQ, c.UART.IRQ, c.Device.IRQLines)
	}
	if c.Sensor.Interval <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInterval, c.Sensor.Interval)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if c.NATSEnabled() && (c.NATS.Subject == "" || c.NATS.CommandSubject == "") {
		return ErrMissingSubject
	}
	return nil
}
