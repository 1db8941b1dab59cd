package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.NATSEnabled())
}

func TestLoad_yaml(t *testing.T) {
	path := writeFile(t, "board.yaml", `
device:
  id: bench-1
  mailbox_size: 8
uart:
  irq: 7
sensor:
  interval: 250ms
log:
  level: debug
  format: json
nats:
  url: nats://localhost:4222
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bench-1", cfg.Device.ID)
	assert.Equal(t, 8, cfg.Device.MailboxSize)
	assert.Equal(t, 16, cfg.Device.MaxActors, "unset fields keep their defaults")
	assert.Equal(t, 7, cfg.UART.IRQ)
	assert.Equal(t, 250*time.Millisecond, cfg.Sensor.Interval)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.NATSEnabled())
	assert.Equal(t, "actr.readings", cfg.NATS.Subject)
}

func TestLoad_toml(t *testing.T) {
	path := writeFile(t, "board.toml", `
[device]
id = "bench-2"
irq_lines = 8

[uart]
irq = 3

[sensor]
interval = "2s"

[metrics]
addr = ":9100"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bench-2", cfg.Device.ID)
	assert.Equal(t, 8, cfg.Device.IRQLines)
	assert.Equal(t, 3, cfg.UART.IRQ)
	assert.Equal(t, 2*time.Second, cfg.Sensor.Interval)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)
}

func TestLoad_errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, ErrConfigFileNotFound)

	_, err = Load(writeFile(t, "board.json", `{}`))
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(writeFile(t, "board.yaml", "device: [1, 2"))
	require.ErrorIs(t, err, ErrConfigParse)

	_, err = Load(writeFile(t, "board.yaml", "device:\n  colour: red\n"))
	require.ErrorIs(t, err, ErrConfigParse)

	_, err = Load(writeFile(t, "board.toml", "[device]\ncolour = \"red\"\n"))
	require.ErrorIs(t, err, ErrConfigParse)

	_, err = Load(writeFile(t, "board.yaml", "uart:\n  irq: 99\n"))
	require.ErrorIs(t, err, ErrInvalidIRQ)
}

func TestLoad_env_overrides(t *testing.T) {
	path := writeFile(t, "board.yaml", "device:\n  id: from-file\n")
	t.Setenv("ACTR_DEVICE_ID", "from-env")
	t.Setenv("ACTR_DEVICE_MAILBOX_SIZE", "4")
	t.Setenv("ACTR_SENSOR_INTERVAL", "100ms")
	t.Setenv("ACTR_NATS_URL", "nats://nats:4222")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Device.ID)
	assert.Equal(t, 4, cfg.Device.MailboxSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Sensor.Interval)
	assert.Equal(t, "nats://nats:4222", cfg.NATS.URL)
}

func TestLoad_env_errors(t *testing.T) {
	t.Setenv("ACTR_UART_IRQ", "four")
	_, err := Load("")
	require.ErrorIs(t, err, ErrEnvironmentVar)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"max actors", func(c *Config) { c.Device.MaxActors = 0 }, ErrInvalidMaxActors},
		{"mailbox", func(c *Config) { c.Device.MailboxSize = -1 }, ErrInvalidMailboxSize},
		{"irq", func(c *Config) { c.UART.IRQ = -1 }, ErrInvalidIRQ},
		{"interval", func(c *Config) { c.Sensor.Interval = 0 }, ErrInvalidInterval},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, ErrInvalidLogLevel},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidLogFormat},
		{"subject", func(c *Config) {
			c.NATS.URL = "nats://localhost:4222"
			c.NATS.Subject = ""
		}, ErrMissingSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}
