package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "ACTR_"

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path loads the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: %s: unknown keys %v", ErrConfigParse, path, undecoded)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return nil
}

// applyEnv overrides cfg from ACTR_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DEVICE_ID":            &cfg.Device.ID,
		"LOG_LEVEL":            &cfg.Log.Level,
		"LOG_FORMAT":           &cfg.Log.Format,
		"METRICS_ADDR":         &cfg.Metrics.Addr,
		"NATS_URL":             &cfg.NATS.URL,
		"NATS_SUBJECT":         &cfg.NATS.Subject,
		"NATS_COMMAND_SUBJECT": &cfg.NATS.CommandSubject,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"DEVICE_MAX_ACTORS":   &cfg.Device.MaxActors,
		"DEVICE_MAILBOX_SIZE": &cfg.Device.MailboxSize,
		"DEVICE_IRQ_LINES":    &cfg.Device.IRQLines,
		"UART_IRQ":            &cfg.UART.IRQ,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrEnvironmentVar, EnvPrefix, key, err)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "SENSOR_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %sSENSOR_INTERVAL: %v", ErrEnvironmentVar, EnvPrefix, err)
		}
		cfg.Sensor.Interval = d
	}
	return nil
}
