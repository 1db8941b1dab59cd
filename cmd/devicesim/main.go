// Command devicesim boots a simulated device: a sensor sampling on a timer,
// a loopback UART carrying every sample, a fan-out of readings to the log
// and, when configured, to NATS.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/codewandler/actr-go/internal/config"
	"github.com/codewandler/actr-go/internal/logging"
)

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "devicesim",
		Usage: "Run a simulated actr device",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML or TOML board config",
			},
			&cli.StringFlag{
				Name:  "device-id",
				Usage: "Device ID (overrides config)",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "Sensor sampling interval (overrides config)",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve /metrics on this address (overrides config)",
			},
			&cli.StringFlag{
				Name:    "nats-url",
				Usage:   "Publish readings to this NATS server (overrides config)",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: runDevice,
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("device-id") {
		cfg.Device.ID = cmd.String("device-id")
	}
	if cmd.IsSet("interval") {
		cfg.Sensor.Interval = cmd.Duration("interval")
	}
	if cmd.IsSet("metrics-addr") {
		cfg.Metrics.Addr = cmd.String("metrics-addr")
	}
	if cmd.IsSet("nats-url") {
		cfg.NATS.URL = cmd.String("nats-url")
	}
	if cmd.Bool("debug") {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func runDevice(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(log)

	s, err := boot(cfg, log)
	if err != nil {
		return err
	}
	return s.run(ctx)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		slog.Error("fatal", slog.Any("error", err))
		os.Exit(1)
	}
}
