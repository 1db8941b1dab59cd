package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/codewandler/actr-go/adapters/nats"
	"github.com/codewandler/actr-go/adapters/prometheus"
	"github.com/codewandler/actr-go/core/device"
	"github.com/codewandler/actr-go/core/irq"
	"github.com/codewandler/actr-go/core/sink"
	"github.com/codewandler/actr-go/drivers/uart"
	"github.com/codewandler/actr-go/internal/config"
)

// sim is a booted device with its collaborators.
type sim struct {
	cfg *config.Config
	log *slog.Logger
	reg *promclient.Registry

	dev     *device.Device
	sensor  *sensor
	ticks   func(ctx context.Context) error
	closers []func()
}

// boot mounts the device: UART loopback, reading fan-out with a log
// subscriber, the sensor, and the NATS up- and downlink when configured.
func boot(cfg *config.Config, log *slog.Logger) (*sim, error) {
	reg := promclient.NewRegistry()
	m := prometheus.NewAllMetrics(reg)

	dev := device.New(device.Config{
		ID:              cfg.Device.ID,
		Log:             log,
		MaxActors:       cfg.Device.MaxActors,
		IRQLines:        cfg.Device.IRQLines,
		MailboxSize:     cfg.Device.MailboxSize,
		ActorMetrics:    m.Actor,
		ExecutorMetrics: m.Executor,
	})
	s := &sim{cfg: cfg, log: dev.Log(), reg: reg, dev: dev}

	line := irq.Line(cfg.UART.IRQ)
	u := device.Mount(dev, uart.New(uart.NewLoopback(dev.Controller(), line), uart.Config{IRQ: line}))

	readings := device.Mount(dev, sink.Package[Reading]{
		Name:        "readings",
		Subscribers: m.SinkSubscribers("readings"),
	})
	logAddr := device.Spawn[Reading, struct{}](dev, "reading-log", &readingLog{log: s.log})
	readings.Notify(sink.Subscribe[Reading](logAddr))

	var connect nats.Connector
	if cfg.NATSEnabled() {
		connect = nats.ReuseConnection(nats.ConnectURL(cfg.NATS.URL))
		up, err := nats.NewUplink[Reading](nats.UplinkConfig{
			Connect: connect,
			Log:     s.log,
			Subject: cfg.NATS.Subject,

			Published:    m.Link.Published,
			Failed:       m.Link.Failed,
			PayloadBytes: m.Link.PayloadBytes,
		})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, up.Close)
		readings.Notify(sink.Subscribe[Reading](device.Mount(dev, up)))
	}

	s.sensor = newSensor(dev.ID(), s.log, u, sink.Of(readings))
	sensorAddr := device.Spawn[Command, Reading](dev, "sensor", s.sensor)

	if cfg.NATSEnabled() {
		dl, err := nats.Subscribe(nats.DownlinkConfig{
			Connect: connect,
			Log:     s.log,
			Subject: cfg.NATS.CommandSubject,
			Dropped: m.Link.Dropped,
		}, sensorAddr)
		if err != nil {
			s.close()
			return nil, err
		}
		s.closers = append(s.closers, func() { _ = dl.Close() })
	}

	s.ticks = func(ctx context.Context) error {
		t := time.NewTicker(cfg.Sensor.Interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if err := sensorAddr.TryNotify(Command{Op: OpTick}); err != nil {
					s.log.Warn("tick dropped", slog.Any("error", err))
				}
			}
		}
	}
	return s, nil
}

func (s *sim) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// run serves the device, the tick source and /metrics until ctx is done.
func (s *sim) run(ctx context.Context) error {
	defer s.close()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.dev.Run(ctx) })
	g.Go(func() error { return s.ticks(ctx) })

	if addr := s.cfg.Metrics.Addr; addr != "" {
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		s.log.Info("serving metrics", slog.String("addr", ln.Addr().String()))

		g.Go(func() error {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}
