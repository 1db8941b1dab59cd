package device

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/irq"
)

type Config struct {
	// ID names the device in logs. Defaults to device-<id>.
	ID  string
	Log *slog.Logger

	// MaxActors bounds the executor's actor table. Defaults to 16.
	MaxActors int
	// IRQLines is the number of interrupt lines. Defaults to 64.
	IRQLines int
	// MailboxSize is the mailbox capacity for actors spawned without an
	// explicit one. Defaults to 16.
	MailboxSize int

	ActorMetrics    actor.ActorMetrics
	ExecutorMetrics actor.ExecutorMetrics
}

type Device struct {
	id   string
	log  *slog.Logger
	exec *actor.Executor
	ctrl *irq.Controller

	mailboxSize  int
	actorMetrics actor.ActorMetrics

	ctx      context.Context
	cancel   context.CancelFunc
	started  atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

// Package is a mountable unit, typically a driver made of one or more
// actors. Mount registers the actors and returns the public address.
type Package[M any, R any] interface {
	Mount(d *Device) actor.Address[M, R]
}

func New(cfg Config) *Device {
	if cfg.ID == "" {
		cfg.ID = fmt.Sprintf("device-%s", gonanoid.Must(6))
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.ActorMetrics == nil {
		cfg.ActorMetrics = actor.NopActorMetrics()
	}
	if cfg.ExecutorMetrics == nil {
		cfg.ExecutorMetrics = actor.NopExecutorMetrics()
	}

	log := cfg.Log.With(slog.String("device", cfg.ID))
	ctx, cancel := context.WithCancel(context.Background())

	return &Device{
		id:  cfg.ID,
		log: log,
		exec: actor.NewExecutor(actor.ExecutorOptions{
			MaxActors: cfg.MaxActors,
			Logger:    log,
			Metrics:   cfg.ExecutorMetrics,
		}),
		ctrl:         irq.NewController(cfg.IRQLines),
		mailboxSize:  cfg.MailboxSize,
		actorMetrics: cfg.ActorMetrics,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
}

func (d *Device) ID() string                  { return d.id }
func (d *Device) Log() *slog.Logger           { return d.log }
func (d *Device) Executor() *actor.Executor   { return d.exec }
func (d *Device) Controller() *irq.Controller { return d.ctrl }

// Options returns the actor options the device applies to an actor called
// name: its logger, metrics and default mailbox size.
func (d *Device) Options(name string) actor.Options {
	return actor.Options{
		Name:        name,
		MailboxSize: d.mailboxSize,
		Logger:      d.log,
		Metrics:     d.actorMetrics,
	}
}

// Run boots the executor and serves until ctx is done or Stop is called.
// A device runs once.
func (d *Device) Run(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return fmt.Errorf("device %s: %w", d.id, actor.ErrExecutorRunning)
	}
	defer close(d.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(d.ctx, cancel)
	defer stop()

	d.log.Info("device running", slog.Any("actors", d.exec.Names()))
	if err := d.exec.Run(ctx); err != nil {
		return fmt.Errorf("device %s: %w", d.id, err)
	}
	d.log.Info("device stopped")
	return nil
}

// Stop makes Run return. It is idempotent.
func (d *Device) Stop() {
	d.stopOnce.Do(d.cancel)
}

// Done is closed once Run has returned.
func (d *Device) Done() <-chan struct{} { return d.done }

// Mount mounts p on d.
func Mount[M any, R any](d *Device, p Package[M, R]) actor.Address[M, R] {
	addr := p.Mount(d)
	d.log.Debug("package mounted", slog.String("address", addr.Name()), slog.String("package", fmt.Sprintf("%T", p)))
	return addr
}

// Spawn registers a plain actor under name.
func Spawn[M any, R any](d *Device, name string, a actor.Actor[M, R]) actor.Address[M, R] {
	return actor.NewContext(a, d.Options(name)).Start(d.exec)
}

// SpawnInterrupt registers an interrupt actor under name and binds it to line.
func SpawnInterrupt[M any, R any](d *Device, name string, a actor.InterruptActor[M, R], line irq.Line) actor.Address[M, R] {
	return actor.NewInterruptContext(a, line, d.Options(name)).Start(d.exec, d.ctrl)
}
