package actor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
)

const defaultMaxActors = 16

// supervised is the executor's view of an ActorContext, independent of its
// message types.
type supervised interface {
	Name() string
	IsReady() bool
	runnable() bool
	poll()
	dispatchLifecycle(event Lifecycle)
}

type ExecutorOptions struct {
	// MaxActors is the registration table capacity. Defaults to 16.
	MaxActors int
	Logger    *slog.Logger
	Metrics   ExecutorMetrics
}

// Executor is the cooperative scheduler. It owns the registration table, not
// the actors, and must be driven from a single goroutine.
type Executor struct {
	log     *slog.Logger
	metrics ExecutorMetrics

	actors  []supervised
	wake    chan struct{}
	running atomic.Bool
}

func NewExecutor(opts ExecutorOptions) *Executor {
	if opts.MaxActors <= 0 {
		opts.MaxActors = defaultMaxActors
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopExecutorMetrics()
	}
	return &Executor{
		log:     opts.Logger.With(slog.String("component", "executor")),
		metrics: opts.Metrics,
		actors:  make([]supervised, 0, opts.MaxActors),
		wake:    make(chan struct{}, 1),
	}
}

// register appends a to the table and returns its index. The table is fixed
// once Run starts. Registration happens on the boot goroutine before Run; the
// running check catches misuse but does not synchronize with a concurrent Run.
func (e *Executor) register(a supervised) int {
	if e.running.Load() {
		panic(fmt.Errorf("%w: cannot register %s", ErrExecutorRunning, a.Name()))
	}
	if len(e.actors) == cap(e.actors) {
		panic(fmt.Errorf("%w: capacity=%d actor=%s", ErrTooManyActors, cap(e.actors), a.Name()))
	}
	e.actors = append(e.actors, a)
	e.metrics.ActorsRegistered(len(e.actors))
	e.log.Debug("actor registered", slog.String("actor", a.Name()), slog.Int("index", len(e.actors)-1))
	return len(e.actors) - 1
}

// Len returns the number of registered actors.
func (e *Executor) Len() int { return len(e.actors) }

// Names returns the registered actor names in registration order.
func (e *Executor) Names() []string {
	names := make([]string, len(e.actors))
	for i, a := range e.actors {
		names[i] = a.Name()
	}
	return names
}

// kick unparks Run. Never blocks.
func (e *Executor) kick() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// DispatchLifecycle queues event on every registered actor.
func (e *Executor) DispatchLifecycle(event Lifecycle) {
	e.log.Debug("dispatching lifecycle event", slog.String("event", event.String()))
	for _, a := range e.actors {
		a.dispatchLifecycle(event)
	}
}

// RunUntilQuiescence sweeps the table in registration order, polling every
// ready actor once per sweep, until a sweep polls nobody. An actor whose only
// work is traffic held before Start is skipped. It returns the number of
// polls performed.
func (e *Executor) RunUntilQuiescence() int {
	polls := 0
	for again := true; again; {
		again = false
		t := e.metrics.SweepDuration()
		for _, a := range e.actors {
			if !a.runnable() {
				continue
			}
			a.poll()
			e.metrics.ActorPolled(a.Name())
			polls++
			again = true
		}
		t.ObserveDuration()
	}
	e.metrics.QuiescenceReached(polls)
	return polls
}

// Run delivers Initialize and Start, then serves forever: it runs to
// quiescence and parks until some producer or interrupt wakes an actor.
// It returns when ctx is done.
func (e *Executor) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrExecutorRunning
	}

	e.log.Info("executor starting", slog.Int("actors", len(e.actors)))

	e.DispatchLifecycle(Initialize)
	e.RunUntilQuiescence()
	e.DispatchLifecycle(Start)

	for {
		e.RunUntilQuiescence()
		select {
		case <-ctx.Done():
			e.log.Info("executor stopped")
			return nil
		case <-e.wake:
		}
	}
}
