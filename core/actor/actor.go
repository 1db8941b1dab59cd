package actor

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/codewandler/actr-go/core/irq"
)

const (
	defaultMailboxSize = 16
	// lifecycle events are queued apart from ordinary traffic so they never
	// compete for mailbox capacity.
	lifecycleQueueSize = 4
)

type Options struct {
	// Name identifies the actor in logs and metrics. Defaults to actor-<id>.
	Name string
	// MailboxSize is the fixed mailbox capacity. Defaults to 16.
	MailboxSize int
	Logger      *slog.Logger
	Metrics     ActorMetrics
}

// ActorContext owns one actor, its mailbox and its readiness counter. It is
// created at boot and lives until the device resets.
//
// The actor itself and the current message are touched only by the executor.
// The mailbox and lifecycle queue are shared with producers and guarded by
// irq.Free; the readiness counter is atomic.
type ActorContext[M any, R any] struct {
	name    string
	log     *slog.Logger
	metrics ActorMetrics
	actor   Actor[M, R]

	mailbox *Mailbox[message[M, R]]
	events  *Mailbox[Lifecycle]
	state   atomic.Int32

	exec *Executor
	id   int

	// executor only
	current message[M, R]
	running bool
}

// NewContext wraps a at boot. The context does nothing until Start.
func NewContext[M any, R any](a Actor[M, R], opts Options) *ActorContext[M, R] {
	if opts.Name == "" {
		opts.Name = "actor-" + gonanoid.Must(6)
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = defaultMailboxSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = NopActorMetrics()
	}

	return &ActorContext[M, R]{
		name:    opts.Name,
		log:     opts.Logger.With(slog.String("actor", opts.Name)),
		metrics: opts.Metrics,
		actor:   a,
		mailbox: NewMailbox[message[M, R]](opts.MailboxSize),
		events:  NewMailbox[Lifecycle](lifecycleQueueSize),
		id:      -1,
	}
}

// Start registers the context with e and returns its Address. Actors that
// implement Starter receive the address before Start returns.
func (c *ActorContext[M, R]) Start(e *Executor) Address[M, R] {
	if c.exec != nil {
		panic(fmt.Errorf("%w: actor=%s", ErrAlreadyStarted, c.name))
	}
	c.exec = e
	c.id = e.register(c)

	addr := Address[M, R]{ctx: c, id: c.id}
	if s, ok := c.actor.(Starter[M, R]); ok {
		s.OnStart(addr)
	}
	return addr
}

func (c *ActorContext[M, R]) Name() string { return c.name }

// State returns the current readiness counter.
func (c *ActorContext[M, R]) State() State { return State(c.state.Load()) }

// IsReady reports whether the actor has an outstanding wake.
func (c *ActorContext[M, R]) IsReady() bool { return c.State() >= Ready }

// runnable reports whether a poll would do anything. Traffic queued before
// Start keeps its wake outstanding instead of spending it on an idle poll.
func (c *ActorContext[M, R]) runnable() bool {
	if !c.IsReady() {
		return false
	}
	if c.running || c.current.kind != kindNone {
		return true
	}
	return irq.With(func() bool { return c.events.Len() > 0 })
}

// Wake raises the readiness counter by one and kicks the executor. It is the
// actor's signal.Waker and is safe to call from interrupt context.
func (c *ActorContext[M, R]) Wake() {
	c.state.Add(1)
	if e := c.exec; e != nil {
		e.kick()
	}
}

func (c *ActorContext[M, R]) dispatchLifecycle(event Lifecycle) {
	ok := irq.With(func() bool { return c.events.Push(event) })
	if !ok {
		panic(fmt.Errorf("%w: actor=%s lifecycle=%s", ErrMailboxFull, c.name, event))
	}
	c.Wake()
}

func (c *ActorContext[M, R]) enqueue(m message[M, R]) error {
	depth := irq.With(func() int {
		if !c.mailbox.Push(m) {
			return -1
		}
		return c.mailbox.Len()
	})
	if depth < 0 {
		return fmt.Errorf("%w: actor=%s capacity=%d", ErrMailboxFull, c.name, c.mailbox.Cap())
	}
	c.metrics.MailboxDepth(c.name, depth)
	c.Wake()
	return nil
}

func (c *ActorContext[M, R]) mustEnqueue(m message[M, R]) {
	if err := c.enqueue(m); err != nil {
		panic(err)
	}
}

// poll performs one dispatch step and consumes one wake. A wake spent
// resuming a deferred message may have been the one bought by a message
// queued behind it, so when a message finishes with more work queued and
// this is the last wake, the wake is kept.
func (c *ActorContext[M, R]) poll() {
	if c.dispatch() && c.pending() && c.state.CompareAndSwap(int32(Ready), int32(Ready)) {
		return
	}
	c.state.Add(-1)
}

// dispatch drives the current message, taking the next one if there is none,
// and reports whether a message finished.
func (c *ActorContext[M, R]) dispatch() bool {
	if c.current.kind == kindNone {
		c.current = c.next()
		if c.current.kind == kindNone {
			return false
		}
	}

	kind := c.current.kind
	t := c.metrics.MessageDuration(kind.String())
	done := c.step(&c.current)
	t.ObserveDuration()

	if !done {
		return false
	}

	if kind == kindLifecycle {
		c.log.Debug("lifecycle event handled", slog.String("event", c.current.event.String()))
		if c.current.event == Start {
			c.running = true
		}
	}
	c.current = message[M, R]{}
	c.metrics.MessageProcessed(c.name, kind.String())
	return true
}

// next takes the next lifecycle event or, once Start has been handled, the
// next mailbox message.
func (c *ActorContext[M, R]) next() (m message[M, R]) {
	depth := -1
	irq.Free(func() {
		if ev, ok := c.events.Pop(); ok {
			m = message[M, R]{kind: kindLifecycle, event: ev}
			return
		}
		if c.running {
			var ok bool
			if m, ok = c.mailbox.Pop(); ok {
				depth = c.mailbox.Len()
			}
		}
	})
	if depth >= 0 {
		c.metrics.MailboxDepth(c.name, depth)
	}
	return m
}

// pending reports whether next would find something.
func (c *ActorContext[M, R]) pending() bool {
	return irq.With(func() bool {
		return c.events.Len() > 0 || (c.running && c.mailbox.Len() > 0)
	})
}

// step drives m one poll further and reports whether it is finished.
func (c *ActorContext[M, R]) step(m *message[M, R]) bool {
	switch m.kind {
	case kindLifecycle:
		if lh, ok := c.actor.(LifecycleHandler); ok {
			return lh.OnLifecycle(m.event, c)
		}
		return true

	case kindNotify:
		if !m.deferred {
			comp := c.actor.OnNotify(m.body)
			if comp.cont == nil {
				return true
			}
			var zero M
			m.body = zero
			m.notifyCont = comp.cont
			m.deferred = true
			c.metrics.MessageDeferred(c.name, m.kind.String())
		}
		return m.notifyCont(c)

	case kindRequest:
		if !m.deferred {
			resp := c.actor.OnRequest(m.body)
			if resp.cont == nil {
				m.reply.Send(resp.value)
				return true
			}
			var zero M
			m.body = zero
			m.respondCont = resp.cont
			m.deferred = true
			c.metrics.MessageDeferred(c.name, m.kind.String())
		}
		v, ok := m.respondCont(c)
		if ok {
			m.reply.Send(v)
		}
		return ok

	case kindBind:
		m.bind(c.actor)
		return true
	}

	panic(fmt.Sprintf("actor %s: polled message of unknown kind %d", c.name, m.kind))
}

var _ supervised = (*ActorContext[struct{}, struct{}])(nil)
