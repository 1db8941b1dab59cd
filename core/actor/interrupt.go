package actor

import (
	"log/slog"

	"github.com/codewandler/actr-go/core/irq"
)

// InterruptActor is an actor that also serves a hardware interrupt.
// OnInterrupt runs outside the executor and may only touch state that is
// safe to share: signals, atomics, or data guarded by irq.Free.
type InterruptActor[M any, R any] interface {
	Actor[M, R]
	irq.Handler
}

// InterruptContext is an ActorContext bound to an interrupt line.
type InterruptContext[M any, R any] struct {
	*ActorContext[M, R]
	line    irq.Line
	handler irq.Handler
}

func NewInterruptContext[M any, R any](a InterruptActor[M, R], line irq.Line, opts Options) *InterruptContext[M, R] {
	return &InterruptContext[M, R]{
		ActorContext: NewContext[M, R](a, opts),
		line:         line,
		handler:      a,
	}
}

// Line returns the bound interrupt line.
func (c *InterruptContext[M, R]) Line() irq.Line { return c.line }

// Start registers the actor with e, binds its handler to the line on ctrl and
// unmasks the line.
func (c *InterruptContext[M, R]) Start(e *Executor, ctrl *irq.Controller) Address[M, R] {
	addr := c.ActorContext.Start(e)
	ctrl.Register(c.line, c.handler)
	c.log.Debug("unmask", slog.Int("irq", int(c.line)))
	ctrl.Unmask(c.line)
	return addr
}
