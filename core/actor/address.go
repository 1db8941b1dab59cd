package actor

import (
	"context"

	"github.com/codewandler/actr-go/core/signal"
)

// Address is a copyable, non-owning handle to an ActorContext. It only grants
// the right to enqueue. All methods are safe from any goroutine, interrupt
// handlers included.
type Address[M any, R any] struct {
	ctx *ActorContext[M, R]
	id  int
}

// ID is the actor's index in the executor's registration table.
func (a Address[M, R]) ID() int { return a.id }

func (a Address[M, R]) Name() string { return a.ctx.name }

// IsZero reports whether a was never obtained from Start.
func (a Address[M, R]) IsZero() bool { return a.ctx == nil }

// Notify enqueues a fire-and-forget message. A full mailbox panics.
func (a Address[M, R]) Notify(msg M) {
	a.ctx.mustEnqueue(message[M, R]{kind: kindNotify, body: msg})
}

// TryNotify is Notify for producers that prefer to drop on overflow. It
// returns ErrMailboxFull instead of panicking.
func (a Address[M, R]) TryNotify(msg M) error {
	return a.ctx.enqueue(message[M, R]{kind: kindNotify, body: msg})
}

// Request enqueues msg with a private completion cell and returns its
// receiving side. Actor code polls it from a deferred continuation (see
// Forward and Then); other goroutines use Receiver.Wait. A full mailbox
// panics.
func (a Address[M, R]) Request(msg M) signal.Receiver[R] {
	tx := signal.New[R]()
	a.ctx.mustEnqueue(message[M, R]{kind: kindRequest, body: msg, reply: tx})
	_, rx := tx.Split()
	return rx
}

// Call is Request followed by Wait. It must not be used from the executor
// goroutine, which would never get to process the request.
func (a Address[M, R]) Call(ctx context.Context, msg M) (R, error) {
	return a.Request(msg).Wait(ctx)
}
