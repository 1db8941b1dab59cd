// Package signal provides the single-slot completion cell used to hand one
// result from a producer (an actor answering a request, an interrupt handler
// finishing a transfer) to exactly one waiting consumer.
//
// A consumer polls the cell with a [Waker]. If no value is present the waker
// is recorded and woken by the next Send. Wakers are safe to call from
// interrupt context: they never block and never allocate.
package signal

import (
	"context"

	"github.com/codewandler/actr-go/core/irq"
)

type (
	// Waker re-schedules whoever polled a pending cell. Wake is idempotent
	// from the cell's point of view and must not block.
	Waker interface {
		Wake()
	}

	// WakerFunc adapts a func to Waker.
	WakerFunc func()
)

func (f WakerFunc) Wake() { f() }

// Signal holds at most one unread value and at most one waker.
type Signal[T any] struct {
	value    T
	signaled bool
	waker    Waker
}

// New returns an empty cell.
func New[T any]() *Signal[T] { return &Signal[T]{} }

// Send stores v, overwriting any unread value, and wakes the registered
// waker. Each request must have a single producer.
func (s *Signal[T]) Send(v T) {
	w := irq.With(func() Waker {
		s.value = v
		s.signaled = true
		w := s.waker
		s.waker = nil
		return w
	})
	if w != nil {
		w.Wake()
	}
}

// Poll consumes the value if present. Otherwise it records w and reports
// false.
func (s *Signal[T]) Poll(w Waker) (v T, ok bool) {
	irq.Free(func() {
		if !s.signaled {
			s.waker = w
			return
		}
		v, ok = s.value, true
		var zero T
		s.value = zero
		s.signaled = false
	})
	return v, ok
}

// Signaled reports whether an unread value is present.
func (s *Signal[T]) Signaled() bool {
	return irq.With(func() bool { return s.signaled })
}

// Reset drops any unread value and registered waker so the cell can be
// reused.
func (s *Signal[T]) Reset() {
	irq.Free(func() {
		var zero T
		s.value = zero
		s.signaled = false
		s.waker = nil
	})
}

// Split returns the send-only and receive-only views of s.
func (s *Signal[T]) Split() (Sender[T], Receiver[T]) {
	return Sender[T]{s: s}, Receiver[T]{s: s}
}

// Sender is the producing side of a Signal.
type Sender[T any] struct{ s *Signal[T] }

func (s Sender[T]) Send(v T) { s.s.Send(v) }

// Receiver is the consuming side of a Signal.
type Receiver[T any] struct{ s *Signal[T] }

// Poll is [Signal.Poll].
func (r Receiver[T]) Poll(w Waker) (T, bool) { return r.s.Poll(w) }

// Wait blocks the calling goroutine until a value arrives or ctx is done.
// Giving up does not cancel the producer; a late value stays in the cell.
//
// Wait is for goroutines outside the executor. Actor code must poll from a
// deferred continuation instead.
func (r Receiver[T]) Wait(ctx context.Context) (T, error) {
	ch := make(chan struct{}, 1)
	w := WakerFunc(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})
	for {
		if v, ok := r.s.Poll(w); ok {
			return v, nil
		}
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-ch:
		}
	}
}
