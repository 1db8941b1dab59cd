// Package irq models the interrupt side of a single-core device: a global
// interrupt mask used for short critical sections, and a small interrupt
// controller whose lines are bound to handlers and raised ("pended") by
// hardware, or by whatever goroutine simulates it.
//
// Base-level code and interrupt handlers share data only inside [Free] or
// through atomics. Handlers run to completion and never block.
package irq

import (
	"errors"
	"sync"
)

var (
	ErrLineOutOfRange = errors.New("irq line out of range")
	ErrLineTaken      = errors.New("irq line already bound")
)

// mask is the process wide interrupt mask. Holding it is the equivalent of
// running with interrupts disabled.
var mask sync.Mutex

// Free runs f with interrupts masked. f must be short and must not call
// Free again.
func Free(f func()) {
	mask.Lock()
	defer mask.Unlock()
	f()
}

// With is Free for critical sections that produce a value.
func With[R any](f func() R) R {
	mask.Lock()
	defer mask.Unlock()
	return f()
}

type (
	// Line identifies an interrupt vector.
	Line uint16

	// Handler is invoked directly by the vector. It must be bounded in time:
	// read status, clear the condition, signal completions, return.
	Handler interface {
		OnInterrupt()
	}

	// HandlerFunc adapts a func to Handler.
	HandlerFunc func()
)

func (f HandlerFunc) OnInterrupt() { f() }
