package irq

import (
	"fmt"
	"sync"
)

type vector struct {
	handler Handler
	masked  bool
	pending bool
}

// Controller is a fixed-size interrupt controller. Every line starts masked.
// Handlers of one controller never nest: a pend that arrives while another
// handler runs waits for it to return.
type Controller struct {
	mu      sync.Mutex // guards vectors
	run     sync.Mutex // serializes handler execution
	vectors []vector
}

// NewController creates a controller with the given number of lines.
func NewController(lines int) *Controller {
	if lines <= 0 {
		lines = 64
	}
	v := make([]vector, lines)
	for i := range v {
		v[i].masked = true
	}
	return &Controller{vectors: v}
}

// Lines returns the number of lines.
func (c *Controller) Lines() int { return len(c.vectors) }

// Register binds h to line. Binding an occupied or unknown line is a
// configuration error and panics.
func (c *Controller) Register(line Line, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.vector(line)
	if v.handler != nil {
		panic(fmt.Errorf("%w: line=%d", ErrLineTaken, line))
	}
	v.handler = h
}

// Unmask enables line. A pend latched while the line was masked fires now,
// in the caller's goroutine.
func (c *Controller) Unmask(line Line) {
	c.mu.Lock()
	v := c.vector(line)
	v.masked = false
	fire := v.pending && v.handler != nil
	v.pending = false
	c.mu.Unlock()

	if fire {
		c.dispatch(line)
	}
}

// Mask disables line. Pends are latched until the next Unmask.
func (c *Controller) Mask(line Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vector(line).masked = true
}

// IsMasked reports whether line is disabled.
func (c *Controller) IsMasked(line Line) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vector(line).masked
}

// IsPending reports whether a pend on line is latched.
func (c *Controller) IsPending(line Line) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vector(line).pending
}

// Pend raises line. If the line is enabled and bound, its handler runs
// before Pend returns; otherwise the pend is latched.
func (c *Controller) Pend(line Line) {
	c.mu.Lock()
	v := c.vector(line)
	if v.masked || v.handler == nil {
		v.pending = true
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()
	c.dispatch(line)
}

func (c *Controller) dispatch(line Line) {
	c.mu.Lock()
	h := c.vector(line).handler
	c.mu.Unlock()

	c.run.Lock()
	defer c.run.Unlock()
	h.OnInterrupt()
}

// vector must be called with c.mu held.
func (c *Controller) vector(line Line) *vector {
	if int(line) >= len(c.vectors) {
		panic(fmt.Errorf("%w: line=%d lines=%d", ErrLineOutOfRange, line, len(c.vectors)))
	}
	return &c.vectors[line]
}
