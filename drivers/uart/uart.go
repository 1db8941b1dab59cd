// Package uart is an interrupt driven UART driver made of two actors: the
// peripheral, which accepts Read and Write requests, and the interrupt
// actor, which serves the UART line and completes transfers.
//
// A request is answered as soon as the transfer is armed, with a
// [Transfer] that completes from the interrupt handler. Reads and writes
// proceed independently; a second read (or write) while one is in flight
// fails with ErrRxInProgress (or ErrTxInProgress).
package uart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/device"
	"github.com/codewandler/actr-go/core/irq"
	"github.com/codewandler/actr-go/core/signal"
)

var (
	ErrTxInProgress = errors.New("uart: tx in progress")
	ErrRxInProgress = errors.New("uart: rx in progress")
)

type op uint8

const (
	opRead op = iota + 1
	opWrite
)

func (o op) String() string {
	switch o {
	case opRead:
		return "read"
	case opWrite:
		return "write"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Request is a peripheral message. Build it with Read or Write.
type Request struct {
	op  op
	buf []byte
}

// Read fills buf with whatever arrives next. buf must not be touched until
// the transfer completes.
func Read(buf []byte) Request { return Request{op: opRead, buf: buf} }

// Write sends buf.
func Write(buf []byte) Request { return Request{op: opWrite, buf: buf} }

// Result is the outcome of a completed transfer.
type Result struct {
	N   int
	Err error
}

// Transfer is the peripheral's answer to a Request: either a start error or
// a pending completion.
type Transfer struct {
	err  error
	done signal.Receiver[Result]
}

// Err returns the error that kept the transfer from starting.
func (t Transfer) Err() error { return t.err }

// Poll returns the result once the transfer completed, or right away if it
// never started.
func (t Transfer) Poll(w signal.Waker) (Result, bool) {
	if t.err != nil {
		return Result{Err: t.err}, true
	}
	return t.done.Poll(w)
}

// Wait blocks until the transfer completes.
func (t Transfer) Wait(ctx context.Context) (Result, error) {
	if t.err != nil {
		return Result{Err: t.err}, nil
	}
	return t.done.Wait(ctx)
}

// Await chains a request and its transfer for actors: it yields the result
// once the peripheral answered rx and the transfer completed.
//
//	rx := u.Request(uart.Write(buf))
//	return actor.DeferResponse(uart.Await(rx))
func Await(rx signal.Receiver[Transfer]) actor.ResponseContinuation[Result] {
	var (
		t   Transfer
		got bool
	)
	return func(w signal.Waker) (Result, bool) {
		if !got {
			if t, got = rx.Poll(w); !got {
				return Result{}, false
			}
		}
		return t.Poll(w)
	}
}

// Do performs req from a goroutine outside the executor.
func Do(ctx context.Context, addr actor.Address[Request, Transfer], req Request) (Result, error) {
	t, err := addr.Call(ctx, req)
	if err != nil {
		return Result{}, err
	}
	return t.Wait(ctx)
}

type Config struct {
	// Name prefixes the actor names. Defaults to uart.
	Name string
	IRQ  irq.Line
}

// Uart is the mountable driver package.
type Uart struct {
	hal HAL
	cfg Config
}

func New(hal HAL, cfg Config) *Uart {
	if cfg.Name == "" {
		cfg.Name = "uart"
	}
	return &Uart{hal: hal, cfg: cfg}
}

// Mount registers the peripheral and the interrupt actor, unmasks the line
// and binds the interrupt actor to the peripheral, which receives the
// transfer slots before it handles Start.
func (u *Uart) Mount(d *device.Device) actor.Address[Request, Transfer] {
	log := d.Log().With(slog.String("uart", u.cfg.Name))
	attachTx, attachRx := signal.New[*slots]().Split()

	p := &peripheral{hal: u.hal, log: log, attached: attachRx}
	addr := device.Spawn[Request, Transfer](d, u.cfg.Name, p)

	h := &interrupt{hal: u.hal, log: log, slots: &slots{}}
	haddr := device.SpawnInterrupt[struct{}, struct{}](d, u.cfg.Name+"-irq", h, u.cfg.IRQ)
	actor.Bind(haddr, attachTx)

	return addr
}

var _ device.Package[Request, Transfer] = (*Uart)(nil)
