package uart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/device"
	"github.com/codewandler/actr-go/core/irq"
	"github.com/codewandler/actr-go/core/signal"
)

const testIRQ = irq.Line(4)

func runDevice(t *testing.T, d *device.Device) context.Context {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- d.Run(t.Context()) }()
	t.Cleanup(func() {
		d.Stop()
		require.NoError(t, <-errc)
	})

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func newLoopbackUart(t *testing.T) (*device.Device, *Loopback, actor.Address[Request, Transfer]) {
	t.Helper()
	d := device.New(device.Config{IRQLines: 8})
	hal := NewLoopback(d.Controller(), testIRQ)
	addr := device.Mount(d, New(hal, Config{IRQ: testIRQ}))
	return d, hal, addr
}

func TestUart_mount(t *testing.T) {
	d, _, addr := newLoopbackUart(t)
	require.Equal(t, "uart", addr.Name())
	require.Equal(t, []string{"uart", "uart-irq"}, d.Executor().Names())
	require.False(t, d.Controller().IsMasked(testIRQ))
}

func TestUart_write_then_read(t *testing.T) {
	d, hal, addr := newLoopbackUart(t)
	ctx := runDevice(t, d)

	res, err := Do(ctx, addr, Write([]byte("hello")))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	require.Equal(t, 5, res.N)
	require.Equal(t, 5, hal.Buffered())

	buf := make([]byte, 16)
	res, err = Do(ctx, addr, Read(buf))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	require.Equal(t, "hello", string(buf[:res.N]))
	require.Equal(t, 0, hal.Buffered())
}

func TestUart_rx_in_progress(t *testing.T) {
	d, _, addr := newLoopbackUart(t)
	ctx := runDevice(t, d)

	buf := make([]byte, 8)
	first, err := addr.Call(ctx, Read(buf))
	require.NoError(t, err)
	require.NoError(t, first.Err())

	second, err := addr.Call(ctx, Read(make([]byte, 8)))
	require.NoError(t, err)
	require.ErrorIs(t, second.Err(), ErrRxInProgress)
	res, err := second.Wait(ctx)
	require.NoError(t, err)
	require.ErrorIs(t, res.Err, ErrRxInProgress)

	// tx is independent of the pending read and completes it
	res, err = Do(ctx, addr, Write([]byte("ok")))
	require.NoError(t, err)
	require.NoError(t, res.Err)

	res, err = first.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", string(buf[:res.N]))

	// back to ready
	res, err = Do(ctx, addr, Write([]byte("again")))
	require.NoError(t, err)
	require.NoError(t, res.Err)
	res, err = Do(ctx, addr, Read(buf))
	require.NoError(t, err)
	require.Equal(t, "again", string(buf[:res.N]))
}

func TestUart_hal_error(t *testing.T) {
	d, _, addr := newLoopbackUart(t)
	ctx := runDevice(t, d)

	res, err := Do(ctx, addr, Write(make([]byte, loopbackCapacity+1)))
	require.NoError(t, err)
	require.ErrorIs(t, res.Err, ErrOverrun)

	// a failed start leaves the direction ready
	res, err = Do(ctx, addr, Write([]byte("x")))
	require.NoError(t, err)
	require.NoError(t, res.Err)
}

// echoer writes each notification to the uart and reads it back.
type echoer struct {
	uart actor.Address[Request, Transfer]
	got  chan string
}

func (e *echoer) OnNotify(msg string) actor.Completion {
	wrote := Await(e.uart.Request(Write([]byte(msg))))
	buf := make([]byte, len(msg))
	var read actor.ResponseContinuation[Result]

	return actor.Defer(func(w signal.Waker) bool {
		if read == nil {
			res, ok := wrote(w)
			if !ok {
				return false
			}
			if res.Err != nil {
				e.got <- "error: " + res.Err.Error()
				return true
			}
			read = Await(e.uart.Request(Read(buf)))
		}
		res, ok := read(w)
		if !ok {
			return false
		}
		e.got <- string(buf[:res.N])
		return true
	})
}

func (e *echoer) OnRequest(string) actor.Response[struct{}] { return actor.Respond(struct{}{}) }

func TestUart_actor_client(t *testing.T) {
	d, _, addr := newLoopbackUart(t)
	app := &echoer{uart: addr, got: make(chan string, 2)}
	appAddr := device.Spawn[string, struct{}](d, "app", app)
	ctx := runDevice(t, d)

	appAddr.Notify("ping")
	appAddr.Notify("pong")

	for _, want := range []string{"ping", "pong"} {
		select {
		case got := <-app.got:
			require.Equal(t, want, got)
		case <-ctx.Done():
			t.Fatal("no echo")
		}
	}
}
