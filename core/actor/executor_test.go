package actor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecutor_readiness_conservation(t *testing.T) {
	e, rec, addr := newRecorder(t, 4)
	boot(e)

	require.Equal(t, 0, e.RunUntilQuiescence(), "no wakes, no polls")

	for i := 0; i < 3; i++ {
		addr.ctx.Wake()
	}
	require.Equal(t, Ready+2, addr.ctx.State())
	require.Equal(t, "ready(+2)", addr.ctx.State().String())

	require.Equal(t, 3, e.RunUntilQuiescence())
	require.Equal(t, Waiting, addr.ctx.State())
	require.Empty(t, rec.seen)
}

func TestExecutor_readiness_conservation_held_traffic(t *testing.T) {
	e, rec, addr := newRecorder(t, 4)

	addr.Notify("a")
	e.DispatchLifecycle(Initialize)
	polls := e.RunUntilQuiescence()
	e.DispatchLifecycle(Start)
	polls += e.RunUntilQuiescence()

	// one Notify and two lifecycle events
	require.LessOrEqual(t, polls, 3)
	require.Equal(t, 3, polls)
	require.Equal(t, Waiting, addr.ctx.State())
	require.Equal(t, []string{"a"}, rec.seen)
}

func TestExecutor_sweeps_in_registration_order(t *testing.T) {
	e := NewExecutor(ExecutorOptions{})

	var order []string
	mk := func(name string) Address[string, string] {
		rec := &recorder{hook: func(msg string) { order = append(order, name+":"+msg) }}
		return NewContext[string, string](rec, Options{Name: name}).Start(e)
	}
	a, b, c := mk("a"), mk("b"), mk("c")
	boot(e)
	require.Equal(t, []string{"a", "b", "c"}, e.Names())
	require.Equal(t, 3, e.Len())

	c.Notify("1")
	a.Notify("1")
	b.Notify("1")
	a.Notify("2")

	require.Equal(t, 4, e.RunUntilQuiescence())
	require.Equal(t, []string{"a:1", "b:1", "c:1", "a:2"}, order)
}

func TestExecutor_too_many_actors(t *testing.T) {
	e := NewExecutor(ExecutorOptions{MaxActors: 1})
	NewContext[string, string](&recorder{}, Options{}).Start(e)

	requirePanicsIs(t, ErrTooManyActors, func() {
		NewContext[string, string](&recorder{}, Options{}).Start(e)
	})
	require.Equal(t, 1, e.Len())
}

func TestExecutor_run(t *testing.T) {
	e, rec, addr := newRecorder(t, 8)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	callCtx, callCancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer callCancel()

	v, err := addr.Call(callCtx, "ping")
	require.NoError(t, err)
	require.Equal(t, "PING", v)

	// the table is frozen and a second Run is refused
	require.ErrorIs(t, e.Run(ctx), ErrExecutorRunning)
	requirePanicsIs(t, ErrExecutorRunning, func() {
		NewContext[string, string](&recorder{}, Options{}).Start(e)
	})

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("executor did not stop")
	}

	require.Equal(t, []Lifecycle{Initialize, Start}, rec.events)
	require.Equal(t, []string{"ping"}, rec.seen)
}

func TestExecutor_run_serves_notifications(t *testing.T) {
	e, rec, addr := newRecorder(t, 8)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	callCtx, callCancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer callCancel()

	for _, m := range []string{"a", "b", "c"} {
		addr.Notify(m)
	}
	// the request is answered behind the notifications
	v, err := addr.Call(callCtx, "d")
	require.NoError(t, err)
	require.Equal(t, "D", v)

	cancel()
	require.NoError(t, <-done)
	require.Equal(t, []string{"a", "b", "c", "d"}, rec.seen)
}
