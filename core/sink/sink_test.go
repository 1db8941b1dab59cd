package sink

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/device"
)

type collector struct {
	name string
	log  *[]string
}

func (c collector) Notify(v string) { *c.log = append(*c.log, c.name+":"+v) }

func boot(d *device.Device) {
	e := d.Executor()
	e.DispatchLifecycle(actor.Initialize)
	e.RunUntilQuiescence()
	e.DispatchLifecycle(actor.Start)
	e.RunUntilQuiescence()
}

func TestMultiSink_delivers_in_subscription_order(t *testing.T) {
	d := device.New(device.Config{})
	addr := device.Mount(d, Package[string]{Name: "fanout", Capacity: 3})
	boot(d)

	var got []string
	addr.Notify(Subscribe[string](collector{"a", &got}))
	addr.Notify(Subscribe[string](collector{"b", &got}))
	addr.Notify(Forward("1"))
	addr.Notify(Forward("2"))
	d.Executor().RunUntilQuiescence()

	require.Equal(t, []string{"a:1", "b:1", "a:2", "b:2"}, got)
}

func TestMultiSink_request_reports_subscribers(t *testing.T) {
	d := device.New(device.Config{})
	addr := device.Mount(d, Package[string]{})
	boot(d)

	var got []string
	rx := addr.Request(Subscribe[string](collector{"a", &got}))
	d.Executor().RunUntilQuiescence()

	n, ok := rx.Poll(signalNop{})
	require.True(t, ok)
	require.Equal(t, 1, n)
}

func TestMultiSink_too_many_subscribers(t *testing.T) {
	m := New[string](1)
	var got []string
	m.OnNotify(Subscribe[string](collector{"a", &got}))
	require.Equal(t, 1, m.Len())

	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.ErrorIs(t, r.(error), ErrTooManySubscribers)
	}()
	m.OnNotify(Subscribe[string](collector{"b", &got}))
}

func TestMultiSink_chained(t *testing.T) {
	d := device.New(device.Config{})
	front := device.Mount(d, Package[string]{Name: "front"})
	back := device.Mount(d, Package[string]{Name: "back"})
	boot(d)

	var got []string
	back.Notify(Subscribe[string](collector{"leaf", &got}))
	front.Notify(Subscribe(Of(back)))
	front.Notify(Subscribe[string](Func[string](func(v string) { got = append(got, "func:"+v) })))
	front.Notify(Forward("x"))
	d.Executor().RunUntilQuiescence()

	require.ElementsMatch(t, []string{"leaf:x", "func:x"}, got)
}

type signalNop struct{}

func (signalNop) Wake() {}

type listener struct{ got []string }

func (l *listener) OnNotify(v string) actor.Completion {
	l.got = append(l.got, v)
	return actor.Immediate()
}

func (l *listener) OnRequest(string) actor.Response[struct{}] { return actor.Respond(struct{}{}) }

func TestMultiSink_actor_subscriber(t *testing.T) {
	d := device.New(device.Config{})
	fan := device.Mount(d, Package[string]{})
	l := &listener{}
	laddr := device.Spawn[string, struct{}](d, "listener", l)
	boot(d)

	fan.Notify(Subscribe[string](laddr))
	fan.Notify(Forward("hello"))
	d.Executor().RunUntilQuiescence()

	require.Equal(t, []string{"hello"}, l.got)
}

func TestMultiSink_rejects_nil_subscriber(t *testing.T) {
	m := New[int](2)
	var got []int
	m.OnNotify(Subscribe[int](Func[int](func(v int) { got = append(got, v) })))

	require.PanicsWithValue(t, ErrNilSubscriber, func() { Subscribe[int](nil) })
	require.Panics(t, func() { m.OnNotify(Op[int]{}) })
	require.Equal(t, 1, m.Len())
	require.Empty(t, got)
}

type gauge struct{ v float64 }

func (g *gauge) Set(v float64) { g.v = v }
func (g *gauge) Inc()          { g.v++ }
func (g *gauge) Dec()          { g.v-- }
func (g *gauge) Add(d float64) { g.v += d }

func TestMultiSink_subscriber_gauge(t *testing.T) {
	g := &gauge{}
	d := device.New(device.Config{})
	addr := device.Mount(d, Package[string]{Subscribers: g})
	boot(d)

	var got []string
	addr.Notify(Subscribe[string](collector{"a", &got}))
	addr.Notify(Subscribe[string](collector{"b", &got}))
	d.Executor().RunUntilQuiescence()

	require.Equal(t, float64(2), g.v)
}
