// Package sink fans values out to subscribers.
//
// A [MultiSink] is an actor holding a bounded list of [Sink] subscribers. It
// is driven through its mailbox with two operations: [Subscribe] adds a
// subscriber, [Forward] delivers a value to every subscriber in
// subscription order. Any actor.Address whose message type is T is a Sink.
package sink

import (
	"errors"
	"fmt"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/device"
	"github.com/codewandler/actr-go/core/metrics"
)

var (
	ErrTooManySubscribers = errors.New("too many subscribers")
	ErrNilSubscriber      = errors.New("nil subscriber")
)

const defaultCapacity = 4

// Sink accepts values without answering.
type Sink[T any] interface {
	Notify(v T)
}

// Func adapts a func to Sink. It runs on the executor goroutine and must not
// block.
type Func[T any] func(v T)

func (f Func[T]) Notify(v T) { f(v) }

type opKind uint8

const (
	opSubscribe opKind = iota + 1
	opForward
)

// Op is a MultiSink message. The zero Op is invalid.
type Op[T any] struct {
	kind       opKind
	subscriber Sink[T]
	value      T
}

// Subscribe adds s to the sink. It panics if s is nil.
func Subscribe[T any](s Sink[T]) Op[T] {
	if s == nil {
		panic(ErrNilSubscriber)
	}
	return Op[T]{kind: opSubscribe, subscriber: s}
}

// Forward delivers v to every subscriber.
func Forward[T any](v T) Op[T] { return Op[T]{kind: opForward, value: v} }

// MultiSink is the fan-out actor. Requests behave like notifications and
// answer with the number of subscribers.
type MultiSink[T any] struct {
	subscribers []Sink[T]
	gauge       metrics.Gauge
}

// New returns a MultiSink accepting up to capacity subscribers.
func New[T any](capacity int) *MultiSink[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &MultiSink[T]{
		subscribers: make([]Sink[T], 0, capacity),
		gauge:       metrics.NopGauge(),
	}
}

// WithGauge reports the subscriber count to g.
func (m *MultiSink[T]) WithGauge(g metrics.Gauge) *MultiSink[T] {
	if g != nil {
		m.gauge = g
	}
	return m
}

func (m *MultiSink[T]) Len() int { return len(m.subscribers) }

func (m *MultiSink[T]) OnNotify(op Op[T]) actor.Completion {
	m.apply(op)
	return actor.Immediate()
}

func (m *MultiSink[T]) OnRequest(op Op[T]) actor.Response[int] {
	m.apply(op)
	return actor.Respond(len(m.subscribers))
}

func (m *MultiSink[T]) apply(op Op[T]) {
	switch op.kind {
	case opSubscribe:
		if op.subscriber == nil {
			panic(ErrNilSubscriber)
		}
		if len(m.subscribers) == cap(m.subscribers) {
			panic(fmt.Errorf("%w: capacity=%d", ErrTooManySubscribers, cap(m.subscribers)))
		}
		m.subscribers = append(m.subscribers, op.subscriber)
		m.gauge.Set(float64(len(m.subscribers)))
	case opForward:
		for _, s := range m.subscribers {
			s.Notify(op.value)
		}
	default:
		panic(fmt.Sprintf("sink: op of unknown kind %d", op.kind))
	}
}

// Of turns the address of a MultiSink into a Sink, so fan-outs can feed
// other fan-outs.
func Of[T any](addr actor.Address[Op[T], int]) Sink[T] {
	return Func[T](func(v T) { addr.Notify(Forward(v)) })
}

// Package mounts a MultiSink on a device.
type Package[T any] struct {
	Name string
	// Capacity bounds the number of subscribers. Defaults to 4.
	Capacity int
	// Subscribers, if set, tracks the subscriber count.
	Subscribers metrics.Gauge
}

func (p Package[T]) Mount(d *device.Device) actor.Address[Op[T], int] {
	name := p.Name
	if name == "" {
		name = "sink"
	}
	return device.Spawn[Op[T], int](d, name, New[T](p.Capacity).WithGauge(p.Subscribers))
}

var _ device.Package[Op[struct{}], int] = Package[struct{}]{}
