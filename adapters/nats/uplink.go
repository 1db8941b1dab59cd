package nats

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/device"
	"github.com/codewandler/actr-go/core/metrics"
	"github.com/codewandler/actr-go/core/signal"
	"github.com/codewandler/actr-go/internal/codec"
)

var (
	ErrUplinkBusy   = errors.New("uplink queue full")
	ErrUplinkClosed = errors.New("uplink closed")
)

const defaultUplinkQueue = 16

type UplinkConfig struct {
	Connect Connector // If nil, ConnectDefault() is used.
	Log     *slog.Logger
	Codec   codec.Codec
	Subject string
	// Name of the mounted actor. Defaults to uplink.
	Name string
	// QueueSize bounds the publishes waiting for the publisher goroutine.
	QueueSize int

	// Instrumentation. Nil fields discard.
	Published    metrics.Counter
	Failed       metrics.Counter
	PayloadBytes metrics.Histogram
}

type publish struct {
	data []byte
	done *signal.Signal[error]
}

// Uplink is an actor that publishes every value it receives to a subject.
// Encoding happens on the executor; the network write happens on a
// publisher goroutine whose result completes the message through a signal.
// Requests answer with the publish error.
type Uplink[T any] struct {
	nc      *natsgo.Conn
	closeNc closeFunc
	log     *slog.Logger
	codec   codec.Codec
	subject string
	name    string

	published    metrics.Counter
	failed       metrics.Counter
	payloadBytes metrics.Histogram

	mu        sync.Mutex
	closed    bool
	queue     chan publish
	quit      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewUplink[T any](cfg UplinkConfig) (*Uplink[T], error) {
	if cfg.Subject == "" {
		return nil, errors.New("uplink: subject is required")
	}
	if cfg.Connect == nil {
		cfg.Connect = ConnectDefault()
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	if cfg.Codec == nil {
		cfg.Codec = codec.Default
	}
	if cfg.Name == "" {
		cfg.Name = "uplink"
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultUplinkQueue
	}
	if cfg.Published == nil {
		cfg.Published = metrics.NopCounter()
	}
	if cfg.Failed == nil {
		cfg.Failed = metrics.NopCounter()
	}
	if cfg.PayloadBytes == nil {
		cfg.PayloadBytes = metrics.NopHistogram()
	}

	nc, closeNc, err := cfg.Connect()
	if err != nil {
		return nil, fmt.Errorf("uplink: connect: %w", err)
	}

	u := &Uplink[T]{
		nc:      nc,
		closeNc: closeNc,
		log:     cfg.Log.With(slog.String("subject", cfg.Subject)),
		codec:   cfg.Codec,
		subject: cfg.Subject,
		name:    cfg.Name,

		published:    cfg.Published,
		failed:       cfg.Failed,
		payloadBytes: cfg.PayloadBytes,

		queue: make(chan publish, cfg.QueueSize),
		quit:  make(chan struct{}),
	}
	u.wg.Add(1)
	go u.publisher()
	return u, nil
}

func (u *Uplink[T]) publisher() {
	defer u.wg.Done()
	for {
		select {
		case <-u.quit:
			return
		case p := <-u.queue:
			err := u.nc.Publish(u.subject, p.data)
			if err != nil {
				u.failed.Inc()
			} else {
				u.published.Inc()
				u.payloadBytes.Observe(float64(len(p.data)))
			}
			p.done.Send(err)
		}
	}
}

// Mount registers the uplink actor on d.
func (u *Uplink[T]) Mount(d *device.Device) actor.Address[T, error] {
	return device.Spawn[T, error](d, u.name, u)
}

// Close stops the publisher and releases the connection. Publishes still
// queued complete with ErrUplinkClosed.
func (u *Uplink[T]) Close() {
	u.closeOnce.Do(func() {
		u.mu.Lock()
		u.closed = true
		close(u.quit)
		u.mu.Unlock()

		u.wg.Wait()
		for {
			select {
			case p := <-u.queue:
				u.failed.Inc()
				p.done.Send(ErrUplinkClosed)
			default:
				u.closeNc()
				return
			}
		}
	})
}

// submit hands v to the publisher. The returned receiver yields the
// publish error.
func (u *Uplink[T]) submit(v T) signal.Receiver[error] {
	done := signal.New[error]()
	_, rx := done.Split()

	data, err := u.codec.Marshal(v)
	if err != nil {
		u.failed.Inc()
		done.Send(fmt.Errorf("uplink: encode: %w", err))
		return rx
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		u.failed.Inc()
		done.Send(ErrUplinkClosed)
		return rx
	}

	select {
	case u.queue <- publish{data: data, done: done}:
	default:
		u.failed.Inc()
		done.Send(ErrUplinkBusy)
	}
	return rx
}

func (u *Uplink[T]) OnNotify(v T) actor.Completion {
	return actor.Then(u.submit(v), func(err error) {
		if err != nil {
			u.log.Warn("publish failed", slog.Any("error", err))
			return
		}
		u.log.Debug("published")
	})
}

func (u *Uplink[T]) OnRequest(v T) actor.Response[error] {
	return actor.Forward(u.submit(v))
}

var _ device.Package[struct{}, error] = (*Uplink[struct{}])(nil)
