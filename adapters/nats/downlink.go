package nats

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	natsgo "github.com/nats-io/nats.go"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/metrics"
	"github.com/codewandler/actr-go/internal/codec"
)

type DownlinkConfig struct {
	Connect Connector // If nil, ConnectDefault() is used.
	Log     *slog.Logger
	Codec   codec.Codec
	Subject string
	// Dropped counts discarded messages. Nil discards.
	Dropped metrics.Counter
}

// Downlink feeds messages from a subject into an actor's mailbox. Messages
// that do not decode, or that find the mailbox full, are dropped.
type Downlink struct {
	sub     *natsgo.Subscription
	closeNc closeFunc
	log     *slog.Logger
	drops   metrics.Counter

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// Subscribe decodes each message on cfg.Subject into an M and notifies addr
// with it. The NATS callback runs outside the executor, like an interrupt.
func Subscribe[M any, R any](cfg DownlinkConfig, addr actor.Address[M, R]) (*Downlink, error) {
	if cfg.Subject == "" {
		return nil, errors.New("downlink: subject is required")
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
	if cfg.Dropped == nil {
		cfg.Dropped = metrics.NopCounter()
	}

	nc, closeNc, err := cfg.Connect()
	if err != nil {
		return nil, fmt.Errorf("downlink: connect: %w", err)
	}

	d := &Downlink{
		closeNc: closeNc,
		drops:   cfg.Dropped,
		log:     cfg.Log.With(slog.String("subject", cfg.Subject), slog.String("actor", addr.Name())),
	}

	d.sub, err = nc.Subscribe(cfg.Subject, func(msg *natsgo.Msg) {
		var m M
		if err := cfg.Codec.Unmarshal(msg.Data, &m); err != nil {
			d.drop()
			d.log.Warn("dropping undecodable message", slog.Any("error", err))
			return
		}
		if err := addr.TryNotify(m); err != nil {
			d.drop()
			d.log.Warn("dropping message", slog.Any("error", err))
			return
		}
		d.delivered.Add(1)
	})
	if err != nil {
		closeNc()
		return nil, fmt.Errorf("downlink: subscribe: %w", err)
	}
	if err := nc.Flush(); err != nil {
		_ = d.sub.Unsubscribe()
		closeNc()
		return nil, fmt.Errorf("downlink: flush: %w", err)
	}

	d.log.Debug("downlink subscribed")
	return d, nil
}

func (d *Downlink) drop() {
	d.dropped.Add(1)
	d.drops.Inc()
}

// Delivered returns the number of messages handed to the actor.
func (d *Downlink) Delivered() uint64 { return d.delivered.Load() }

// Dropped returns the number of messages discarded.
func (d *Downlink) Dropped() uint64 { return d.dropped.Load() }

func (d *Downlink) Close() error {
	err := d.sub.Unsubscribe()
	d.closeNc()
	return err
}
