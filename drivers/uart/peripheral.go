package uart

import (
	"fmt"
	"log/slog"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/irq"
	"github.com/codewandler/actr-go/core/signal"
)

// slots hold the completion of the transfer in flight in each direction.
// They are owned by the interrupt actor and guarded by irq.Free; a non-nil
// slot means the direction is busy.
type slots struct {
	tx *signal.Signal[Result]
	rx *signal.Signal[Result]
}

// take empties a slot and returns what it held.
func take(slot **signal.Signal[Result]) *signal.Signal[Result] {
	return irq.With(func() *signal.Signal[Result] {
		s := *slot
		*slot = nil
		return s
	})
}

type peripheral struct {
	hal      HAL
	log      *slog.Logger
	attached signal.Receiver[*slots]
	slots    *slots
}

// OnLifecycle holds Start until the interrupt actor handed over its slots,
// which keeps all traffic queued until then.
func (p *peripheral) OnLifecycle(event actor.Lifecycle, w signal.Waker) bool {
	if event != actor.Start || p.slots != nil {
		return true
	}
	s, ok := p.attached.Poll(w)
	if !ok {
		return false
	}
	p.slots = s
	p.log.Debug("interrupt attached")
	return true
}

func (p *peripheral) OnNotify(req Request) actor.Completion {
	if t := p.start(req); t.err != nil {
		p.log.Warn("transfer not started", slog.String("op", req.op.String()), slog.Any("error", t.err))
	}
	return actor.Immediate()
}

func (p *peripheral) OnRequest(req Request) actor.Response[Transfer] {
	return actor.Respond(p.start(req))
}

func (p *peripheral) start(req Request) Transfer {
	var (
		slot  **signal.Signal[Result]
		busy  error
		start func([]byte) error
	)
	switch req.op {
	case opRead:
		slot, busy, start = &p.slots.rx, ErrRxInProgress, p.hal.StartRead
	case opWrite:
		slot, busy, start = &p.slots.tx, ErrTxInProgress, p.hal.StartWrite
	default:
		panic(fmt.Sprintf("uart: unexpected request %s", req.op))
	}

	done := signal.New[Result]()
	claimed := irq.With(func() bool {
		if *slot != nil {
			return false
		}
		*slot = done
		return true
	})
	if !claimed {
		p.log.Debug("transfer in progress", slog.String("op", req.op.String()))
		return Transfer{err: busy}
	}

	if err := start(req.buf); err != nil {
		take(slot)
		return Transfer{err: err}
	}
	p.log.Debug("transfer started", slog.String("op", req.op.String()), slog.Int("len", len(req.buf)))

	_, rx := done.Split()
	return Transfer{done: rx}
}

// interrupt serves the UART line.
type interrupt struct {
	hal   HAL
	log   *slog.Logger
	slots *slots
}

func (i *interrupt) OnInterrupt() {
	txDone, rxDone := i.hal.ProcessInterrupts()
	i.log.Debug("uart isr", slog.Bool("tx_done", txDone), slog.Bool("rx_done", rxDone))

	if txDone {
		n, err := i.hal.FinishWrite()
		if s := take(&i.slots.tx); s != nil {
			s.Send(Result{N: n, Err: err})
		}
	}
	if rxDone {
		n, err := i.hal.FinishRead()
		if s := take(&i.slots.rx); s != nil {
			s.Send(Result{N: n, Err: err})
		}
	}
}

// OnBind hands the slots to the peripheral.
func (i *interrupt) OnBind(peer signal.Sender[*slots]) {
	peer.Send(i.slots)
}

func (i *interrupt) OnNotify(struct{}) actor.Completion { return actor.Immediate() }

func (i *interrupt) OnRequest(struct{}) actor.Response[struct{}] {
	return actor.Respond(struct{}{})
}
