package uart

import (
	"errors"
	"sync"

	"github.com/codewandler/actr-go/core/irq"
)

const loopbackCapacity = 256

var ErrOverrun = errors.New("uart: loopback buffer overrun")

// Loopback is a HAL whose TX is wired to its RX. Written bytes are buffered
// and handed to the next read. Completions raise the line from a separate
// goroutine, the way hardware raises an interrupt asynchronously.
type Loopback struct {
	ctrl *irq.Controller
	line irq.Line

	mu     sync.Mutex
	fifo   []byte
	rxBuf  []byte
	rxArm  bool
	rxN    int
	txN    int
	txDone bool
	rxDone bool
}

func NewLoopback(ctrl *irq.Controller, line irq.Line) *Loopback {
	return &Loopback{
		ctrl: ctrl,
		line: line,
		fifo: make([]byte, 0, loopbackCapacity),
	}
}

func (l *Loopback) StartWrite(buf []byte) error {
	l.mu.Lock()
	if len(l.fifo)+len(buf) > loopbackCapacity {
		l.mu.Unlock()
		return ErrOverrun
	}
	l.fifo = append(l.fifo, buf...)
	l.txN = len(buf)
	l.txDone = true
	l.fill()
	l.mu.Unlock()

	l.raise()
	return nil
}

func (l *Loopback) StartRead(buf []byte) error {
	l.mu.Lock()
	l.rxBuf = buf
	l.rxArm = true
	l.fill()
	done := l.rxDone
	l.mu.Unlock()

	if done {
		l.raise()
	}
	return nil
}

func (l *Loopback) ProcessInterrupts() (txDone, rxDone bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	txDone, rxDone = l.txDone, l.rxDone
	l.txDone, l.rxDone = false, false
	return txDone, rxDone
}

func (l *Loopback) FinishRead() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rxN, nil
}

func (l *Loopback) FinishWrite() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txN, nil
}

// Buffered returns the number of bytes written but not yet read.
func (l *Loopback) Buffered() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fifo)
}

// fill completes an armed read from the fifo. l.mu must be held.
func (l *Loopback) fill() {
	if !l.rxArm || len(l.fifo) == 0 {
		return
	}
	n := copy(l.rxBuf, l.fifo)
	l.fifo = append(l.fifo[:0], l.fifo[n:]...)
	l.rxN = n
	l.rxBuf = nil
	l.rxArm = false
	l.rxDone = true
}

func (l *Loopback) raise() {
	go l.ctrl.Pend(l.line)
}

var _ HAL = (*Loopback)(nil)
