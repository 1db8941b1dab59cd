package main

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/codewandler/actr-go/core/actor"
	"github.com/codewandler/actr-go/core/signal"
	"github.com/codewandler/actr-go/core/sink"
	"github.com/codewandler/actr-go/drivers/uart"
)

type Op string

const (
	OpTick      Op = "tick"
	OpCalibrate Op = "calibrate"
)

// Command drives the sensor. Ticks come from the local timer, calibration
// from the downlink.
type Command struct {
	Op     Op      `json:"op"`
	Offset float64 `json:"offset,omitempty"`
}

type Reading struct {
	Device string    `json:"device"`
	Seq    int       `json:"seq"`
	Value  float64   `json:"value"`
	At     time.Time `json:"at"`
}

// sensor takes a sample on every tick, pushes it through the UART and
// publishes what comes back.
type sensor struct {
	device string
	log    *slog.Logger
	uart   actor.Address[uart.Request, uart.Transfer]
	out    sink.Sink[Reading]
	now    func() time.Time

	seq    int
	offset float64
	last   Reading
}

func newSensor(device string, log *slog.Logger, u actor.Address[uart.Request, uart.Transfer], out sink.Sink[Reading]) *sensor {
	return &sensor{
		device: device,
		log:    log.With(slog.String("actor", "sensor")),
		uart:   u,
		out:    out,
		now:    time.Now,
	}
}

func (s *sensor) sample() float64 {
	v := 20 + 2*math.Sin(float64(s.seq)/10) + s.offset
	return math.Round(v*100) / 100
}

func (s *sensor) OnNotify(cmd Command) actor.Completion {
	switch cmd.Op {
	case OpCalibrate:
		s.offset = cmd.Offset
		s.log.Info("calibrated", slog.Float64("offset", s.offset))
		return actor.Immediate()
	case OpTick:
		return s.tick()
	default:
		s.log.Warn("unknown command", slog.String("op", string(cmd.Op)))
		return actor.Immediate()
	}
}

// OnRequest answers with the last published reading.
func (s *sensor) OnRequest(Command) actor.Response[Reading] {
	return actor.Respond(s.last)
}

func (s *sensor) tick() actor.Completion {
	s.seq++
	seq, value := s.seq, s.sample()
	frame := []byte(fmt.Sprintf("%d:%.2f", seq, value))

	wrote := uart.Await(s.uart.Request(uart.Write(frame)))
	echo := make([]byte, len(frame))
	var read actor.ResponseContinuation[uart.Result]

	return actor.Defer(func(w signal.Waker) bool {
		if read == nil {
			res, ok := wrote(w)
			if !ok {
				return false
			}
			if res.Err != nil {
				s.log.Warn("uart write failed", slog.Int("seq", seq), slog.Any("error", res.Err))
				return true
			}
			read = uart.Await(s.uart.Request(uart.Read(echo)))
		}

		res, ok := read(w)
		if !ok {
			return false
		}
		if res.Err != nil {
			s.log.Warn("uart read failed", slog.Int("seq", seq), slog.Any("error", res.Err))
			return true
		}
		if got := string(echo[:res.N]); got != string(frame) {
			s.log.Warn("echo mismatch", slog.String("sent", string(frame)), slog.String("got", got))
			return true
		}

		s.last = Reading{Device: s.device, Seq: seq, Value: value, At: s.now()}
		s.out.Notify(s.last)
		return true
	})
}

// readingLog logs every reading it is notified with.
type readingLog struct {
	log *slog.Logger
}

func (l *readingLog) OnNotify(r Reading) actor.Completion {
	l.log.Info("reading", slog.Int("seq", r.Seq), slog.Float64("value", r.Value))
	return actor.Immediate()
}

func (l *readingLog) OnRequest(Reading) actor.Response[struct{}] {
	return actor.Respond(struct{}{})
}
