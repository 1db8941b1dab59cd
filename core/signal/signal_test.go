package signal

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingWaker struct{ n atomic.Int32 }

func (w *countingWaker) Wake() { w.n.Add(1) }

func TestSignal_send_before_poll(t *testing.T) {
	s := New[int]()
	s.Send(7)
	require.True(t, s.Signaled())

	v, ok := s.Poll(&countingWaker{})
	require.True(t, ok)
	require.Equal(t, 7, v)
}

func TestSignal_at_most_once(t *testing.T) {
	s := New[string]()
	w := &countingWaker{}

	s.Send("done")
	v, ok := s.Poll(w)
	require.True(t, ok)
	require.Equal(t, "done", v)

	_, ok = s.Poll(w)
	require.False(t, ok, "consumed value must not be reported again")
	require.False(t, s.Signaled())

	s.Send("again")
	v, ok = s.Poll(w)
	require.True(t, ok)
	require.Equal(t, "again", v)
}

func TestSignal_wakes_registered_waker(t *testing.T) {
	s := New[int]()
	w := &countingWaker{}

	_, ok := s.Poll(w)
	require.False(t, ok)
	require.Equal(t, int32(0), w.n.Load())

	s.Send(1)
	require.Equal(t, int32(1), w.n.Load())

	// the waker is single-shot
	s.Send(2)
	require.Equal(t, int32(1), w.n.Load())

	v, ok := s.Poll(w)
	require.True(t, ok)
	require.Equal(t, 2, v, "last write wins")
}

func TestSignal_reset(t *testing.T) {
	s := New[int]()
	w := &countingWaker{}
	_, _ = s.Poll(w)
	s.Reset()
	s.Send(3)
	require.Equal(t, int32(0), w.n.Load(), "reset drops the waker")

	s.Reset()
	require.False(t, s.Signaled())
}

func TestSignal_split(t *testing.T) {
	tx, rx := New[int]().Split()
	tx.Send(42)
	v, ok := rx.Poll(&countingWaker{})
	require.True(t, ok)
	require.Equal(t, 42, v)
}

func TestReceiver_wait(t *testing.T) {
	tx, rx := New[int]().Split()

	go func() {
		time.Sleep(10 * time.Millisecond)
		tx.Send(5)
	}()

	v, err := rx.Wait(t.Context())
	require.NoError(t, err)
	require.Equal(t, 5, v)
}

func TestReceiver_wait_ctx(t *testing.T) {
	s := New[int]()
	_, rx := s.Split()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := rx.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// a late value is retained
	s.Send(9)
	v, ok := rx.Poll(&countingWaker{})
	require.True(t, ok)
	require.Equal(t, 9, v)
}

func TestSignal_concurrent_producer(t *testing.T) {
	s := New[int]()
	w := &countingWaker{}
	var wg sync.WaitGroup

	got := 0
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Send(i)
		}()
		wg.Wait()
		v, ok := s.Poll(w)
		require.True(t, ok)
		require.Equal(t, i, v)
		got++
	}
	require.Equal(t, 100, got)
}
