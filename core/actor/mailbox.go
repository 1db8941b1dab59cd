package actor

// Mailbox is a fixed-capacity FIFO ring allocated once. It is not
// synchronized: ActorContext only touches it inside irq.Free.
type Mailbox[T any] struct {
	buf  []T
	head int
	n    int
}

// NewMailbox allocates a mailbox holding up to capacity items.
func NewMailbox[T any](capacity int) *Mailbox[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Mailbox[T]{buf: make([]T, capacity)}
}

// Push appends v and reports false when the mailbox is full.
func (q *Mailbox[T]) Push(v T) bool {
	if q.n == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
	return true
}

// Pop removes the oldest item.
func (q *Mailbox[T]) Pop() (v T, ok bool) {
	if q.n == 0 {
		return v, false
	}
	var zero T
	v = q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return v, true
}

func (q *Mailbox[T]) Len() int { return q.n }
func (q *Mailbox[T]) Cap() int { return len(q.buf) }
