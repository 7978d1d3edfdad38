package idqueue

// Queue is a ring buffer of ids with a capacity fixed at creation.
// The zero value is an empty queue with capacity 0.
type Queue[T ~uint32] struct {
	buf  []T
	head int
	len  int
}

// New creates an empty queue that can hold up to capacity ids.
func New[T ~uint32](capacity int) *Queue[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Queue[T]{buf: make([]T, capacity)}
}

// NewFull creates a queue of the given capacity holding every id in
// [0, capacity), in ascending order.
func NewFull[T ~uint32](capacity int) *Queue[T] {
	q := New[T](capacity)
	for i := range q.buf {
		q.buf[i] = T(i) //nolint:gosec // capacity is bounded by the caller's uint32 id space
	}
	q.len = len(q.buf)
	return q
}

// Len returns the number of ids in the queue.
func (q *Queue[T]) Len() int {
	return q.len
}

// Cap returns the maximum number of ids the queue can hold.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Empty reports whether no id is available.
func (q *Queue[T]) Empty() bool {
	return q.len == 0
}

// Peek returns the id at the head without removing it.
// Returns zero value and false if the queue is empty.
func (q *Queue[T]) Peek() (T, bool) {
	if q.len == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// Pop removes and returns the id at the head.
// Returns zero value and false if the queue is empty.
func (q *Queue[T]) Pop() (T, bool) {
	if q.len == 0 {
		var zero T
		return zero, false
	}
	id := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.len--
	return id, true
}

// Push appends id at the tail. It returns false, leaving the queue
// unchanged, when the queue is already full.
func (q *Queue[T]) Push(id T) bool {
	if q.len == len(q.buf) {
		return false
	}
	q.buf[(q.head+q.len)%len(q.buf)] = id
	q.len++
	return true
}
