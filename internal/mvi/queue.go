package mvi

import "sync"

// intentQueue is a thread-safe unbounded FIFO queue of intents.
//
// The queue is unbounded so that sending an intent never blocks the caller:
// intents are user-paced, so memory growth under producer/consumer imbalance
// is an accepted trade for a non-blocking Send.
//
// A buffered signal channel (size 1) coalesces availability notifications and
// lets the store's Run loop wait for work without busy-polling. The channel
// is closed when the queue closes, which wakes all blocked waiters.
type intentQueue[I any] struct {
	mu      sync.Mutex
	intents []I
	closed  bool
	signal  chan struct{}
}

func newIntentQueue[I any]() *intentQueue[I] {
	return &intentQueue[I]{
		intents: make([]I, 0, 16),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue appends an intent to the back of the queue.
// Safe to call from any goroutine. Returns false if the queue is closed.
func (q *intentQueue[I]) Enqueue(intent I) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.intents = append(q.intents, intent)

	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front intent without blocking.
// Returns the zero intent and false if the queue is empty.
func (q *intentQueue[I]) TryDequeue() (I, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero I
	if len(q.intents) == 0 {
		return zero, false
	}

	intent := q.intents[0]

	// Zero the slot so the backing array does not retain the dequeued
	// intent's pointers until reallocation.
	q.intents[0] = zero
	if len(q.intents) == 1 {
		q.intents = q.intents[:0]
	} else {
		q.intents = q.intents[1:]
	}

	return intent, true
}

// Wait returns a channel that signals when intents may be available.
// Receives also fire once the queue is closed.
func (q *intentQueue[I]) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *intentQueue[I]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.intents)
}

// Closed reports whether Close has been called.
func (q *intentQueue[I]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close marks the queue closed and wakes all waiters.
// Further Enqueue calls return false. Idempotent.
func (q *intentQueue[I]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
