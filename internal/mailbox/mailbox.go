// Package mailbox provides an unbounded, ordered, multi-producer
// single-consumer queue.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is a FIFO queue. Send never blocks. Any number of goroutines may
// send; a single goroutine is expected to receive.
type Mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{}
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{}, 1)}
}

// Send appends v to the queue.
func (m *Mailbox[T]) Send(v T) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.items = append(m.items, v)
	m.mu.Unlock()
	m.signal()
	return nil
}

func (m *Mailbox[T]) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Ready returns a channel that receives a value whenever items may be
// available. Callers must re-check with TryReceive or Drain.
func (m *Mailbox[T]) Ready() <-chan struct{} {
	return m.ready
}

// TryReceive pops the oldest item without waiting.
func (m *Mailbox[T]) TryReceive() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if len(m.items) == 0 {
		return zero, false
	}
	v := m.items[0]
	m.items[0] = zero
	m.items = m.items[1:]
	if len(m.items) > 0 {
		m.signal()
	}
	return v, true
}

// Receive waits for the next item. It returns false when ctx is done or when
// the mailbox is closed and empty.
func (m *Mailbox[T]) Receive(ctx context.Context) (T, bool) {
	for {
		if v, ok := m.TryReceive(); ok {
			return v, true
		}
		if m.isClosed() {
			var zero T
			return zero, false
		}
		select {
		case <-m.ready:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// Drain pops every queued item in order.
func (m *Mailbox[T]) Drain() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items
	m.items = nil
	return items
}

// Len returns the number of queued items.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close rejects further sends. Items already queued stay receivable.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

func (m *Mailbox[T]) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
