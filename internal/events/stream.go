package events

import (
	"context"
	"sync"
)

// Stream is the consumer side of a subscription: a lazy FIFO sequence of
// payloads. Next drains buffered payloads in emission order or blocks until one
// arrives. Close unsubscribes from the bus and discards anything still
// buffered; it is safe to call at any time, from any goroutine, and never
// blocks. A closed stream stays closed.
type Stream[T any] struct {
	mu     sync.Mutex
	buf    []T
	ready  chan struct{}
	closed bool
	once   sync.Once
	cancel func()
}

func newStream[T any]() *Stream[T] {
	return &Stream[T]{
		ready: make(chan struct{}, 1),
	}
}

func (s *Stream[T]) setCancel(cancel func()) {
	s.mu.Lock()
	closed := s.closed
	s.cancel = cancel
	s.mu.Unlock()
	// Close raced ahead of registration; undo it now.
	if closed {
		cancel()
	}
}

// push appends a payload and wakes a blocked Next. Called by the bus during
// Emit; must never block.
func (s *Stream[T]) push(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.buf = append(s.buf, v)
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

// Next returns the oldest buffered payload, blocking until one is emitted if
// the buffer is empty. It returns ErrStreamClosed after Close and ctx.Err()
// when the context is cancelled first.
func (s *Stream[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.mu.Lock()
		if len(s.buf) > 0 {
			v := s.buf[0]
			s.buf = s.buf[1:]
			s.mu.Unlock()
			return v, nil
		}
		if s.closed {
			s.mu.Unlock()
			return zero, ErrStreamClosed
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-s.ready:
		}
	}
}

// TryNext returns the oldest buffered payload without blocking. The second
// return is false when the buffer is empty or the stream is closed.
func (s *Stream[T]) TryNext() (T, bool) {
	var zero T
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || len(s.buf) == 0 {
		return zero, false
	}
	v := s.buf[0]
	s.buf = s.buf[1:]
	return v, true
}

// Close terminates the subscription. Buffered payloads are discarded, not
// redelivered elsewhere.
func (s *Stream[T]) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.buf = nil
		cancel := s.cancel
		s.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		select {
		case s.ready <- struct{}{}:
		default:
		}
	})
}
