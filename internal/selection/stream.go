// Package selection holds the shared UI selection state: the current asset
// group and the current filter context. Each is a Stream that replays its
// latest value to new subscribers.
package selection

import "sync"

// Filters is the opaque filter context chosen by the user.
type Filters map[string]string

// Subscription delivers stream values on C until Close is called.
type Subscription[T any] struct {
	C <-chan T

	once  sync.Once
	close func()
}

// NewSubscription wraps a channel and its release function.
func NewSubscription[T any](c <-chan T, closeFn func()) *Subscription[T] {
	return &Subscription[T]{C: c, close: closeFn}
}

// Close releases the subscription. It is safe to call more than once.
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		if s.close != nil {
			s.close()
		}
	})
}

// Stream is a broadcast value with replay of the latest value.
// Slow subscribers only ever see the newest value: a pending undelivered
// value is replaced rather than queued.
type Stream[T any] struct {
	mu     sync.Mutex
	value  T
	has    bool
	subs   map[chan T]struct{}
	closed bool
}

// NewStream returns an empty stream.
func NewStream[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[chan T]struct{})}
}

// NewStreamWith returns a stream whose current value is v.
func NewStreamWith[T any](v T) *Stream[T] {
	s := NewStream[T]()
	s.value = v
	s.has = true
	return s
}

// Publish sets the current value and notifies every subscriber.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.value = v
	s.has = true
	for ch := range s.subs {
		offer(ch, v)
	}
}

// Current returns the latest value and whether one was published.
func (s *Stream[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.has
}

// Subscribe registers a new subscriber. If the stream has a value it is
// delivered immediately.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	ch := make(chan T, 1)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return NewSubscription[T](ch, nil)
	}
	if s.has {
		ch <- s.value
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return NewSubscription[T](ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	})
}

// Close ends the stream, closing every subscriber channel.
func (s *Stream[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
}

// offer delivers v on a one-slot channel, dropping a stale pending value.
// Callers hold the stream lock, so there is a single sender per channel.
func offer[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
