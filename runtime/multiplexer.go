// Package runtime holds the synchronization core: the event multiplexer,
// the roster and metadata state, and the chat itself. It orchestrates
// reconciliation without containing backend-specific logic.
package runtime

import (
	"log/slog"
	"sync"
)

const (
	defaultStreamBuffer = 64
	defaultReplayDepth  = 32
)

// Multiplexer fans one upstream sequence of events out to independent
// subscribers. All subscribers observe events in publication order. A
// bounded replay ring hands the most recent events to late subscribers
// before they go live.
//
// Publish never blocks on a slow subscriber: when a subscriber's buffer
// is full its oldest buffered event is dropped to make room.
//
// Multiplexer is safe for concurrent use by multiple goroutines.
type Multiplexer[T any] struct {
	mu          sync.Mutex
	log         *slog.Logger
	subs        map[*Subscription[T]]struct{}
	replay      []T
	replayDepth int
	buffer      int
	err         error
	closed      bool
}

func NewMultiplexer[T any](log *slog.Logger, buffer, replayDepth int) *Multiplexer[T] {
	if buffer <= 0 {
		buffer = defaultStreamBuffer
	}
	if replayDepth < 0 {
		replayDepth = 0
	}
	return &Multiplexer[T]{
		log:         log,
		subs:        make(map[*Subscription[T]]struct{}),
		replayDepth: replayDepth,
		buffer:      buffer,
	}
}

// Subscription is one subscriber's handle. Events() yields the stream;
// after it is closed, Err() reports whether the upstream terminated with
// an error. Cancel is idempotent and never affects other subscribers.
type Subscription[T any] struct {
	ch     chan T
	mux    *Multiplexer[T]
	err    error
	closed bool
}

func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Err returns the terminal upstream error, if any. Only meaningful once
// Events() is closed.
func (s *Subscription[T]) Err() error {
	s.mux.mu.Lock()
	defer s.mux.mu.Unlock()
	return s.err
}

func (s *Subscription[T]) Cancel() {
	s.mux.unsubscribe(s)
}

// Subscribe attaches a new subscriber. The replay ring is delivered
// first, then live events. Subscribing to a terminated multiplexer yields
// an already-closed subscription carrying the terminal error.
func (m *Multiplexer[T]) Subscribe() *Subscription[T] {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := &Subscription[T]{ch: make(chan T, m.buffer), mux: m}
	if m.closed {
		sub.err = m.err
		sub.closed = true
		close(sub.ch)
		return sub
	}
	for _, event := range m.replay {
		sub.deliver(event)
	}
	m.subs[sub] = struct{}{}
	return sub
}

// Publish delivers the event to every current subscriber and records it
// in the replay ring. No-op once the multiplexer is terminal.
func (m *Multiplexer[T]) Publish(event T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.replayDepth > 0 {
		m.replay = append(m.replay, event)
		if len(m.replay) > m.replayDepth {
			m.replay = m.replay[1:]
		}
	}
	for sub := range m.subs {
		sub.deliver(event)
	}
}

// deliver buffers the event for one subscriber, dropping that
// subscriber's oldest buffered event when full. Callers hold m.mu, which
// keeps the relative order identical across subscribers.
func (s *Subscription[T]) deliver(event T) {
	select {
	case s.ch <- event:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	select {
	case s.ch <- event:
	default:
	}
}

// Fail terminates the multiplexer, broadcasting err to all subscribers
// exactly once by closing their streams. Idempotent.
func (m *Multiplexer[T]) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.err = err
	if err != nil && m.log != nil {
		m.log.Warn("event stream terminated", "error", err)
	}
	for sub := range m.subs {
		sub.err = err
		sub.closed = true
		close(sub.ch)
		delete(m.subs, sub)
	}
}

// Close terminates the multiplexer without an error.
func (m *Multiplexer[T]) Close() {
	m.Fail(nil)
}

func (m *Multiplexer[T]) unsubscribe(sub *Subscription[T]) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true
	delete(m.subs, sub)
	close(sub.ch)
}
