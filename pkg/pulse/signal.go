package pulse

import (
	"sync"
	"sync/atomic"
)

// signalBase provides type-erased subscriber management and versioning.
// It is embedded in Signal[T] and Memo[T] to share subscription logic.
type signalBase struct {
	rt *Runtime
	id uint64

	// subs are the subscribers registered on this cell, in first-tracked
	// order. A subscriber appears at most once (dedup by id).
	subs []Subscriber

	// subMu protects the subs slice.
	subMu sync.RWMutex

	// version increments on every notify, independent of value equality.
	version atomic.Uint64
}

// track registers the Runtime's current subscriber, if any, as a dependent
// of this cell. Idempotent per subscriber id.
func (b *signalBase) track() {
	sub := b.rt.currentSubscriber()
	if sub == nil {
		return
	}
	b.subscribe(sub)
	if st, ok := sub.(sourceTracker); ok {
		st.addSource(b)
	}
}

// subscribe adds a subscriber, deduplicated by id.
func (b *signalBase) subscribe(s Subscriber) {
	if s == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	sid := s.ID()
	for _, existing := range b.subs {
		if existing.ID() == sid {
			return
		}
	}
	b.subs = append(b.subs, s)
}

// unsubscribe removes a subscriber. Removal preserves the order of the
// remaining subscribers; notification order is first-tracked FIFO and must
// survive churn.
func (b *signalBase) unsubscribe(s Subscriber) {
	if s == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	sid := s.ID()
	for i, existing := range b.subs {
		if existing.ID() == sid {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// notifySubscribers bumps the version and notifies all subscribers.
// The subscriber list is snapshotted first: subscribers may add or remove
// themselves while being notified, and the list being iterated must not
// change underneath the iteration.
func (b *signalBase) notifySubscribers() {
	b.version.Add(1)
	b.rt.stats.signalNotifies.Add(1)

	b.subMu.RLock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.subMu.RUnlock()

	if b.rt.batchDepth > 0 {
		for _, s := range subs {
			b.rt.queueNotification(s)
		}
		return
	}
	for _, s := range subs {
		b.rt.stats.notifications.Add(1)
		s.Notify()
	}
}

// Signal is a mutable reactive cell. Reading it while a subscriber is
// executing registers that subscriber as a dependent; writing it notifies
// all dependents synchronously (or queues them inside a batch).
//
// Every write notifies. There is no equality gate: callers that want
// change-detection layer it on top (see Watch), or compare Version().
type Signal[T any] struct {
	base signalBase

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex
}

// NewSignal creates a signal on rt holding initial.
func NewSignal[T any](rt *Runtime, initial T) *Signal[T] {
	return &Signal[T]{
		base: signalBase{
			rt: rt,
			id: rt.nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current subscriber.
func (s *Signal[T]) Get() T {
	s.base.track()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Peek returns the current value without subscribing. Use it to read a value
// inside an effect or memo without creating a dependency on it.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set overwrites the value and notifies subscribers.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()

	s.base.notifySubscribers()
}

// Update replaces the value with fn(current) and notifies subscribers.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	s.mu.Unlock()

	s.base.notifySubscribers()
}

// Version returns the write counter, bumped on every notify. Useful for
// dirty-checking without requiring comparable values.
func (s *Signal[T]) Version() uint64 {
	return s.base.version.Load()
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// With gives fn tracked read access to the value in place, without copying
// it out, and returns fn's result. fn must not mutate the value.
func With[T, R any](s *Signal[T], fn func(T) R) R {
	s.base.track()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.value)
}

// WithMut gives fn mutable access to the value in place, notifies
// subscribers, and returns fn's result.
func WithMut[T, R any](s *Signal[T], fn func(*T) R) R {
	s.mu.Lock()
	result := fn(&s.value)
	s.mu.Unlock()

	s.base.notifySubscribers()
	return result
}
