package pulse

import (
	"sync"
	"sync/atomic"
)

// Memo is a cached computation that tracks its dependencies automatically.
// When a dependency changes, the memo is only marked dirty; the recomputation
// itself is deferred to the next Get. If several dependencies change before a
// read, the memo recomputes once.
//
// Memos are observable like signals, so chains of derived values work: a
// dirty memo propagates invalidation to its own subscribers exactly once per
// dirty cycle.
type Memo[T any] struct {
	base signalBase

	// compute produces the memo's value.
	compute func() T

	// value is the cached result; meaningless while dirty is set and the
	// memo has never computed.
	value   T
	valueMu sync.RWMutex

	// dirty marks the cached value stale. Starts true: the compute closure
	// is not invoked until the first Get.
	dirty atomic.Bool

	// sources are the cells read during the most recent recomputation.
	sources   []*signalBase
	sourcesMu sync.Mutex

	// computing guards against recursive self-reads during compute.
	computing bool

	disposed atomic.Bool
}

// NewMemo creates a memo on rt. compute runs lazily on first Get, not now.
func NewMemo[T any](rt *Runtime, compute func() T) *Memo[T] {
	m := &Memo[T]{
		base: signalBase{
			rt: rt,
			id: rt.nextID(),
		},
		compute: compute,
	}
	m.dirty.Store(true)
	return m
}

// Get returns the memo's value, recomputing first if a dependency changed
// since the last computation. The current subscriber becomes a dependent of
// this memo.
func (m *Memo[T]) Get() T {
	m.base.track()

	if m.dirty.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Peek returns the value without subscribing. Still recomputes if dirty:
// a memo never hands out a stale value.
func (m *Memo[T]) Peek() T {
	if m.dirty.Load() {
		m.recompute()
	}

	m.valueMu.RLock()
	defer m.valueMu.RUnlock()
	return m.value
}

// Notify marks the memo dirty and propagates the invalidation downstream.
// Implements the Subscriber interface. Marking is idempotent: a memo already
// dirty does not re-notify its subscribers.
func (m *Memo[T]) Notify() {
	if m.disposed.Load() {
		return
	}
	if m.dirty.CompareAndSwap(false, true) {
		m.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this memo.
// Implements the Subscriber interface.
func (m *Memo[T]) ID() uint64 {
	return m.base.id
}

// Version returns the memo's notify counter, bumped each time it is
// invalidated after having been valid.
func (m *Memo[T]) Version() uint64 {
	return m.base.version.Load()
}

// addSource records a cell read during recomputation.
// Implements the sourceTracker interface.
func (m *Memo[T]) addSource(source *signalBase) {
	m.sourcesMu.Lock()
	defer m.sourcesMu.Unlock()

	for _, s := range m.sources {
		if s == source {
			return
		}
	}
	m.sources = append(m.sources, source)
}

// recompute runs the computation with this memo as the current subscriber,
// re-establishing the dependency set from scratch. The set afterwards
// reflects exactly the cells read by this run; stale dependencies from the
// previous run no longer dirty the memo.
func (m *Memo[T]) recompute() {
	if m.computing || m.disposed.Load() {
		// Circular dependency: a compute that reads itself sees the
		// previous cached value. Disposed memos keep their last value.
		return
	}
	m.computing = true
	defer func() { m.computing = false }()

	m.clearSources()

	m.base.rt.pushSubscriber(m)
	defer m.base.rt.popSubscriber()

	newValue := m.compute()

	m.valueMu.Lock()
	m.value = newValue
	m.valueMu.Unlock()

	m.dirty.Store(false)
	m.base.rt.stats.memoRecomputes.Add(1)
}

// clearSources unsubscribes the memo from everything it read last run.
func (m *Memo[T]) clearSources() {
	m.sourcesMu.Lock()
	sources := m.sources
	m.sources = nil
	m.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(m)
	}
}

// Dispose unsubscribes the memo from all of its sources and stops future
// invalidation. Reads after Dispose return the last cached value.
func (m *Memo[T]) Dispose() {
	if m.disposed.Swap(true) {
		return
	}
	m.clearSources()
}

var _ Subscriber = (*Memo[int])(nil)
var _ sourceTracker = (*Memo[int])(nil)
