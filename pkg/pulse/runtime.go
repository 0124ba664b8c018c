package pulse

import (
	"reflect"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// Scheduler routes a function onto the goroutine that owns a reactive graph.
// Hosts with an event loop implement this so async completions (Action
// results, resource fetches) are applied on the owning goroutine. See the
// loop package for a ready-made serial implementation.
type Scheduler interface {
	Dispatch(fn func())
}

// Runtime is the controller for one reactive graph: it tracks the currently
// executing subscriber, batching state, context scopes, and issues unique
// ids. All dependency tracking and notification routes through it.
//
// Create one with NewRuntime and thread it through constructor calls. A
// Runtime is owned by a single goroutine; see the package documentation for
// the ownership model.
type Runtime struct {
	// idCounter issues unique ids for all reactive primitives.
	// Atomic so handles held by completion goroutines stay safe.
	idCounter atomic.Uint64

	// subscribers is the tracking stack. The top of the stack is the
	// innermost active computation; tracked reads consult only the top.
	subscribers []Subscriber

	// batchDepth counts nested Batch calls. When > 0, notifications are
	// queued instead of fired immediately.
	batchDepth int

	// pending holds subscribers queued during a batch, in first-queued
	// order. pendingIDs mirrors it for O(1) dedup by subscriber id.
	pending    []Subscriber
	pendingIDs mapset.Set[uint64]

	// contexts is the scope stack for type-keyed dependency injection.
	// Always holds at least the base scope.
	contexts []map[reflect.Type]any

	// scope is the current disposal scope, if any. Effects created while a
	// scope is active register with it.
	scope *Scope

	// scheduler applies async completions. Nil means apply inline on the
	// completing goroutine.
	scheduler Scheduler

	stats runtimeStats
}

// RuntimeOption configures a Runtime at construction time.
type RuntimeOption func(*Runtime)

// WithScheduler installs the scheduler used to route async completions back
// onto the Runtime's goroutine.
func WithScheduler(s Scheduler) RuntimeOption {
	return func(rt *Runtime) {
		rt.scheduler = s
	}
}

// NewRuntime creates an empty reactive graph controller.
func NewRuntime(opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		pendingIDs: mapset.NewThreadUnsafeSet[uint64](),
		contexts:   []map[reflect.Type]any{make(map[reflect.Type]any)},
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// nextID returns the next unique id. Ids are strictly increasing and never
// reused for the lifetime of the Runtime.
func (rt *Runtime) nextID() uint64 {
	rt.stats.idsIssued.Add(1)
	return rt.idCounter.Add(1)
}

// pushSubscriber makes s the current tracking consumer.
func (rt *Runtime) pushSubscriber(s Subscriber) {
	rt.subscribers = append(rt.subscribers, s)
}

// popSubscriber removes and returns the current tracking consumer, or nil if
// the stack is empty.
func (rt *Runtime) popSubscriber() Subscriber {
	if len(rt.subscribers) == 0 {
		return nil
	}
	s := rt.subscribers[len(rt.subscribers)-1]
	rt.subscribers[len(rt.subscribers)-1] = nil
	rt.subscribers = rt.subscribers[:len(rt.subscribers)-1]
	return s
}

// currentSubscriber returns the innermost active subscriber without popping,
// or nil when no tracking is active.
func (rt *Runtime) currentSubscriber() Subscriber {
	if len(rt.subscribers) == 0 {
		return nil
	}
	return rt.subscribers[len(rt.subscribers)-1]
}

// WithSubscriber runs fn with s as the current tracking consumer. Signals
// read inside fn subscribe s. The stack is restored even if fn panics, so a
// failing body cannot poison tracking for subsequent unrelated reads.
//
// This is the boundary a view layer uses: supply your own Subscriber, read
// signals during render, and Notify fires when any of them change.
func WithSubscriber(rt *Runtime, s Subscriber, fn func()) {
	rt.pushSubscriber(s)
	defer rt.popSubscriber()
	fn()
}

// Batch groups multiple signal updates into a single notification phase.
// Subscribers notified by writes inside fn are queued, deduplicated by id,
// and each fires exactly once when the batch completes — in the order they
// were first queued.
//
// Batches nest: only the outermost batch end flushes.
//
//	rt.Batch(func() {
//	    firstName.Set("Ada")
//	    lastName.Set("Lovelace")
//	})
//	// Dependents run once, observing both writes.
func (rt *Runtime) Batch(fn func()) {
	rt.batchDepth++
	defer func() {
		rt.batchDepth--
		if rt.batchDepth == 0 {
			rt.flushPending()
		}
	}()
	fn()
}

// queueNotification adds s to the pending set, idempotent per id within one
// batch.
func (rt *Runtime) queueNotification(s Subscriber) {
	if !rt.pendingIDs.Add(s.ID()) {
		return
	}
	rt.pending = append(rt.pending, s)
}

// flushPending notifies every queued subscriber exactly once, in first-queued
// order. Notifications that queue further subscribers (batchDepth is zero by
// now, so they fire immediately) run as part of the same cascade.
func (rt *Runtime) flushPending() {
	if len(rt.pending) == 0 {
		return
	}
	pending := rt.pending
	rt.pending = nil
	rt.pendingIDs.Clear()
	rt.stats.batchFlushes.Add(1)

	for _, s := range pending {
		s.Notify()
	}
}

// Untrack runs fn with dependency recording suppressed and returns its
// result. Reads inside fn do not register the currently computing memo or
// effect as a dependent. The suppressed subscriber is restored even if fn
// panics.
func Untrack[R any](rt *Runtime, fn func() R) R {
	sub := rt.popSubscriber()
	if sub != nil {
		defer rt.pushSubscriber(sub)
	}
	return fn()
}

// Untracked is the result-free convenience form of Untrack.
func (rt *Runtime) Untracked(fn func()) {
	Untrack(rt, func() struct{} {
		fn()
		return struct{}{}
	})
}

// Dispatch routes fn through the Runtime's scheduler. Without a scheduler the
// function runs inline on the calling goroutine, which matches hosts whose
// fetchers complete on throwaway goroutines and rely on signal-level locking.
func (rt *Runtime) Dispatch(fn func()) {
	if rt.scheduler != nil {
		rt.scheduler.Dispatch(fn)
		return
	}
	fn()
}
