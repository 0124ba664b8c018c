package pulse

import (
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect. It runs once at construction and re-runs
// synchronously whenever a signal or memo it read during its last run
// changes. The body may return a Cleanup that is invoked before each re-run
// and on disposal.
//
// Re-runs are part of the write's notification cascade: outside a batch,
// control returns to the caller of Set only after every dependent effect has
// completed. A body that writes its own dependencies therefore recurses; the
// engine applies no cycle guard.
type Effect struct {
	id uint64
	rt *Runtime

	// fn is the effect body.
	fn func() Cleanup

	// cleanup from the previous run, if any.
	cleanup Cleanup

	// sources are the cells read during the last run.
	sources   []*signalBase
	sourcesMu sync.Mutex

	disposed atomic.Bool
}

// NewEffect creates an effect on rt and runs it immediately, establishing its
// initial dependency set. If a Scope is active the effect registers with it
// and is disposed when the scope is.
func NewEffect(rt *Runtime, fn func() Cleanup) *Effect {
	e := &Effect{
		id: rt.nextID(),
		rt: rt,
		fn: fn,
	}

	if rt.scope != nil {
		rt.scope.registerEffect(e)
	}

	e.run()
	return e
}

// EffectOnce creates an effect whose body executes on the first run only.
// It still subscribes to whatever it read on that run, but subsequent
// notifications are no-ops.
func EffectOnce(rt *Runtime, fn func()) *Effect {
	executed := false
	return NewEffect(rt, func() Cleanup {
		if executed {
			return nil
		}
		executed = true
		fn()
		return nil
	})
}

// Watch builds an effect that evaluates source on every run but only invokes
// callback when the produced value differs from the previous one. prev is
// nil on the first call.
//
// The effect itself still re-runs on any tracked change; Watch filters which
// runs reach the callback.
func Watch[T comparable](rt *Runtime, source func() T, callback func(value T, prev *T)) *Effect {
	var prev *T
	return NewEffect(rt, func() Cleanup {
		value := source()
		if prev != nil && *prev == value {
			return nil
		}
		old := prev
		captured := value
		prev = &captured
		callback(value, old)
		return nil
	})
}

// Notify re-runs the effect. Implements the Subscriber interface.
func (e *Effect) Notify() {
	if e.disposed.Load() {
		return
	}
	e.run()
}

// ID returns the unique identifier for this effect.
// Implements the Subscriber interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// run executes the body with this effect as the current subscriber. The old
// dependency set is dropped first so the set afterwards reflects exactly the
// reads of this run.
func (e *Effect) run() {
	if e.disposed.Load() {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.clearSources()

	e.rt.pushSubscriber(e)
	defer e.rt.popSubscriber()

	e.rt.stats.effectRuns.Add(1)
	e.cleanup = e.fn()
}

// addSource records a cell read during the current run.
// Implements the sourceTracker interface.
func (e *Effect) addSource(source *signalBase) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == source {
			return
		}
	}
	e.sources = append(e.sources, source)
}

// clearSources unsubscribes the effect from everything it read last run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	sources := e.sources
	e.sources = nil
	e.sourcesMu.Unlock()

	for _, source := range sources {
		source.unsubscribe(e)
	}
}

// Dispose runs the pending cleanup, unsubscribes the effect from every
// source, and stops future re-runs. Disposal is explicit: dropping the
// handle alone does not unregister the effect from the signals it read.
// Idempotent.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	if e.cleanup != nil {
		e.cleanup()
		e.cleanup = nil
	}

	e.clearSources()
}

var _ Subscriber = (*Effect)(nil)
var _ sourceTracker = (*Effect)(nil)
