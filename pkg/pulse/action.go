package pulse

import (
	"context"
	"sync"
	"sync/atomic"
)

// Action is an explicitly dispatched async mutation with per-submission
// pending/value/error tracking. Unlike a resource, an action never runs on
// its own; each call to Dispatch starts one submission.
//
// Racing dispatches have last-dispatch-wins semantics: every dispatch bumps
// a version counter and captures it as its submission id, and a completing
// submission applies its result only if no newer dispatch has superseded it.
// This is logical cancellation — late results are dropped, the in-flight
// work itself is not aborted unless WithCancelPrevious is set.
//
//	save := pulse.NewAction(rt, func(ctx context.Context, p Profile) (Profile, error) {
//	    return api.SaveProfile(ctx, p)
//	})
//	save.Dispatch(profile)
type Action[I, O any] struct {
	rt *Runtime

	// fn is the async work function.
	fn func(context.Context, I) (O, error)

	// value holds the result of the last winning successful submission.
	value *Signal[*O]

	// input holds the most recently dispatched input.
	input *Signal[*I]

	// err holds the error of the last winning failed submission.
	err *Signal[error]

	// pending is true from dispatch until the winning submission settles.
	pending *Signal[bool]

	// version is the submission counter for stale-result suppression.
	version atomic.Uint64

	// base is the parent context handed to the work function.
	base context.Context

	// cancelPrev aborts the previous in-flight context on re-dispatch.
	cancelPrev bool
	cancel     context.CancelFunc
	cancelMu   sync.Mutex

	onStart   func()
	onSuccess func(O)
	onError   func(error)
}

// NewAction creates an action on rt with the given work function. Nothing
// runs until Dispatch.
//
// Options:
//   - WithContext(ctx) - parent context for the work function
//   - WithCancelPrevious() - cancel the prior in-flight context on Dispatch
//   - OnActionStart(fn) / OnActionSuccess(fn) / OnActionError(fn)
func NewAction[I, O any](rt *Runtime, fn func(context.Context, I) (O, error), opts ...ActionOption[I, O]) *Action[I, O] {
	a := &Action[I, O]{
		rt:      rt,
		fn:      fn,
		value:   NewSignal[*O](rt, nil),
		input:   NewSignal[*I](rt, nil),
		err:     NewSignal[error](rt, nil),
		pending: NewSignal(rt, false),
		base:    context.Background(),
	}
	for _, opt := range opts {
		opt.applyAction(a)
	}
	return a
}

// Dispatch starts a submission with the given input. It returns the
// submission id (the version captured for this dispatch) immediately; the
// work function runs on its own goroutine and its result is routed back
// through the Runtime's scheduler.
//
// A submission whose id no longer matches the action's version when it
// completes is discarded silently: no signal is updated.
func (a *Action[I, O]) Dispatch(input I) uint64 {
	seq := a.version.Add(1)
	a.rt.stats.actionDispatches.Add(1)

	ctx := a.base
	if a.cancelPrev {
		a.cancelMu.Lock()
		if a.cancel != nil {
			a.cancel()
		}
		ctx, a.cancel = context.WithCancel(a.base)
		a.cancelMu.Unlock()
	}

	in := input
	a.pending.Set(true)
	a.input.Set(&in)
	a.err.Set(nil)
	if a.onStart != nil {
		a.onStart()
	}

	go func() {
		result, err := a.fn(ctx, input)
		if ctx.Err() != nil {
			return
		}

		a.rt.Dispatch(func() {
			if a.version.Load() != seq {
				a.rt.stats.staleDrops.Add(1)
				return
			}

			if err != nil {
				a.err.Set(err)
				if a.onError != nil {
					a.onError(err)
				}
			} else {
				out := result
				a.value.Set(&out)
				if a.onSuccess != nil {
					a.onSuccess(result)
				}
			}
			a.pending.Set(false)
		})
	}()

	return seq
}

// Value returns the last successful result and true, or the zero value and
// false if no submission has succeeded yet (or after Clear). Tracked.
func (a *Action[I, O]) Value() (O, bool) {
	if v := a.value.Get(); v != nil {
		return *v, true
	}
	var zero O
	return zero, false
}

// Input returns the most recently dispatched input, if any. Tracked.
func (a *Action[I, O]) Input() (I, bool) {
	if v := a.input.Get(); v != nil {
		return *v, true
	}
	var zero I
	return zero, false
}

// Err returns the error of the last failed submission, or nil. Tracked.
func (a *Action[I, O]) Err() error {
	return a.err.Get()
}

// Pending reports whether a submission is in flight. Tracked.
func (a *Action[I, O]) Pending() bool {
	return a.pending.Get()
}

// PendingSignal exposes the pending cell for direct binding.
func (a *Action[I, O]) PendingSignal() *Signal[bool] {
	return a.pending
}

// Version returns the submission counter.
func (a *Action[I, O]) Version() uint64 {
	return a.version.Load()
}

// Clear resets value and error to empty. Pending state and the version
// counter are untouched, so an in-flight submission still applies.
func (a *Action[I, O]) Clear() {
	a.value.Set(nil)
	a.err.Set(nil)
}
