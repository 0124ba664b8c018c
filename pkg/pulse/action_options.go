package pulse

import "context"

// ActionOption configures an Action at construction time.
type ActionOption[I, O any] interface {
	applyAction(*Action[I, O])
}

type actionOptionFunc[I, O any] func(*Action[I, O])

func (f actionOptionFunc[I, O]) applyAction(a *Action[I, O]) { f(a) }

// WithContext sets the parent context handed to the work function on each
// dispatch. Defaults to context.Background().
func WithContext[I, O any](ctx context.Context) ActionOption[I, O] {
	return actionOptionFunc[I, O](func(a *Action[I, O]) {
		a.base = ctx
	})
}

// WithCancelPrevious layers physical cancellation on top of the built-in
// stale-result suppression: each Dispatch cancels the context of the prior
// in-flight submission.
func WithCancelPrevious[I, O any]() ActionOption[I, O] {
	return actionOptionFunc[I, O](func(a *Action[I, O]) {
		a.cancelPrev = true
	})
}

// OnActionStart registers a callback invoked synchronously on each Dispatch,
// after the pending/input signals are set.
func OnActionStart[I, O any](fn func()) ActionOption[I, O] {
	return actionOptionFunc[I, O](func(a *Action[I, O]) {
		a.onStart = fn
	})
}

// OnActionSuccess registers a callback invoked with the result of each
// winning successful submission.
func OnActionSuccess[I, O any](fn func(O)) ActionOption[I, O] {
	return actionOptionFunc[I, O](func(a *Action[I, O]) {
		a.onSuccess = fn
	})
}

// OnActionError registers a callback invoked with the error of each winning
// failed submission.
func OnActionError[I, O any](fn func(error)) ActionOption[I, O] {
	return actionOptionFunc[I, O](func(a *Action[I, O]) {
		a.onError = fn
	})
}
