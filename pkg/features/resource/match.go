package resource

// Handler maps one resource state to a result in a Match call. Construct
// handlers with OnIdle, OnLoading, OnReady and OnError; the type parameters
// must be spelled out on the value-less constructors.
type Handler[T, R any] struct {
	kind Kind
	fn   func(State[T]) R
}

// OnIdle handles the Idle state.
func OnIdle[T, R any](fn func() R) Handler[T, R] {
	return Handler[T, R]{kind: Idle, fn: func(State[T]) R { return fn() }}
}

// OnLoading handles the Loading state.
func OnLoading[T, R any](fn func() R) Handler[T, R] {
	return Handler[T, R]{kind: Loading, fn: func(State[T]) R { return fn() }}
}

// OnReady handles the Ready state with the loaded value.
func OnReady[T, R any](fn func(T) R) Handler[T, R] {
	return Handler[T, R]{kind: Ready, fn: func(s State[T]) R { return fn(s.Value) }}
}

// OnError handles the Error state with the fetch error.
func OnError[T, R any](fn func(error) R) Handler[T, R] {
	return Handler[T, R]{kind: Error, fn: func(s State[T]) R { return fn(s.Err) }}
}

// Match reads the resource state (tracked) and applies the handler matching
// its kind. States with no handler yield R's zero value, so callers list only
// the cases they render.
func Match[T any, S comparable, R any](r *Resource[T, S], handlers ...Handler[T, R]) R {
	st := r.State()
	for _, h := range handlers {
		if h.kind == st.Kind {
			return h.fn(st)
		}
	}
	var zero R
	return zero
}

// MatchState is Match for a raw State value, useful when the state was read
// elsewhere (for example inside a memo that owns the tracking).
func MatchState[T, R any](st State[T], handlers ...Handler[T, R]) R {
	for _, h := range handlers {
		if h.kind == st.Kind {
			return h.fn(st)
		}
	}
	var zero R
	return zero
}
