package pulse

import (
	"fmt"
	"reflect"
)

// The context layer is a type-keyed value stack for dependency injection.
// It is independent of the reactive graph: providing or reading a context
// value never creates subscriptions. Lookup walks scopes innermost to
// outermost, so an inner scope shadows an outer one.

// contextKey resolves the reflect key for T, handling interface types.
func contextKey[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ProvideContext inserts value into the innermost context scope, keyed by
// its static type. A later provide of the same type in the same scope
// overwrites the earlier one.
func ProvideContext[T any](rt *Runtime, value T) {
	scope := rt.contexts[len(rt.contexts)-1]
	scope[contextKey[T]()] = value
}

// UseContext looks T up through the scope stack, innermost first. A miss is
// not an error: the second result is false and callers decide how to
// escalate.
func UseContext[T any](rt *Runtime) (T, bool) {
	key := contextKey[T]()
	for i := len(rt.contexts) - 1; i >= 0; i-- {
		if v, ok := rt.contexts[i][key]; ok {
			return v.(T), true
		}
	}
	var zero T
	return zero, false
}

// UseContextOr returns the provided value for T, or fallback on a miss.
func UseContextOr[T any](rt *Runtime, fallback T) T {
	if v, ok := UseContext[T](rt); ok {
		return v
	}
	return fallback
}

// ExpectContext returns the provided value for T or panics with msg.
func ExpectContext[T any](rt *Runtime, msg string) T {
	v, ok := UseContext[T](rt)
	if !ok {
		panic(fmt.Sprintf("pulse: %s (no %v in context)", msg, contextKey[T]()))
	}
	return v
}

// WithContextScope runs fn inside a fresh context scope and returns its
// result. Values provided inside are invisible once fn returns; the scope is
// popped even if fn panics.
func WithContextScope[R any](rt *Runtime, fn func() R) R {
	rt.contexts = append(rt.contexts, make(map[reflect.Type]any))
	defer func() {
		rt.contexts = rt.contexts[:len(rt.contexts)-1]
	}()
	return fn()
}
