package pulse

import "golang.org/x/exp/constraints"

// Typed convenience wrappers around Signal[T]. They add nothing to the
// engine; each method is an Update with the obvious transform, so every
// mutation notifies like a plain Set.

// NumericSignal wraps a numeric signal with arithmetic helpers.
type NumericSignal[T constraints.Integer | constraints.Float] struct {
	*Signal[T]
}

// NewNumericSignal creates a numeric signal on rt holding initial.
func NewNumericSignal[T constraints.Integer | constraints.Float](rt *Runtime, initial T) *NumericSignal[T] {
	return &NumericSignal[T]{NewSignal(rt, initial)}
}

// Inc increments the value by 1.
func (s *NumericSignal[T]) Inc() {
	s.Update(func(v T) T { return v + 1 })
}

// Dec decrements the value by 1.
func (s *NumericSignal[T]) Dec() {
	s.Update(func(v T) T { return v - 1 })
}

// Add adds n to the value.
func (s *NumericSignal[T]) Add(n T) {
	s.Update(func(v T) T { return v + n })
}

// BoolSignal wraps Signal[bool] with toggle helpers.
type BoolSignal struct {
	*Signal[bool]
}

// NewBoolSignal creates a bool signal on rt holding initial.
func NewBoolSignal(rt *Runtime, initial bool) *BoolSignal {
	return &BoolSignal{NewSignal(rt, initial)}
}

// Toggle flips the value.
func (s *BoolSignal) Toggle() {
	s.Update(func(v bool) bool { return !v })
}

// SliceSignal wraps Signal[[]T] with common list operations.
type SliceSignal[T any] struct {
	*Signal[[]T]
}

// NewSliceSignal creates a slice signal on rt. A nil initial becomes an empty
// slice.
func NewSliceSignal[T any](rt *Runtime, initial []T) *SliceSignal[T] {
	if initial == nil {
		initial = []T{}
	}
	return &SliceSignal[T]{NewSignal(rt, initial)}
}

// Append adds item to the end.
func (s *SliceSignal[T]) Append(item T) {
	s.Update(func(items []T) []T { return append(items, item) })
}

// RemoveAt removes the item at index. Out-of-bounds indexes are ignored, but
// the write still notifies.
func (s *SliceSignal[T]) RemoveAt(index int) {
	s.Update(func(items []T) []T {
		if index < 0 || index >= len(items) {
			return items
		}
		return append(items[:index:index], items[index+1:]...)
	})
}

// Clear resets to an empty slice.
func (s *SliceSignal[T]) Clear() {
	s.Set([]T{})
}

// Len returns the current length. Tracked.
func (s *SliceSignal[T]) Len() int {
	return With(s.Signal, func(items []T) int { return len(items) })
}

// MapSignal wraps Signal[map[K]V] with keyed operations.
type MapSignal[K comparable, V any] struct {
	*Signal[map[K]V]
}

// NewMapSignal creates a map signal on rt. A nil initial becomes an empty map.
func NewMapSignal[K comparable, V any](rt *Runtime, initial map[K]V) *MapSignal[K, V] {
	if initial == nil {
		initial = map[K]V{}
	}
	return &MapSignal[K, V]{NewSignal(rt, initial)}
}

// SetKey stores value under key. The map is copied so prior readers keep
// their snapshot.
func (s *MapSignal[K, V]) SetKey(key K, value V) {
	s.Update(func(m map[K]V) map[K]V {
		next := make(map[K]V, len(m)+1)
		for k, v := range m {
			next[k] = v
		}
		next[key] = value
		return next
	})
}

// DeleteKey removes key. Copies like SetKey.
func (s *MapSignal[K, V]) DeleteKey(key K) {
	s.Update(func(m map[K]V) map[K]V {
		next := make(map[K]V, len(m))
		for k, v := range m {
			if k != key {
				next[k] = v
			}
		}
		return next
	})
}

// Key returns the value under key and whether it exists. Tracked.
func (s *MapSignal[K, V]) Key(key K) (V, bool) {
	type lookup struct {
		v  V
		ok bool
	}
	r := With(s.Signal, func(m map[K]V) lookup {
		v, ok := m[key]
		return lookup{v, ok}
	})
	return r.v, r.ok
}
