package pulse

import (
	"context"
	"sync/atomic"
)

// Submission is one dispatched unit of work in a MultiAction, with its own
// value/pending/error cells.
type Submission[I, O any] struct {
	// Input is the argument this submission was dispatched with.
	Input I

	id      uint64
	value   *Signal[*O]
	pending *Signal[bool]
	err     *Signal[error]
}

// Value returns the submission's result and true once it has succeeded.
// Tracked.
func (s *Submission[I, O]) Value() (O, bool) {
	if v := s.value.Get(); v != nil {
		return *v, true
	}
	var zero O
	return zero, false
}

// Pending reports whether the submission is still in flight. Tracked.
func (s *Submission[I, O]) Pending() bool {
	return s.pending.Get()
}

// Err returns the submission's error, or nil. Tracked.
func (s *Submission[I, O]) Err() error {
	return s.err.Get()
}

// MultiAction is an action that tracks each submission separately instead of
// collapsing them into last-dispatch-wins. Use it for optimistic lists: every
// Dispatch appends a Submission whose pending/value/error settle
// independently.
type MultiAction[I, O any] struct {
	rt *Runtime

	fn func(context.Context, I) (O, error)

	// submissions holds every dispatch not yet cleared, in dispatch order.
	submissions *Signal[[]*Submission[I, O]]

	counter atomic.Uint64

	base context.Context
}

// NewMultiAction creates a multi-action on rt. Nothing runs until Dispatch.
func NewMultiAction[I, O any](rt *Runtime, fn func(context.Context, I) (O, error)) *MultiAction[I, O] {
	return &MultiAction[I, O]{
		rt:          rt,
		fn:          fn,
		submissions: NewSignal(rt, []*Submission[I, O]{}),
		base:        context.Background(),
	}
}

// Dispatch starts a new submission and returns it. The submission is already
// appended to Submissions when Dispatch returns.
func (m *MultiAction[I, O]) Dispatch(input I) *Submission[I, O] {
	m.rt.stats.actionDispatches.Add(1)

	sub := &Submission[I, O]{
		Input:   input,
		id:      m.counter.Add(1),
		value:   NewSignal[*O](m.rt, nil),
		pending: NewSignal(m.rt, true),
		err:     NewSignal[error](m.rt, nil),
	}

	m.submissions.Update(func(subs []*Submission[I, O]) []*Submission[I, O] {
		return append(subs, sub)
	})

	go func() {
		result, err := m.fn(m.base, input)

		m.rt.Dispatch(func() {
			if err != nil {
				sub.err.Set(err)
			} else {
				out := result
				sub.value.Set(&out)
			}
			sub.pending.Set(false)
		})
	}()

	return sub
}

// Submissions returns every submission not yet cleared, in dispatch order.
// Tracked.
func (m *MultiAction[I, O]) Submissions() []*Submission[I, O] {
	return m.submissions.Get()
}

// Pending returns the submissions still in flight. Tracked.
func (m *MultiAction[I, O]) Pending() []*Submission[I, O] {
	var pending []*Submission[I, O]
	for _, s := range m.submissions.Get() {
		if s.pending.Peek() {
			pending = append(pending, s)
		}
	}
	return pending
}

// Clear drops settled submissions, keeping those still in flight.
func (m *MultiAction[I, O]) Clear() {
	m.submissions.Update(func(subs []*Submission[I, O]) []*Submission[I, O] {
		kept := subs[:0:0]
		for _, s := range subs {
			if s.pending.Peek() {
				kept = append(kept, s)
			}
		}
		return kept
	})
}
