package resource

import (
	"context"
	"sync"
	"time"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// Resource manages one asynchronously fetched value. The source closure
// declares what the fetch depends on: Refetch captures its current value and
// hands it to the fetcher, and AutoRefetch re-fetches whenever it changes.
//
// The engine does not schedule the async work itself beyond spawning the
// fetcher goroutine; completions are routed through the Runtime's scheduler
// so hosts with an event loop apply them on the owning goroutine.
type Resource[T any, S comparable] struct {
	rt      *pulse.Runtime
	source  func() S
	fetcher func(context.Context, S) (T, error)
	state   *pulse.Signal[State[T]]

	// Options
	staleTime  time.Duration
	retryCount int
	retryDelay time.Duration
	onSuccess  func(T)
	onError    func(error)
	base       context.Context

	// watch drives AutoRefetch, nil otherwise.
	watch *pulse.Effect

	// fetchID guards against outdated fetches applying their result.
	fetchID   uint64
	lastFetch time.Time
	mu        sync.Mutex
}

// New creates a resource in the Idle state. Nothing is fetched until Fetch,
// Refetch, or the Eager option.
func New[T any, S comparable](rt *pulse.Runtime, source func() S, fetcher func(context.Context, S) (T, error)) *Resource[T, S] {
	return &Resource[T, S]{
		rt:      rt,
		source:  source,
		fetcher: fetcher,
		state:   pulse.NewSignal(rt, State[T]{Kind: Idle}),
		base:    context.Background(),
	}
}

// Once creates a resource with no source; the fetcher takes only a context.
func Once[T any](rt *pulse.Runtime, fetcher func(context.Context) (T, error)) *Resource[T, struct{}] {
	return New(rt,
		func() struct{} { return struct{}{} },
		func(ctx context.Context, _ struct{}) (T, error) { return fetcher(ctx) },
	)
}

// State returns the current state. Tracked.
func (r *Resource[T, S]) State() State[T] {
	return r.state.Get()
}

// Signal exposes the underlying state cell for direct subscription.
func (r *Resource[T, S]) Signal() *pulse.Signal[State[T]] {
	return r.state
}

// Get returns the value and true only when the resource is Ready. Tracked.
func (r *Resource[T, S]) Get() (T, bool) {
	return r.state.Get().Get()
}

// Loading reports whether a fetch is in progress. Tracked.
func (r *Resource[T, S]) Loading() bool {
	return r.state.Get().Kind == Loading
}

// Err returns the fetch error in the Error state, nil otherwise. Tracked.
func (r *Resource[T, S]) Err() error {
	return r.state.Get().Err
}

// Fetch triggers a fetch unless Ready data is younger than StaleTime.
// Use Refetch to bypass the staleness check.
func (r *Resource[T, S]) Fetch() {
	r.mu.Lock()
	fresh := r.state.Peek().Kind == Ready && time.Since(r.lastFetch) < r.staleTime
	r.mu.Unlock()
	if fresh {
		return
	}
	r.Refetch()
}

// Refetch captures the current source value, transitions to Loading
// synchronously, and starts the fetcher. When the fetch settles the state
// becomes Ready or Error — unless a newer Refetch superseded it, in which
// case the result is dropped (last-write-wins).
func (r *Resource[T, S]) Refetch() {
	// The source read belongs to the fetch, not to whoever happened to
	// call Refetch inside a tracked computation.
	src := pulse.Untrack(r.rt, r.source)

	r.mu.Lock()
	r.fetchID++
	id := r.fetchID
	r.mu.Unlock()

	r.state.Set(State[T]{Kind: Loading})

	go r.fetch(id, src)
}

func (r *Resource[T, S]) fetch(id uint64, src S) {
	var result T
	var err error

	attempts := 1 + r.retryCount
	for i := 0; i < attempts; i++ {
		if i > 0 {
			time.Sleep(r.retryDelay)
		}
		if r.superseded(id) {
			return
		}
		result, err = r.fetcher(r.base, src)
		if err == nil {
			break
		}
	}

	r.rt.Dispatch(func() {
		r.mu.Lock()
		if r.fetchID != id {
			r.mu.Unlock()
			return
		}
		r.lastFetch = time.Now()
		r.mu.Unlock()

		if err != nil {
			r.state.Set(State[T]{Kind: Error, Err: err})
			if r.onError != nil {
				r.onError(err)
			}
			return
		}
		r.state.Set(State[T]{Kind: Ready, Value: result})
		if r.onSuccess != nil {
			r.onSuccess(result)
		}
	})
}

func (r *Resource[T, S]) superseded(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fetchID != id
}

// Mutate applies an optimistic local edit to a Ready value, bypassing the
// fetcher. No-op in any other state.
func (r *Resource[T, S]) Mutate(fn func(T) T) {
	st := r.state.Peek()
	if st.Kind != Ready {
		return
	}
	r.state.Set(State[T]{Kind: Ready, Value: fn(st.Value)})
}

// Invalidate marks Ready data stale so the next Fetch bypasses StaleTime.
func (r *Resource[T, S]) Invalidate() {
	r.mu.Lock()
	r.lastFetch = time.Time{}
	r.mu.Unlock()
}

// Dispose stops the AutoRefetch watcher, if any. In-flight fetches still
// settle but their results are dropped.
func (r *Resource[T, S]) Dispose() {
	r.mu.Lock()
	r.fetchID++
	r.mu.Unlock()
	if r.watch != nil {
		r.watch.Dispose()
	}
}
