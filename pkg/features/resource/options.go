package resource

import (
	"context"
	"time"

	"github.com/pulse-dev/pulse/pkg/pulse"
)

// StaleTime sets how long Ready data satisfies Fetch without hitting the
// fetcher again. Zero (the default) means every Fetch refetches.
func (r *Resource[T, S]) StaleTime(d time.Duration) *Resource[T, S] {
	r.staleTime = d
	return r
}

// RetryOnError retries a failing fetch up to count more times, sleeping delay
// between attempts. A superseding Refetch cancels the remaining attempts.
func (r *Resource[T, S]) RetryOnError(count int, delay time.Duration) *Resource[T, S] {
	r.retryCount = count
	r.retryDelay = delay
	return r
}

// OnSuccess registers a callback invoked after each Ready transition.
func (r *Resource[T, S]) OnSuccess(fn func(T)) *Resource[T, S] {
	r.onSuccess = fn
	return r
}

// OnError registers a callback invoked after each Error transition.
func (r *Resource[T, S]) OnError(fn func(error)) *Resource[T, S] {
	r.onError = fn
	return r
}

// WithContext sets the base context handed to the fetcher. Defaults to
// context.Background.
func (r *Resource[T, S]) WithContext(ctx context.Context) *Resource[T, S] {
	r.base = ctx
	return r
}

// AutoRefetch installs an effect that refetches whenever the source value
// changes. The effect reads the source tracked; the initial run does not
// fetch (pair with Eager for fetch-on-create).
func (r *Resource[T, S]) AutoRefetch() *Resource[T, S] {
	if r.watch != nil {
		return r
	}
	var prev *S
	r.watch = pulse.NewEffect(r.rt, func() pulse.Cleanup {
		cur := r.source()
		if prev != nil && *prev != cur {
			r.Refetch()
		}
		v := cur
		prev = &v
		return nil
	})
	return r
}

// Eager starts the first fetch immediately.
func (r *Resource[T, S]) Eager() *Resource[T, S] {
	r.Refetch()
	return r
}
