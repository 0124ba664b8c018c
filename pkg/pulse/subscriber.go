package pulse

// Subscriber is anything that can be notified when a dependency changes.
// This interface is implemented by memos and effects; external consumers
// (such as a view layer) can implement it to be re-invoked when the signals
// they read during WithSubscriber change.
type Subscriber interface {
	// Notify tells the subscriber that one of its dependencies has changed.
	// For memos, this invalidates the cached value.
	// For effects, this re-runs the effect body.
	Notify()

	// ID returns a unique identifier for this subscriber.
	// Used for deduplication in subscriber sets and batch queues.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// sourceTracker is implemented by subscribers that record which signals they
// subscribed to during a run, so stale subscriptions can be dropped before
// the next run.
type sourceTracker interface {
	addSource(*signalBase)
}
