// Package loop provides a single-goroutine serial event loop implementing
// the pulse.Scheduler contract. Hosts that own a reactive graph run one Loop
// and install it on the Runtime, so async completions (resource fetches,
// action results) are applied on the goroutine that owns the graph:
//
//	lp := loop.New()
//	go lp.Run()
//	defer lp.Stop()
//
//	rt := pulse.NewRuntime(pulse.WithScheduler(lp))
package loop

import "sync"

// Loop executes dispatched functions one at a time, in dispatch order, on
// the goroutine that calls Run.
type Loop struct {
	work chan func()

	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// New creates a loop with the given queue capacity (default 64 when size
// is not supplied).
func New(size ...int) *Loop {
	capacity := 64
	if len(size) > 0 && size[0] > 0 {
		capacity = size[0]
	}
	return &Loop{
		work:    make(chan func(), capacity),
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run processes dispatched work until Stop is called. It blocks; call it on
// the goroutine that should own the reactive graph.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.work:
			fn()
		case <-l.stopped:
			// Drain what was queued before the stop.
			for {
				select {
				case fn := <-l.work:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Dispatch queues fn for execution on the loop goroutine. Safe to call from
// any goroutine. Dispatching after Stop drops the work.
func (l *Loop) Dispatch(fn func()) {
	select {
	case <-l.stopped:
	case l.work <- fn:
	}
}

// Stop shuts the loop down after draining already-queued work, and waits for
// Run to return. Idempotent.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.stopped) })
	<-l.done
}

// Sync blocks until every function dispatched before it has executed. Useful
// in tests to wait for async completions to be applied.
func (l *Loop) Sync() {
	ran := make(chan struct{})
	l.Dispatch(func() { close(ran) })
	select {
	case <-ran:
	case <-l.done:
	}
}
