// Package pulse provides the fine-grained reactive core for the Pulse framework.
//
// The reactive system tracks dependencies automatically at runtime. Reading a
// signal while a subscriber (an effect, a memo, or a caller-supplied tracker)
// is executing subscribes that subscriber to the signal's changes.
//
// Unlike thread-local designs, the reactive graph is rooted in an explicit
// *Runtime handle. Multiple independent graphs can coexist in one process,
// which keeps tests isolated and allows multi-instance embedding:
//
//	rt := pulse.NewRuntime()
//	count := pulse.NewSignal(rt, 0)
//	value := count.Get()  // Read (subscribes the current subscriber, if any)
//	count.Set(5)          // Write (notifies subscribers synchronously)
//	count.Update(func(n int) int { return n + 1 })
//
// Memo[T] is a cached derived computation, itself observable like a signal:
//
//	doubled := pulse.NewMemo(rt, func() int { return count.Get() * 2 })
//	value := doubled.Get()  // Recomputes only if a dependency changed
//
// Effect runs side effects when dependencies change:
//
//	pulse.NewEffect(rt, func() pulse.Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return nil
//	})
//
// # Batching
//
// Multiple signal updates can be batched to coalesce notifications:
//
//	rt.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	    c.Set(3)
//	})  // Each dependent fires once, after all updates
//
// # Ownership model
//
// A Runtime and the primitives built on it belong to a single goroutine;
// scheduling is cooperative and notification cascades are fully synchronous.
// Signal storage is still lock-protected so that completion callbacks from
// async work (see Action, and the resource package) can safely write values
// from other goroutines, and observers can Peek from anywhere. The tracking
// stack, batching state, and context scopes must only be touched from the
// goroutine that owns the Runtime.
package pulse
