package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCoalescesNotifications(t *testing.T) {
	rt := NewRuntime()
	first := NewSignal(rt, "")
	last := NewSignal(rt, "")

	var renders []string
	NewEffect(rt, func() Cleanup {
		renders = append(renders, first.Get()+" "+last.Get())
		return nil
	})
	require.Len(t, renders, 1)

	rt.Batch(func() {
		first.Set("Ada")
		last.Set("Lovelace")
		assert.Len(t, renders, 1, "no notification inside the batch")
	})

	require.Len(t, renders, 2)
	assert.Equal(t, "Ada Lovelace", renders[1], "the flush observes all writes")
}

func TestBatchDedupsBySubscriber(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	NewEffect(rt, func() Cleanup {
		count.Get()
		runs++
		return nil
	})
	require.Equal(t, 1, runs)

	rt.Batch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})

	assert.Equal(t, 2, runs, "three writes to one dependency fire the effect once")
	assert.Equal(t, 3, count.Get())
}

func TestBatchFlushOrderIsFirstQueued(t *testing.T) {
	rt := NewRuntime()
	a := NewSignal(rt, 0)
	b := NewSignal(rt, 0)

	var order []string
	NewEffect(rt, func() Cleanup {
		a.Get()
		order = append(order, "a-effect")
		return nil
	})
	NewEffect(rt, func() Cleanup {
		b.Get()
		order = append(order, "b-effect")
		return nil
	})

	order = nil
	rt.Batch(func() {
		// b written first, so its dependent flushes first.
		b.Set(1)
		a.Set(1)
	})

	assert.Equal(t, []string{"b-effect", "a-effect"}, order)
}

func TestNestedBatchFlushesOnlyAtOutermostEnd(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	NewEffect(rt, func() Cleanup {
		count.Get()
		runs++
		return nil
	})
	require.Equal(t, 1, runs)

	rt.Batch(func() {
		count.Set(1)
		rt.Batch(func() {
			count.Set(2)
		})
		assert.Equal(t, 1, runs, "inner batch end must not flush")
		count.Set(3)
	})

	assert.Equal(t, 2, runs)
}

func TestBatchReturnValueViaClosure(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 1)

	var result int
	rt.Batch(func() {
		count.Set(10)
		result = count.Get()
	})

	assert.Equal(t, 10, result, "reads inside a batch see writes immediately")
}

func TestUntrackSuppressesDependency(t *testing.T) {
	rt := NewRuntime()
	tracked := NewSignal(rt, 1)
	untracked := NewSignal(rt, 1)

	runs := 0
	var sum int
	NewEffect(rt, func() Cleanup {
		runs++
		sum = tracked.Get() + Untrack(rt, untracked.Get)
		return nil
	})
	require.Equal(t, 1, runs)
	require.Equal(t, 2, sum)

	untracked.Set(100)
	assert.Equal(t, 1, runs, "untracked read must not re-run the effect")

	tracked.Set(2)
	assert.Equal(t, 2, runs)
	assert.Equal(t, 102, sum, "re-run still reads the current untracked value")
}

func TestUntrackRestoresTrackingAfterward(t *testing.T) {
	rt := NewRuntime()
	before := NewSignal(rt, 1)
	inside := NewSignal(rt, 1)
	after := NewSignal(rt, 1)

	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		before.Get()
		rt.Untracked(func() { inside.Get() })
		after.Get()
		return nil
	})
	require.Equal(t, 1, runs)

	after.Set(2)
	assert.Equal(t, 2, runs, "reads after Untrack are tracked again")
}

func TestUntrackOutsideComputationIsHarmless(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 5)

	v := Untrack(rt, s.Get)
	assert.Equal(t, 5, v)
}

func TestUntrackRestoresOnPanic(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 1)

	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		s.Get()
		if runs == 1 {
			func() {
				defer func() { _ = recover() }()
				Untrack(rt, func() struct{} { panic("boom") })
			}()
		}
		return nil
	})
	require.Equal(t, 1, runs)

	s.Set(2)
	assert.Equal(t, 2, runs, "tracking must survive a panic inside Untrack")
}

// recordingSubscriber is an external consumer, the kind a view layer supplies.
type recordingSubscriber struct {
	id      uint64
	notifys int
}

func (r *recordingSubscriber) Notify()    { r.notifys++ }
func (r *recordingSubscriber) ID() uint64 { return r.id }

func TestWithSubscriberTracksExternalConsumer(t *testing.T) {
	rt := NewRuntime()
	title := NewSignal(rt, "home")

	sub := &recordingSubscriber{id: 1 << 62}
	WithSubscriber(rt, sub, func() {
		title.Get()
	})

	title.Set("settings")
	assert.Equal(t, 1, sub.notifys)
}

func TestWithSubscriberRestoresStackOnPanic(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 1)
	sub := &recordingSubscriber{id: 1 << 62}

	func() {
		defer func() { _ = recover() }()
		WithSubscriber(rt, sub, func() { panic("render failed") })
	}()

	// A read with no active subscriber must not subscribe anything.
	v := s.Get()
	assert.Equal(t, 1, v)
	s.Set(2)
	assert.Equal(t, 0, sub.notifys)
}

func TestStatsCounters(t *testing.T) {
	rt := NewRuntime()
	s := NewSignal(rt, 0)
	m := NewMemo(rt, func() int { return s.Get() })

	NewEffect(rt, func() Cleanup {
		m.Get()
		return nil
	})

	s.Set(1)
	rt.Batch(func() {
		s.Set(2)
		s.Set(3)
	})

	stats := rt.Stats()
	assert.Equal(t, uint64(3), stats.IDsIssued)
	assert.Equal(t, uint64(3), stats.EffectRuns)
	assert.Equal(t, uint64(3), stats.MemoRecomputes)
	assert.Equal(t, uint64(1), stats.BatchFlushes)
	assert.NotZero(t, stats.SignalNotifies)
}
