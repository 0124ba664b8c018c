package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectRunsImmediately(t *testing.T) {
	rt := NewRuntime()

	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		return nil
	})

	assert.Equal(t, 1, runs)
}

func TestEffectRerunsOnDependencyChange(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	var seen []int
	NewEffect(rt, func() Cleanup {
		seen = append(seen, count.Get())
		return nil
	})

	count.Set(1)
	count.Set(2)

	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestEffectRerunsSynchronously(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	NewEffect(rt, func() Cleanup {
		count.Get()
		runs++
		return nil
	})

	count.Set(1)
	// Control returns from Set only after the effect completed.
	assert.Equal(t, 2, runs)
}

func TestEffectCleanupRunsBeforeEachRerun(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	var events []string
	NewEffect(rt, func() Cleanup {
		v := count.Get()
		events = append(events, "run")
		return func() {
			_ = v
			events = append(events, "cleanup")
		}
	})
	require.Equal(t, []string{"run"}, events)

	count.Set(1)
	assert.Equal(t, []string{"run", "cleanup", "run"}, events)
}

func TestEffectDispose(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	cleanups := 0
	e := NewEffect(rt, func() Cleanup {
		count.Get()
		runs++
		return func() { cleanups++ }
	})
	require.Equal(t, 1, runs)

	e.Dispose()
	assert.Equal(t, 1, cleanups, "dispose runs the pending cleanup")

	count.Set(1)
	assert.Equal(t, 1, runs, "disposed effect must not re-run")

	e.Dispose()
	assert.Equal(t, 1, cleanups, "dispose is idempotent")
}

func TestEffectDependenciesRefreshEachRun(t *testing.T) {
	rt := NewRuntime()
	useFirst := NewSignal(rt, true)
	first := NewSignal(rt, "a")
	second := NewSignal(rt, "b")

	runs := 0
	NewEffect(rt, func() Cleanup {
		runs++
		if useFirst.Get() {
			first.Get()
		} else {
			second.Get()
		}
		return nil
	})
	require.Equal(t, 1, runs)

	second.Set("x")
	assert.Equal(t, 1, runs, "untaken branch must not be a dependency")

	useFirst.Set(false)
	require.Equal(t, 2, runs)

	first.Set("y")
	assert.Equal(t, 2, runs, "dropped dependency must not trigger")

	second.Set("z")
	assert.Equal(t, 3, runs)
}

func TestEffectOnce(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	EffectOnce(rt, func() {
		count.Get()
		runs++
	})
	require.Equal(t, 1, runs)

	count.Set(1)
	assert.Equal(t, 1, runs)
}

func TestWatchFiresOnFirstRunWithNilPrev(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 5)

	var values []int
	var prevs []*int
	Watch(rt, func() int { return count.Get() }, func(v int, prev *int) {
		values = append(values, v)
		prevs = append(prevs, prev)
	})

	require.Equal(t, []int{5}, values)
	require.Len(t, prevs, 1)
	assert.Nil(t, prevs[0])
}

func TestWatchSkipsEqualValues(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 1)

	calls := 0
	Watch(rt, func() int { return count.Get() }, func(v int, prev *int) {
		calls++
	})
	require.Equal(t, 1, calls)

	count.Set(1)
	assert.Equal(t, 1, calls, "unchanged derived value must not reach the callback")

	count.Set(2)
	require.Equal(t, 2, calls)
}

func TestWatchReportsPreviousValue(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 1)

	var transitions [][2]int
	Watch(rt, func() int { return count.Get() }, func(v int, prev *int) {
		if prev != nil {
			transitions = append(transitions, [2]int{*prev, v})
		}
	})

	count.Set(3)
	count.Set(7)

	assert.Equal(t, [][2]int{{1, 3}, {3, 7}}, transitions)
}

func TestNestedComputationsTrackIndependently(t *testing.T) {
	rt := NewRuntime()
	inner := NewSignal(rt, 1)
	outer := NewSignal(rt, 1)

	m := NewMemo(rt, func() int { return inner.Get() })

	outerRuns := 0
	NewEffect(rt, func() Cleanup {
		outer.Get()
		m.Get()
		outerRuns++
		return nil
	})
	require.Equal(t, 1, outerRuns)

	// inner belongs to the memo, not to the effect directly; the effect
	// re-runs because the memo it depends on was invalidated.
	inner.Set(2)
	assert.Equal(t, 2, outerRuns)

	outer.Set(2)
	assert.Equal(t, 3, outerRuns)
}
