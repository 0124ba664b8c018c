package pulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeDisposesEffects(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	scope := NewScope(rt, nil)
	scope.Run(func() {
		NewEffect(rt, func() Cleanup {
			count.Get()
			runs++
			return nil
		})
	})
	require.Equal(t, 1, runs)

	count.Set(1)
	require.Equal(t, 2, runs)

	scope.Dispose()
	count.Set(2)
	assert.Equal(t, 2, runs, "effects die with their scope")
}

func TestScopeRunRestoresPreviousScope(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	outer := NewScope(rt, nil)
	inner := NewScope(rt, outer)

	runs := 0
	outer.Run(func() {
		inner.Run(func() {
			NewEffect(rt, func() Cleanup {
				count.Get()
				runs++
				return nil
			})
		})
		// Back in the outer scope.
		NewEffect(rt, func() Cleanup {
			count.Get()
			runs++
			return nil
		})
	})
	require.Equal(t, 2, runs)

	// Disposing only the inner scope kills only its effect.
	inner.Dispose()
	count.Set(1)
	assert.Equal(t, 3, runs)
}

func TestScopeDisposesChildrenReverseOrder(t *testing.T) {
	rt := NewRuntime()

	var order []string
	parent := NewScope(rt, nil)
	first := NewScope(rt, parent)
	second := NewScope(rt, parent)

	first.OnCleanup(func() { order = append(order, "first") })
	second.OnCleanup(func() { order = append(order, "second") })
	parent.OnCleanup(func() { order = append(order, "parent") })

	parent.Dispose()

	assert.Equal(t, []string{"second", "first", "parent"}, order)
	assert.True(t, first.IsDisposed())
	assert.True(t, second.IsDisposed())
}

func TestScopeCleanupsRunInReverse(t *testing.T) {
	rt := NewRuntime()
	scope := NewScope(rt, nil)

	var order []int
	scope.OnCleanup(func() { order = append(order, 1) })
	scope.OnCleanup(func() { order = append(order, 2) })
	scope.OnCleanup(func() { order = append(order, 3) })

	scope.Dispose()
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestScopeOnCleanupAfterDisposeRunsImmediately(t *testing.T) {
	rt := NewRuntime()
	scope := NewScope(rt, nil)
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })
	assert.True(t, ran)
}

func TestScopeDisposeIsIdempotent(t *testing.T) {
	rt := NewRuntime()
	scope := NewScope(rt, nil)

	count := 0
	scope.OnCleanup(func() { count++ })

	scope.Dispose()
	scope.Dispose()
	assert.Equal(t, 1, count)
}

func TestDisposedChildDetachesFromParent(t *testing.T) {
	rt := NewRuntime()
	parent := NewScope(rt, nil)
	child := NewScope(rt, parent)

	childCleanups := 0
	child.OnCleanup(func() { childCleanups++ })

	child.Dispose()
	require.Equal(t, 1, childCleanups)

	parent.Dispose()
	assert.Equal(t, 1, childCleanups, "parent disposal must not re-dispose a detached child")
}

func TestEffectOutsideScopeIsUnmanaged(t *testing.T) {
	rt := NewRuntime()
	count := NewSignal(rt, 0)

	runs := 0
	NewEffect(rt, func() Cleanup {
		count.Get()
		runs++
		return nil
	})

	scope := NewScope(rt, nil)
	scope.Dispose()

	count.Set(1)
	assert.Equal(t, 2, runs, "effects created outside any scope outlive scope disposal")
}
