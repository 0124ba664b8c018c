package pulse

import "sync/atomic"

// Scope groups effects and cleanup callbacks for collective disposal.
// Scopes form a hierarchy: disposing a scope disposes its children (last
// created first), then its effects, then runs registered cleanups in reverse
// order. A host embedding the engine gives each unit of UI (or any other
// lifetime) its own scope so teardown is explicit and total.
type Scope struct {
	id uint64
	rt *Runtime

	parent   *Scope
	children []*Scope

	effects  []*Effect
	cleanups []func()

	disposed atomic.Bool
}

// NewScope creates a scope on rt. parent may be nil for a root scope.
func NewScope(rt *Runtime, parent *Scope) *Scope {
	s := &Scope{
		id:     rt.nextID(),
		rt:     rt,
		parent: parent,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Run executes fn with this scope active: effects created inside register
// with it. The previous scope is restored afterwards, also on panic.
func (s *Scope) Run(fn func()) {
	old := s.rt.scope
	s.rt.scope = s
	defer func() { s.rt.scope = old }()
	fn()
}

// OnCleanup registers fn to run when the scope is disposed. If the scope is
// already disposed, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
}

// registerEffect ties an effect's lifetime to this scope.
func (s *Scope) registerEffect(e *Effect) {
	if s.disposed.Load() {
		return
	}
	s.effects = append(s.effects, e)
}

// IsDisposed reports whether Dispose has run.
func (s *Scope) IsDisposed() bool {
	return s.disposed.Load()
}

// Dispose tears the scope down: children in reverse creation order, then
// effects, then cleanups in reverse registration order. After disposal no
// subscriber owned by the scope remains registered on any signal. Idempotent.
func (s *Scope) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	children := s.children
	s.children = nil
	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	effects := s.effects
	s.effects = nil
	for _, e := range effects {
		e.Dispose()
	}

	cleanups := s.cleanups
	s.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}

func (s *Scope) removeChild(child *Scope) {
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}
