package resource

// Kind identifies a resource lifecycle phase.
type Kind int

const (
	Idle    Kind = iota // Before the first fetch
	Loading             // Fetch in progress
	Ready               // Data loaded
	Error               // Fetch failed
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// State is the sum type a resource's signal holds: exactly one of the four
// kinds, with Value populated in Ready and Err populated in Error.
type State[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// IsLoading reports whether the state is Loading.
func (s State[T]) IsLoading() bool {
	return s.Kind == Loading
}

// IsReady reports whether the state is Ready.
func (s State[T]) IsReady() bool {
	return s.Kind == Ready
}

// IsError reports whether the state is Error.
func (s State[T]) IsError() bool {
	return s.Kind == Error
}

// Get returns the value and true only in Ready.
func (s State[T]) Get() (T, bool) {
	if s.Kind == Ready {
		return s.Value, true
	}
	var zero T
	return zero, false
}
