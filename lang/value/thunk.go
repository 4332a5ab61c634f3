package value

import "errors"

// ThunkState is the lazy-forcing state of a Thunk (spec.md §3).
type ThunkState int

const (
	Unforced ThunkState = iota
	Forcing
	Forced
)

// ErrInfiniteRecursion is returned when forcing a thunk that is already
// being forced on the same call path (a self-referential value that never
// bottoms out through a closure boundary).
var ErrInfiniteRecursion = errors.New("infinite recursion detected")

// Thunk is a deferred computation with a memoized outcome, including
// memoized errors: once compute has failed, every subsequent Force returns
// the same error without recomputing.
type Thunk struct {
	state   ThunkState
	value   Value
	err     error
	compute func() (Value, error)
}

// NewThunk wraps compute so it runs at most once, on first Force.
func NewThunk(compute func() (Value, error)) *Thunk {
	return &Thunk{compute: compute}
}

// Ready builds an already-forced thunk around a known value, useful when a
// value is already available and wrapping it in laziness would be pointless
// (e.g. builtin arguments that are forced eagerly by the callee).
func Ready(v Value) *Thunk {
	return &Thunk{state: Forced, value: v}
}

// ReadyErr builds an already-forced thunk that will report err.
func ReadyErr(err error) *Thunk {
	return &Thunk{state: Forced, err: err}
}

// Force evaluates the thunk if necessary and returns its memoized outcome.
func (t *Thunk) Force() (Value, error) {
	switch t.state {
	case Forced:
		return t.value, t.err
	case Forcing:
		return nil, ErrInfiniteRecursion
	}
	t.state = Forcing
	v, err := t.compute()
	t.state = Forced
	t.value, t.err = v, err
	t.compute = nil // release captured environment once resolved
	return v, err
}

// State reports the current forcing state without forcing the thunk.
func (t *Thunk) State() ThunkState { return t.state }
