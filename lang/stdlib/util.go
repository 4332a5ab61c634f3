// Package stdlib builds the `std` object injected into every evaluation:
// a native Go layer implementing the hard-contract builtins (spec.md §4.5),
// composed underneath a Jsonnet-sourced layer (std.jsonnet, embedded via
// go:embed) implementing the derived array/object combinators in terms of
// the native ones — mirroring how rsjsonnet-lang's program/stdlib.rs splits
// the standard library between a native runtime surface and a bundled
// Jsonnet source file.
package stdlib

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// Error is returned by a builtin for a bad argument or unsupported
// operation; the caller (lang/eval) does not currently decorate builtin
// errors with a call-site span, so the message alone must be informative.
type Error struct{ Msg string }

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

func forceString(t *value.Thunk, who string) (value.String, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}
	s, ok := v.(value.String)
	if !ok {
		return nil, errf("%s: expected string, got %s", who, v.Kind())
	}
	return s, nil
}

func forceNumber(t *value.Thunk, who string) (float64, error) {
	v, err := t.Force()
	if err != nil {
		return 0, err
	}
	n, ok := v.(value.Number)
	if !ok {
		return 0, errf("%s: expected number, got %s", who, v.Kind())
	}
	return float64(n), nil
}

func forceBool(t *value.Thunk, who string) (value.Bool, error) {
	v, err := t.Force()
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, errf("%s: expected boolean, got %s", who, v.Kind())
	}
	return b, nil
}

func forceArray(t *value.Thunk, who string) (value.Array, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}
	a, ok := v.(value.Array)
	if !ok {
		return nil, errf("%s: expected array, got %s", who, v.Kind())
	}
	return a, nil
}

func forceObject(t *value.Thunk, who string) (*value.Object, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}
	o, ok := v.(*value.Object)
	if !ok {
		return nil, errf("%s: expected object, got %s", who, v.Kind())
	}
	return o, nil
}

func forceInt(t *value.Thunk, who string) (int, error) {
	n, err := forceNumber(t, who)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// forceStrings forces every element of an array to a string, for
// builtins that require homogeneous string elements.
func forceStrings(arr value.Array, who string) ([]string, error) {
	out := make([]string, len(arr))
	for i, t := range arr {
		s, err := forceString(t, who)
		if err != nil {
			return nil, err
		}
		out[i] = s.Go()
	}
	return out, nil
}
