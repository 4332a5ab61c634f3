// Package manifest converts fully-forced Jsonnet values into JSON,
// YAML, TOML, INI, Python, and XML-JSONML text (spec.md §4.6).
//
// Grounded on nenuphar's approach of small format-specific renderers
// operating over a shared value model; adapted from nenuphar's own
// (JSON-like) config value tree to Jsonnet's object layer stack, which is
// why every renderer here goes through a FieldAccessor rather than reading
// struct fields directly: object field resolution (visibility, assertions,
// plus-chains) is evaluator behavior (lang/eval), and manifest must not
// import eval (eval already imports manifest, for `+`'s string coercion),
// so the dependency is inverted via this small interface.
package manifest

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// FieldAccessor is the minimal read surface a manifester needs on a fully
// evaluated object: sorted visible field names, and forcing one field to
// its value. lang/eval.Evaluator implements this.
type FieldAccessor interface {
	VisibleFields(o *value.Object) []string
	GetField(o *value.Object, name string) (value.Value, error)
}

// Error is returned for a value that cannot be manifested in the requested
// format (spec.md §7 error kind 10).
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}
