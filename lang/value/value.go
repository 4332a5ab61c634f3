// Package value defines the runtime value model: the sum type of Jsonnet
// values, the lazy Thunk state machine, the slot-indexed lexical
// environment, and the object layer-stack structure. It holds data only —
// the evaluation semantics that produce and combine these values (field
// access, operators, equality, calls) live in lang/eval.
//
// Grounded on nenuphar's approach of a small closed value interface with
// one concrete type per kind (see nenuphar's runtime value package),
// adapted to Jsonnet's data model (spec.md §3): strings are Unicode-scalar
// sequences rather than byte strings, arrays hold thunks rather than
// values, and objects are a composable layer stack rather than a flat map.
package value

import "fmt"

// Value is implemented by every kind of runtime value.
type Value interface {
	Kind() string
	valueNode()
}

// Null is the singleton null value.
type Null struct{}

func (Null) Kind() string { return "null" }
func (Null) valueNode()   {}

// Bool is a boolean.
type Bool bool

func (Bool) Kind() string { return "boolean" }
func (Bool) valueNode()   {}

// Number is an IEEE-754 double.
type Number float64

func (Number) Kind() string { return "number" }
func (Number) valueNode()   {}

// String is a sequence of Unicode scalar values, matching Jsonnet's
// scalar-indexed string semantics (length/index/slice are in scalars, not
// UTF-8 bytes or UTF-16 units).
type String []rune

func (String) Kind() string { return "string" }
func (String) valueNode()   {}

// NewString builds a String from a Go string.
func NewString(s string) String { return String([]rune(s)) }

// Go renders the scalar sequence back as a Go string.
func (s String) Go() string { return string([]rune(s)) }

// Array is an ordered list of lazily-evaluated elements.
type Array []*Thunk

func (Array) Kind() string { return "array" }
func (Array) valueNode()   {}

// String implements fmt.Stringer for debugging only; user-visible
// rendering goes through lang/manifest.
func (n Number) String() string { return fmt.Sprintf("%g", float64(n)) }
