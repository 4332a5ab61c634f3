package value

import (
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slices"

	"github.com/jsonnet-run/jsonnet/lang/ast"
)

// Field is one field declaration within a single layer: the raw
// declaration, not yet resolved against layers below it.
type Field struct {
	Body ast.Expr
	Vis  ast.Visibility
	Plus bool
}

// Assert is one object-level assertion.
type Assert struct {
	Cond ast.Expr
	Msg  ast.Expr // nil if no message given
}

// LocalDef is one of an object layer's own `local` bindings. Its slot is
// its index in Layer.Locals, which is also its index within the layer's
// local-scope environment frame, matching the
// order the resolver declared them in (declaration order among Local
// members only).
type LocalDef struct {
	Name string
	Body ast.Expr
}

// Layer is one component of an object's composition stack (spec.md §3): a
// set of fields, a set of assertions, and a set of local bindings, plus the
// lexical environment the layer's bodies were written in (not including
// the layer's own local-scope frame, which is built lazily per composed
// object since it may need to see that composition's self).
type Layer struct {
	Fields  map[string]*Field
	Asserts []*Assert
	Locals  []LocalDef
	Env     *Env
}

// Object is a stack of layers, bottom-most first (spec.md §3). Field
// resolution and assertion checking are implemented in lang/eval; Object
// itself only stores structure plus per-instance memoization caches, since
// each composed object (the result of evaluating a literal or a `+`) gets
// its own memo tables.
type Object struct {
	Layers []*Layer

	fieldMemo    *swiss.Map[FieldKey, *Thunk]
	layerEnvMemo *swiss.Map[int, *Env]
	assertsDone  bool
	assertsErr   error

	// thisFile overrides std.thisFile for a specific lexical occurrence of
	// `std` (spec.md §9); nil for ordinary objects.
	thisFile *string
}

// WithThisFile returns a shallow copy of o (sharing layers, not caches)
// whose thisFile field reports file.
func (o *Object) WithThisFile(file string) *Object {
	clone := NewObject(o.Layers)
	clone.thisFile = &file
	return clone
}

// ThisFile returns the overridden std.thisFile value, if any.
func (o *Object) ThisFile() (string, bool) {
	if o.thisFile == nil {
		return "", false
	}
	return *o.thisFile, true
}

// FieldKey memoizes a field's forced value by (layer index where the
// field's body lives, field name), per spec.md §3.
type FieldKey struct {
	Layer int
	Name  string
}

// NewObject builds a fresh composed object from a layer stack, bottom-most
// first. The returned Object owns its own memoization caches.
func NewObject(layers []*Layer) *Object {
	return &Object{Layers: layers}
}

// Compose implements `a + b` on objects: the result's layer stack is a's
// layers followed by b's layers (spec.md §4.4). Each operand's layers are
// reused by reference; only the resulting Object's memo tables are fresh.
func Compose(a, b *Object) *Object {
	layers := make([]*Layer, 0, len(a.Layers)+len(b.Layers))
	layers = append(layers, a.Layers...)
	layers = append(layers, b.Layers...)
	return NewObject(layers)
}

func (Object) Kind() string { return "object" }
func (Object) valueNode()   {}

// TopmostLayer returns the index of the topmost layer that declares name,
// or -1 if no layer does.
func (o *Object) TopmostLayer(name string) int {
	for i := len(o.Layers) - 1; i >= 0; i-- {
		if _, ok := o.Layers[i].Fields[name]; ok {
			return i
		}
	}
	return -1
}

// HasField reports whether any layer declares name, regardless of
// visibility.
func (o *Object) HasField(name string) bool { return o.TopmostLayer(name) >= 0 }

// EffectiveVisibility resolves the visibility inheritance chain for name
// (spec.md §3: "if the new field uses ':', keep inherited visibility; '::'
// forces hidden; ':::' forces visible"), scanning from the topmost
// occurrence down until a non-inheriting marker is found or the stack is
// exhausted (default visible).
func (o *Object) EffectiveVisibility(name string) (ast.Visibility, bool) {
	found := false
	for i := len(o.Layers) - 1; i >= 0; i-- {
		f, ok := o.Layers[i].Fields[name]
		if !ok {
			continue
		}
		found = true
		switch f.Vis {
		case ast.Hidden:
			return ast.Hidden, true
		case ast.ForcedVisible:
			return ast.Visible, true
		case ast.Visible:
			continue
		}
	}
	if !found {
		return 0, false
	}
	return ast.Visible, true
}

// VisibleFieldNames returns the object's field names in ascending
// Unicode-scalar order, excluding hidden fields (spec.md §8: "Visible
// fields of any object are iterated in ascending Unicode-scalar order").
func (o *Object) VisibleFieldNames() []string {
	return o.fieldNames(false)
}

// AllFieldNames returns every declared field name, including hidden ones,
// in ascending order.
func (o *Object) AllFieldNames() []string {
	return o.fieldNames(true)
}

func (o *Object) fieldNames(includeHidden bool) []string {
	seen := make(map[string]bool)
	var names []string
	for _, l := range o.Layers {
		for name := range l.Fields {
			if seen[name] {
				continue
			}
			seen[name] = true
			if !includeHidden {
				vis, _ := o.EffectiveVisibility(name)
				if vis == ast.Hidden {
					continue
				}
			}
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// FieldThunk returns the memoized thunk for key on this composed object, if
// field access has already produced one.
func (o *Object) FieldThunk(key FieldKey) (*Thunk, bool) {
	if o.fieldMemo == nil {
		return nil, false
	}
	return o.fieldMemo.Get(key)
}

// SetFieldThunk installs the memoized thunk for key.
func (o *Object) SetFieldThunk(key FieldKey, t *Thunk) {
	if o.fieldMemo == nil {
		o.fieldMemo = swiss.NewMap[FieldKey, *Thunk](4)
	}
	o.fieldMemo.Put(key, t)
}

// LayerEnv returns the memoized local-scope environment for layer idx on
// this composed object (self differs per composition, so this cannot be
// shared across different Object instances even when they share a Layer).
func (o *Object) LayerEnv(idx int) (*Env, bool) {
	if o.layerEnvMemo == nil {
		return nil, false
	}
	return o.layerEnvMemo.Get(idx)
}

// SetLayerEnv installs the memoized local-scope environment for layer idx.
func (o *Object) SetLayerEnv(idx int, e *Env) {
	if o.layerEnvMemo == nil {
		o.layerEnvMemo = swiss.NewMap[int, *Env](4)
	}
	o.layerEnvMemo.Put(idx, e)
}

// AssertsChecked reports whether this composed object's assertions have
// already run (spec.md §4.4: "on first access to any field ... the
// object's accumulated assertions are forced").
func (o *Object) AssertsChecked() (checked bool, err error) {
	return o.assertsDone, o.assertsErr
}

// MarkAssertsChecked memoizes the outcome of the one-time assertion pass.
func (o *Object) MarkAssertsChecked(err error) {
	o.assertsDone = true
	o.assertsErr = err
}
