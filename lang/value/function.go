package value

import "github.com/jsonnet-run/jsonnet/lang/ast"

// Function is either a Jsonnet closure or a native builtin.
type Function interface {
	Value
	// FuncName is used in error messages ("function <anonymous>", "field
	// f", "std.map", ...) and does not affect equality (functions are
	// never equal, spec.md §4.4).
	FuncName() string
}

// Closure is a Jsonnet-defined function: `function(params) body` captured
// together with its defining environment.
type Closure struct {
	Name   string
	Params []ast.Param
	Body   ast.Expr
	Env    *Env
}

func (*Closure) Kind() string     { return "function" }
func (*Closure) valueNode()       {}
func (c *Closure) FuncName() string {
	if c.Name != "" {
		return c.Name
	}
	return "<anonymous>"
}

// Evaluator is the surface a Builtin needs to call back into the evaluator:
// invoking a Jsonnet function value (e.g. for std.map's callback), forcing
// an object field (for the object-shaped builtins), and rendering a value
// through one of the manifest formats (for the manifest builtins). Defined
// here, rather than in lang/eval, so that value stays free of a dependency
// on eval while Builtin.Fn can still accept one; every method here refers
// only to types already in this package, so no import of lang/eval or
// lang/manifest is needed to declare it.
type Evaluator interface {
	// Call invokes fn with the given positional argument thunks.
	Call(fn Value, args []*Thunk) (Value, error)
	// CurrentFile reports the path of the file std was referenced from,
	// for std.thisFile (spec.md §9).
	CurrentFile() string
	// Trace emits msg to the host-supplied trace sink (spec.md §4.5 debug).
	Trace(msg string)

	// GetField forces field name of o, searching from its topmost layer.
	GetField(o *Object, name string) (Value, error)
	// VisibleFields returns o's visible field names in manifest order.
	VisibleFields(o *Object) []string
	// ExtVar returns the thunk registered for a host-supplied external
	// variable, for std.extVar (spec.md §4.5, §9).
	ExtVar(name string) (*Thunk, bool)

	// ToStringValue coerces v the way `+`'s string coercion and
	// std.toString do: strings pass through, everything else renders as
	// compact JSON.
	ToStringValue(v Value) (string, error)

	ManifestJSON(v Value) (string, error)
	ManifestJSONMinified(v Value) (string, error)
	ManifestYAMLDoc(v Value, indentArrayInObject bool) (string, error)
	ManifestYAMLStream(arr Array) (string, error)
	ManifestINI(root *Object) (string, error)
	ManifestTOML(root *Object, indent string) (string, error)
	ManifestPython(v Value) (string, error)
	ManifestPythonVars(root *Object) (string, error)
	ManifestXMLJsonml(v Value) (string, error)
}

// Builtin is a native, host-implemented function.
type Builtin struct {
	Name   string
	Params []string // parameter names, for named-argument binding
	Fn     func(ev Evaluator, args []*Thunk) (Value, error)
}

func (*Builtin) Kind() string       { return "function" }
func (*Builtin) valueNode()         {}
func (b *Builtin) FuncName() string { return "std." + b.Name }
