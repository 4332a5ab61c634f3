package stdlib

import (
	_ "embed"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/resolver"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

//go:embed std.jsonnet
var stdSource []byte

// Evaluator is the subset of *eval.Evaluator that New needs: enough to
// evaluate the embedded Jsonnet-sourced layer and to be told the resulting
// std object. Modeled as an interface, rather than importing lang/eval
// directly, to keep this package's compile-time dependency on eval limited
// to what it actually calls.
type Evaluator interface {
	value.Evaluator
	EvalFile(filename string, root ast.Expr) (value.Value, error)
}

// Parser compiles the embedded std.jsonnet source; callers pass
// lang/parser.Parse (the same function used for user programs).
type Parser func(filename string, src []byte) (ast.Expr, error)

const stdFileName = "<std>"

// New builds the standard library object: a native layer (every builtin_*.go
// file in this package) composed underneath a Jsonnet layer evaluated from
// the embedded std.jsonnet source. ev must already accept calls (its Call
// method may be invoked while std.jsonnet's own field bodies are later
// forced), but does not need `std` installed yet — SetStd should be called
// by the caller immediately after New returns, before any evaluation of
// user code begins, since std.jsonnet's functions reference `std` as an
// ordinary identifier resolved through the evaluator at call time.
func New(ev Evaluator, parse Parser) (*value.Object, error) {
	nativeObj := buildNativeObject()

	root, err := parse(stdFileName, stdSource)
	if err != nil {
		return nil, err
	}
	if errs := resolver.Resolve(stdFileName, root); len(errs) > 0 {
		return nil, errs[0]
	}
	jsonnetVal, err := ev.EvalFile(stdFileName, root)
	if err != nil {
		return nil, err
	}
	jsonnetObj, ok := jsonnetVal.(*value.Object)
	if !ok {
		return nil, errf("stdlib: std.jsonnet must evaluate to an object")
	}

	return value.Compose(nativeObj, jsonnetObj), nil
}

func buildNativeObject() *value.Object {
	layer := &value.Layer{Fields: map[string]*value.Field{}}
	obj := value.NewObject([]*value.Layer{layer})
	all := append([]*value.Builtin{}, typeBuiltins()...)
	all = append(all, numberBuiltins()...)
	all = append(all, stringBuiltins()...)
	all = append(all, formatBuiltins()...)
	all = append(all, arrayBuiltins()...)
	all = append(all, objectBuiltins()...)
	all = append(all, hashBuiltins()...)
	all = append(all, encodingBuiltins()...)
	all = append(all, manifestBuiltins()...)
	all = append(all, parseBuiltins()...)
	all = append(all, miscBuiltins()...)
	for _, b := range all {
		b := b
		layer.Fields[b.Name] = &value.Field{Vis: ast.Hidden}
		obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: b.Name}, value.Ready(b))
	}
	// thisFile is never actually read through this thunk: lang/eval.getField
	// intercepts the name before reaching the layer search, resolving it
	// from the accessing object's ThisFile override instead (spec.md §9).
	// The field is still declared so objectFieldsEx enumerates it.
	layer.Fields["thisFile"] = &value.Field{Vis: ast.Hidden}
	obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: "thisFile"}, value.Ready(value.NewString("")))
	obj.MarkAssertsChecked(nil)
	return obj
}
