package eval

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// expandClauses computes the cross product of a comprehension's `for`/`if`
// clauses starting at index idx, returning one *value.Env per surviving
// iteration. Each `for` clause pushes exactly one new frame binding its
// variable, mirroring resolver.go's resolveClauses; `if` clauses filter
// without introducing a frame.
func (ev *Evaluator) expandClauses(env *value.Env, clauses []ast.CompClause, idx int) ([]*value.Env, error) {
	if idx == len(clauses) {
		return []*value.Env{env}, nil
	}
	c := clauses[idx]
	if c.IsFor {
		inVal, err := ev.eval(env, c.In)
		if err != nil {
			return nil, err
		}
		arr, ok := inVal.(value.Array)
		if !ok {
			start, _ := c.In.Span()
			return nil, ev.errorf(env, start, "'for' requires an array, got %s", inVal.Kind())
		}
		var out []*value.Env
		for _, elemThunk := range arr {
			frame := value.NewEnv(env, 1)
			frame.Set(0, elemThunk)
			sub, err := ev.expandClauses(frame, clauses, idx+1)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	}
	condVal, err := ev.eval(env, c.Cond)
	if err != nil {
		return nil, err
	}
	b, ok := condVal.(value.Bool)
	if !ok {
		start, _ := c.Cond.Span()
		return nil, ev.errorf(env, start, "'if' clause requires a boolean, got %s", condVal.Kind())
	}
	if !bool(b) {
		return nil, nil
	}
	return ev.expandClauses(env, clauses, idx+1)
}

func (ev *Evaluator) evalArrayComp(env *value.Env, n *ast.ArrayCompExpr) (value.Value, error) {
	envs, err := ev.expandClauses(env, n.Clauses, 0)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(envs))
	for i, e := range envs {
		e := e
		out[i] = value.NewThunk(func() (value.Value, error) { return ev.eval(e, n.Body) })
	}
	return out, nil
}

// evalObjectComp builds a single-layer object whose fields are generated by
// iterating the comprehension's clauses. Locals precede the clauses (spec.md
// §3/§4.3: they cannot see the `for` variable) and are evaluated in a
// self-bound scope shared by every generated field, reusing the same
// layerEnv machinery a plain object literal's single layer uses. Keys are
// evaluated eagerly to build the field set; a null key is dropped, matching
// the computed-key rule for ordinary object literals (fieldKeyName in
// object.go).
func (ev *Evaluator) evalObjectComp(env *value.Env, n *ast.ObjectCompExpr) (value.Value, error) {
	layer := &value.Layer{Fields: map[string]*value.Field{}, Env: env}
	for _, ld := range n.Locals {
		layer.Locals = append(layer.Locals, value.LocalDef{Name: ld.Name.Name, Body: ld.Value})
	}
	obj := value.NewObject([]*value.Layer{layer})
	localsEnv := ev.layerEnv(obj, 0)

	envs, err := ev.expandClauses(localsEnv, n.Clauses, 0)
	if err != nil {
		return nil, err
	}
	for _, e := range envs {
		e := e
		keyVal, err := ev.eval(e, n.Key)
		if err != nil {
			return nil, err
		}
		if _, isNull := keyVal.(value.Null); isNull {
			continue
		}
		keyStr, ok := keyVal.(value.String)
		if !ok {
			start, _ := n.Key.Span()
			return nil, ev.errorf(e, start, "object comprehension key must be a string, got %s", keyVal.Kind())
		}
		name := keyStr.Go()
		if _, dup := layer.Fields[name]; dup {
			start, _ := n.Key.Span()
			return nil, ev.errorf(e, start, "duplicate field name: %q", name)
		}
		layer.Fields[name] = &value.Field{Vis: ast.Visible}
		thunk := value.NewThunk(func() (value.Value, error) { return ev.eval(e, n.Value) })
		obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, thunk)
	}
	return obj, nil
}
