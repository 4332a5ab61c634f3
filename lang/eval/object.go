package eval

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/token"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// evalFieldAccess implements `objExpr.name`, including `super.name` when
// objExpr is a *ast.SuperExpr (spec.md §4.4 field access algorithm).
func (ev *Evaluator) evalFieldAccess(env *value.Env, pos token.Pos, objExpr ast.Expr, name string) (value.Value, error) {
	if _, isSuper := objExpr.(*ast.SuperExpr); isSuper {
		self, superLayers, ok := env.Self()
		if !ok {
			return nil, ev.errorf(env, pos, "'super' has no meaning here")
		}
		if len(superLayers) == 0 {
			return nil, ev.errorf(env, pos, "no super class")
		}
		return ev.getField(env, pos, self, len(superLayers)-1, name)
	}
	objVal, err := ev.eval(env, objExpr)
	if err != nil {
		return nil, err
	}
	obj, ok := objVal.(*value.Object)
	if !ok {
		return nil, ev.errorf(env, pos, "field access on a %s value", objVal.Kind())
	}
	return ev.getField(env, pos, obj, len(obj.Layers)-1, name)
}

// getField implements steps 1-5 of the field access algorithm, searching
// from searchTop downward for the topmost layer that declares name.
func (ev *Evaluator) getField(env *value.Env, pos token.Pos, o *value.Object, searchTop int, name string) (value.Value, error) {
	if file, ok := o.ThisFile(); ok && name == "thisFile" {
		return value.NewString(file), nil
	}
	idx := -1
	for i := searchTop; i >= 0 && i < len(o.Layers); i-- {
		if _, ok := o.Layers[i].Fields[name]; ok {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ev.errorf(env, pos, "field does not exist: %s", name)
	}
	if err := ev.checkAsserts(o); err != nil {
		return nil, err
	}
	key := value.FieldKey{Layer: idx, Name: name}
	if t, ok := o.FieldThunk(key); ok {
		return t.Force()
	}
	t := value.NewThunk(func() (value.Value, error) { return ev.computeFieldValue(o, idx, name) })
	o.SetFieldThunk(key, t)
	return t.Force()
}

// HasVisibleField reports whether name exists and is not hidden.
func (ev *Evaluator) HasVisibleField(o *value.Object, name string) bool {
	vis, ok := o.EffectiveVisibility(name)
	return ok && vis != ast.Hidden
}

// computeFieldValue implements the plus-chain: a field declared with `+:`
// combines its own body's value with the inherited value of the same name
// from strictly lower layers (spec.md §4.4 step 3).
func (ev *Evaluator) computeFieldValue(o *value.Object, idx int, name string) (value.Value, error) {
	layer := o.Layers[idx]
	field := layer.Fields[name]
	env := ev.layerEnv(o, idx)
	start, _ := field.Body.Span()
	ownVal, err := ev.eval(env, field.Body)
	if err != nil {
		return nil, err
	}
	if !field.Plus {
		return ownVal, nil
	}
	hasLower := false
	for i := idx - 1; i >= 0; i-- {
		if _, ok := o.Layers[i].Fields[name]; ok {
			hasLower = true
			break
		}
	}
	if !hasLower {
		// no inherited occurrence below idx: `+:` degrades to the own value
		// alone. This is the only case that collapses to ownVal; once a
		// lower occurrence exists, any error forcing it must propagate
		// (spec.md §4.4/§7: no partial recovery inside the evaluator).
		return ownVal, nil
	}
	inherited, err := ev.getField(env, start, o, idx-1, name)
	if err != nil {
		return nil, err
	}
	return ev.binaryPlus(env, start, inherited, ownVal)
}

// layerEnv builds (and memoizes) the local-scope environment for layer idx
// on composed object o: self = o, super = the layers strictly below idx.
func (ev *Evaluator) layerEnv(o *value.Object, idx int) *value.Env {
	if e, ok := o.LayerEnv(idx); ok {
		return e
	}
	layer := o.Layers[idx]
	env := value.NewObjectEnv(layer.Env, len(layer.Locals), o, o.Layers[:idx])
	for i, ld := range layer.Locals {
		i, ld := i, ld
		env.Set(i, value.NewThunk(func() (value.Value, error) { return ev.eval(env, ld.Body) }))
	}
	o.SetLayerEnv(idx, env)
	return env
}

// checkAsserts runs every layer's assertions once per composed object
// (spec.md §4.4: "on first access to any field of an object, the object's
// accumulated assertions are forced").
func (ev *Evaluator) checkAsserts(o *value.Object) error {
	if done, err := o.AssertsChecked(); done {
		return err
	}
	err := ev.runAsserts(o)
	o.MarkAssertsChecked(err)
	return err
}

func (ev *Evaluator) runAsserts(o *value.Object) error {
	for idx, layer := range o.Layers {
		env := ev.layerEnv(o, idx)
		for _, a := range layer.Asserts {
			start, _ := a.Cond.Span()
			cond, err := ev.eval(env, a.Cond)
			if err != nil {
				return err
			}
			b, ok := cond.(value.Bool)
			if !ok {
				return ev.errorf(env, start, "assertion condition must be a boolean, got %s", cond.Kind())
			}
			if !bool(b) {
				msg := "field assertion failed"
				if a.Msg != nil {
					mv, err := ev.eval(env, a.Msg)
					if err != nil {
						return err
					}
					s, err := ev.toStringValue(env, start, mv)
					if err != nil {
						return err
					}
					msg = s
				}
				return ev.errorf(env, start, "%s", msg)
			}
		}
	}
	return nil
}

// evalObjectExpr builds a single-layer Object from an object literal,
// resolving computed field keys eagerly against the layer's own local
// scope (spec.md §3 "null-valued computed keys are skipped").
func (ev *Evaluator) evalObjectExpr(env *value.Env, n *ast.ObjectExpr) (value.Value, error) {
	layer := &value.Layer{Fields: map[string]*value.Field{}, Env: env}
	for _, m := range n.Members {
		if m.Local != nil {
			layer.Locals = append(layer.Locals, value.LocalDef{Name: m.Local.Name.Name, Body: m.Local.Value})
		}
	}
	obj := value.NewObject([]*value.Layer{layer})
	for _, m := range n.Members {
		switch {
		case m.Field != nil:
			name, skip, err := ev.fieldKeyName(obj, m.Field)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			if _, dup := layer.Fields[name]; dup {
				start, _ := m.Field.Body.Span()
				return nil, ev.errorf(env, start, "duplicate field name: %q", name)
			}
			layer.Fields[name] = &value.Field{Body: m.Field.Body, Vis: m.Field.Visibility, Plus: m.Field.Plus}
		case m.Assert != nil:
			layer.Asserts = append(layer.Asserts, &value.Assert{Cond: m.Assert.Cond, Msg: m.Assert.Msg})
		}
	}
	return obj, nil
}

// fieldKeyName resolves a field's key to a string, evaluating a computed
// key against the object's own local scope. skip is true for a null-valued
// computed key, which spec.md §3 says to drop silently.
func (ev *Evaluator) fieldKeyName(obj *value.Object, f *ast.ObjectField) (name string, skip bool, err error) {
	switch {
	case f.StringKey != nil:
		return *f.StringKey, false, nil
	case f.ComputedKey != nil:
		env := ev.layerEnv(obj, 0)
		start, _ := f.ComputedKey.Span()
		kv, err := ev.eval(env, f.ComputedKey)
		if err != nil {
			return "", false, err
		}
		if _, isNull := kv.(value.Null); isNull {
			return "", true, nil
		}
		s, ok := kv.(value.String)
		if !ok {
			return "", false, ev.errorf(env, start, "field key must be a string, got %s", kv.Kind())
		}
		return s.Go(), false, nil
	default:
		return f.NameKey, false, nil
	}
}
