package eval

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// evalIndex implements `e[i]`: string-key field access on an object,
// integer indexing on an array, and single-scalar indexing on a string
// (spec.md §3 "string indexing operates on Unicode scalars, not bytes").
func (ev *Evaluator) evalIndex(env *value.Env, n *ast.IndexExpr) (value.Value, error) {
	if sup, isSuper := n.Object.(*ast.SuperExpr); isSuper {
		idxVal, err := ev.eval(env, n.Index)
		if err != nil {
			return nil, err
		}
		s, ok := idxVal.(value.String)
		if !ok {
			start, _ := sup.Span()
			return nil, ev.errorf(env, start, "super[] index must be a string, got %s", idxVal.Kind())
		}
		return ev.evalFieldAccess(env, n.ExprBase.Start, n.Object, s.Go())
	}
	objVal, err := ev.eval(env, n.Object)
	if err != nil {
		return nil, err
	}
	idxVal, err := ev.eval(env, n.Index)
	if err != nil {
		return nil, err
	}
	pos := n.ExprBase.Start
	switch obj := objVal.(type) {
	case *value.Object:
		s, ok := idxVal.(value.String)
		if !ok {
			return nil, ev.errorf(env, pos, "object index must be a string, got %s", idxVal.Kind())
		}
		return ev.getField(env, pos, obj, len(obj.Layers)-1, s.Go())
	case value.Array:
		i, err := ev.toSafeInt(env, pos, idxVal)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(obj)) {
			return nil, ev.errorf(env, pos, "array index %d out of bounds [0,%d)", i, len(obj))
		}
		return obj[i].Force()
	case value.String:
		i, err := ev.toSafeInt(env, pos, idxVal)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= int64(len(obj)) {
			return nil, ev.errorf(env, pos, "string index %d out of bounds [0,%d)", i, len(obj))
		}
		return value.String{obj[i]}, nil
	default:
		return nil, ev.errorf(env, pos, "cannot index a %s value", objVal.Kind())
	}
}

// evalSlice implements `e[start:end:step]` on arrays and strings; any of
// start/end/step may be omitted (spec.md §4.4 std.slice semantics). A
// negative step walks from the default upper bound down to (but excluding)
// the default lower bound.
func (ev *Evaluator) evalSlice(env *value.Env, n *ast.SliceExpr) (value.Value, error) {
	objVal, err := ev.eval(env, n.Object)
	if err != nil {
		return nil, err
	}
	pos := n.ExprBase.Start
	var length int
	switch objVal.(type) {
	case value.Array, value.String:
	default:
		return nil, ev.errorf(env, pos, "cannot slice a %s value", objVal.Kind())
	}
	if arr, ok := objVal.(value.Array); ok {
		length = len(arr)
	} else {
		length = len(objVal.(value.String))
	}

	step := 1
	if n.Step != nil {
		v, err := ev.eval(env, n.Step)
		if err != nil {
			return nil, err
		}
		i, err := ev.toSafeInt(env, pos, v)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			return nil, ev.errorf(env, pos, "slice step cannot be zero")
		}
		step = int(i)
	}

	var lo, hi int
	if step > 0 {
		lo, hi = 0, length
	} else {
		lo, hi = length-1, -1
	}
	start := lo
	if n.Start != nil {
		v, err := ev.eval(env, n.Start)
		if err != nil {
			return nil, err
		}
		i, err := ev.toSafeInt(env, pos, v)
		if err != nil {
			return nil, err
		}
		start = clampSliceIndex(int(i), length, step > 0)
	}
	end := hi
	if n.End != nil {
		v, err := ev.eval(env, n.End)
		if err != nil {
			return nil, err
		}
		i, err := ev.toSafeInt(env, pos, v)
		if err != nil {
			return nil, err
		}
		end = clampSliceIndex(int(i), length, step > 0)
	}

	switch obj := objVal.(type) {
	case value.Array:
		out := value.Array{}
		for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
			out = append(out, obj[i])
		}
		return out, nil
	case value.String:
		var out value.String
		for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
			out = append(out, obj[i])
		}
		return out, nil
	default:
		panic("unreachable")
	}
}

// clampSliceIndex normalizes a (possibly negative, possibly out-of-range)
// slice bound against length, matching Python-style slice clamping.
func clampSliceIndex(i, length int, forward bool) int {
	if i < 0 {
		i += length
	}
	if forward {
		if i < 0 {
			return 0
		}
		if i > length {
			return length
		}
		return i
	}
	if i < -1 {
		return -1
	}
	if i >= length {
		return length - 1
	}
	return i
}
