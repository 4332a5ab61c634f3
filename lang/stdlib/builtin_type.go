package stdlib

import "github.com/jsonnet-run/jsonnet/lang/value"

func typeBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "type", Params: []string{"x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			return value.NewString(v.Kind()), nil
		}},
		{Name: "isNumber", Params: []string{"x"}, Fn: kindPredicate("number")},
		{Name: "isString", Params: []string{"x"}, Fn: kindPredicate("string")},
		{Name: "isArray", Params: []string{"x"}, Fn: kindPredicate("array")},
		{Name: "isObject", Params: []string{"x"}, Fn: kindPredicate("object")},
		{Name: "isBoolean", Params: []string{"x"}, Fn: kindPredicate("boolean")},
		{Name: "isFunction", Params: []string{"x"}, Fn: kindPredicate("function")},
		{Name: "length", Params: []string{"x"}, Fn: builtinLength},
		{Name: "native_objectFieldsEx", Params: []string{"o", "inc_hidden"}, Fn: builtinObjectFieldsEx},
		{Name: "native_objectHasEx", Params: []string{"o", "f", "inc_hidden"}, Fn: builtinObjectHasEx},
	}
}

func kindPredicate(kind string) func(value.Evaluator, []*value.Thunk) (value.Value, error) {
	return func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
		v, err := args[0].Force()
		if err != nil {
			return nil, err
		}
		return value.Bool(v.Kind() == kind), nil
	}
}

// builtinLength implements std.length: strings/arrays report their scalar
// count, objects their visible-field count, functions their declared
// parameter count (spec.md §4.5).
func builtinLength(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	v, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case value.String:
		return value.Number(len(x)), nil
	case value.Array:
		return value.Number(len(x)), nil
	case *value.Object:
		return value.Number(len(ev.VisibleFields(x))), nil
	case *value.Closure:
		return value.Number(len(x.Params)), nil
	case *value.Builtin:
		return value.Number(len(x.Params)), nil
	default:
		return nil, errf("length: unsupported type %s", v.Kind())
	}
}

func builtinObjectFieldsEx(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	o, err := forceObject(args[0], "objectFieldsEx")
	if err != nil {
		return nil, err
	}
	incHidden, err := forceBool(args[1], "objectFieldsEx")
	if err != nil {
		return nil, err
	}
	var names []string
	if bool(incHidden) {
		names = o.AllFieldNames()
	} else {
		names = ev.VisibleFields(o)
	}
	out := make(value.Array, len(names))
	for i, n := range names {
		out[i] = value.Ready(value.NewString(n))
	}
	return out, nil
}

func builtinObjectHasEx(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	o, err := forceObject(args[0], "objectHasEx")
	if err != nil {
		return nil, err
	}
	name, err := forceString(args[1], "objectHasEx")
	if err != nil {
		return nil, err
	}
	incHidden, err := forceBool(args[2], "objectHasEx")
	if err != nil {
		return nil, err
	}
	if !o.HasField(name.Go()) {
		return value.Bool(false), nil
	}
	if bool(incHidden) {
		return value.Bool(true), nil
	}
	return value.Bool(containsStr(ev.VisibleFields(o), name.Go())), nil
}

func containsStr(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}
