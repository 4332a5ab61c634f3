package stdlib

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

func objectBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "native_get", Params: []string{"o", "f", "default", "inc_hidden"}, Fn: builtinGet},
		{Name: "native_objectKeysValuesEx", Params: []string{"o", "inc_hidden"}, Fn: builtinObjectKeysValuesEx},
		{Name: "objectRemoveKey", Params: []string{"obj", "key"}, Fn: builtinObjectRemoveKey},
		{Name: "native_mapWithKey", Params: []string{"func", "obj"}, Fn: builtinMapWithKey},
		{Name: "mergePatch", Params: []string{"target", "patch"}, Fn: builtinMergePatch},
	}
}

func builtinGet(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	o, err := forceObject(args[0], "get")
	if err != nil {
		return nil, err
	}
	name, err := forceString(args[1], "get")
	if err != nil {
		return nil, err
	}
	incHidden, err := forceBool(args[3], "get")
	if err != nil {
		return nil, err
	}
	if !o.HasField(name.Go()) {
		return args[2].Force()
	}
	if !bool(incHidden) && !containsStr(ev.VisibleFields(o), name.Go()) {
		return args[2].Force()
	}
	return ev.GetField(o, name.Go())
}

func builtinObjectKeysValuesEx(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	o, err := forceObject(args[0], "objectKeysValuesEx")
	if err != nil {
		return nil, err
	}
	incHidden, err := forceBool(args[1], "objectKeysValuesEx")
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
	for i, name := range names {
		name := name
		out[i] = value.NewThunk(func() (value.Value, error) {
			v, err := ev.GetField(o, name)
			if err != nil {
				return nil, err
			}
			return singleFieldObject("key", value.NewString(name), "value", v), nil
		})
	}
	return out, nil
}

// singleFieldObject builds a plain two-field object with already-known
// values, used for objectKeysValuesEx's {key, value} records.
func singleFieldObject(k1 string, v1 value.Value, k2 string, v2 value.Value) *value.Object {
	layer := &value.Layer{Fields: map[string]*value.Field{
		k1: {Vis: ast.Visible},
		k2: {Vis: ast.Visible},
	}}
	obj := value.NewObject([]*value.Layer{layer})
	obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: k1}, value.Ready(v1))
	obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: k2}, value.Ready(v2))
	obj.MarkAssertsChecked(nil)
	return obj
}

func builtinObjectRemoveKey(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	o, err := forceObject(args[0], "objectRemoveKey")
	if err != nil {
		return nil, err
	}
	key, err := forceString(args[1], "objectRemoveKey")
	if err != nil {
		return nil, err
	}
	layer := &value.Layer{Fields: map[string]*value.Field{}}
	out := value.NewObject([]*value.Layer{layer})
	for _, name := range o.AllFieldNames() {
		if name == key.Go() {
			continue
		}
		vis, _ := o.EffectiveVisibility(name)
		layer.Fields[name] = &value.Field{Vis: vis}
		name := name
		v, err := ev.GetField(o, name)
		if err != nil {
			return nil, err
		}
		out.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, value.Ready(v))
	}
	out.MarkAssertsChecked(nil)
	return out, nil
}

func builtinMapWithKey(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fnVal, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	o, err := forceObject(args[1], "mapWithKey")
	if err != nil {
		return nil, err
	}
	names := ev.VisibleFields(o)
	layer := &value.Layer{Fields: map[string]*value.Field{}}
	out := value.NewObject([]*value.Layer{layer})
	for _, name := range names {
		layer.Fields[name] = &value.Field{}
		name := name
		out.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, value.NewThunk(func() (value.Value, error) {
			v, err := ev.GetField(o, name)
			if err != nil {
				return nil, err
			}
			return ev.Call(fnVal, []*value.Thunk{value.Ready(value.NewString(name)), value.Ready(v)})
		}))
	}
	out.MarkAssertsChecked(nil)
	return out, nil
}

// builtinMergePatch implements RFC 7396: a patch object's null-valued
// fields delete the corresponding target field, nested objects merge
// recursively, everything else replaces.
func builtinMergePatch(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	target, err := args[0].Force()
	if err != nil {
		return nil, err
	}
	patch, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	return mergePatch(ev, target, patch)
}

func mergePatch(ev value.Evaluator, target, patch value.Value) (value.Value, error) {
	patchObj, ok := patch.(*value.Object)
	if !ok {
		return patch, nil
	}
	targetObj, ok := target.(*value.Object)
	if !ok {
		targetObj = nil
	}
	layer := &value.Layer{Fields: map[string]*value.Field{}}
	out := value.NewObject([]*value.Layer{layer})

	if targetObj != nil {
		for _, name := range ev.VisibleFields(targetObj) {
			if patchObj.HasField(name) {
				continue
			}
			layer.Fields[name] = &value.Field{}
			name := name
			out.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, value.NewThunk(func() (value.Value, error) {
				return ev.GetField(targetObj, name)
			}))
		}
	}
	for _, name := range ev.VisibleFields(patchObj) {
		name := name
		pv, err := ev.GetField(patchObj, name)
		if err != nil {
			return nil, err
		}
		if _, isNull := pv.(value.Null); isNull {
			continue
		}
		var tv value.Value = value.Null{}
		if targetObj != nil && targetObj.HasField(name) {
			tv, err = ev.GetField(targetObj, name)
			if err != nil {
				return nil, err
			}
		}
		merged, err := mergePatch(ev, tv, pv)
		if err != nil {
			return nil, err
		}
		layer.Fields[name] = &value.Field{}
		out.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, value.Ready(merged))
	}
	out.MarkAssertsChecked(nil)
	return out, nil
}
