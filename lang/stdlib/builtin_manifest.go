package stdlib

import (
	"github.com/jsonnet-run/jsonnet/lang/manifest"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// manifestBuiltins wraps every lang/manifest renderer as a std builtin.
// Optional-argument entry points (manifestJsonEx's separators,
// manifestYamlDoc's indent flag) are given fixed-arity native names here and
// exposed with Jsonnet-side defaults from the embedded std.jsonnet layer.
func manifestBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "manifestJson", Params: []string{"v"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			return manifestOne(args[0], ev.ManifestJSON)
		}},
		{Name: "manifestJsonMinified", Params: []string{"v"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			return manifestOne(args[0], ev.ManifestJSONMinified)
		}},
		{Name: "native_manifestJsonEx", Params: []string{"value", "indent", "newline", "key_val_sep"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			indent, err := forceString(args[1], "manifestJsonEx")
			if err != nil {
				return nil, err
			}
			newline, err := forceString(args[2], "manifestJsonEx")
			if err != nil {
				return nil, err
			}
			kvSep, err := forceString(args[3], "manifestJsonEx")
			if err != nil {
				return nil, err
			}
			s, err := manifest.ManifestJSONEx(ev, v, indent.Go(), newline.Go(), kvSep.Go())
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "native_manifestYamlDoc", Params: []string{"v", "indent_array_in_object"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			indentArr, err := forceBool(args[1], "manifestYamlDoc")
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestYAMLDoc(v, bool(indentArr))
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "manifestYamlStream", Params: []string{"arr"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			arr, err := forceArray(args[0], "manifestYamlStream")
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestYAMLStream(arr)
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "manifestIni", Params: []string{"ini"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			root, err := forceObject(args[0], "manifestIni")
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestINI(root)
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "native_manifestTomlEx", Params: []string{"value", "indent"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			root, err := forceObject(args[0], "manifestTomlEx")
			if err != nil {
				return nil, err
			}
			indent, err := forceString(args[1], "manifestTomlEx")
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestTOML(root, indent.Go())
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "manifestPython", Params: []string{"v"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			return manifestOne(args[0], ev.ManifestPython)
		}},
		{Name: "manifestPythonVars", Params: []string{"conf"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			root, err := forceObject(args[0], "manifestPythonVars")
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestPythonVars(root)
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "manifestXmlJsonml", Params: []string{"value"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			s, err := ev.ManifestXMLJsonml(v)
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
	}
}

func manifestOne(t *value.Thunk, render func(value.Value) (string, error)) (value.Value, error) {
	v, err := t.Force()
	if err != nil {
		return nil, err
	}
	s, err := render(v)
	if err != nil {
		return nil, err
	}
	return value.NewString(s), nil
}
