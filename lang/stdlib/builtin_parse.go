package stdlib

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

func parseBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "parseJson", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "parseJson")
			if err != nil {
				return nil, err
			}
			var raw any
			dec := json.NewDecoder(strings.NewReader(s.Go()))
			dec.UseNumber()
			if err := dec.Decode(&raw); err != nil && err != io.EOF {
				return nil, errf("parseJson: %s", err.Error())
			}
			return goToValue(raw)
		}},
		{Name: "parseYaml", Params: []string{"str"}, Fn: builtinParseYAML},
	}
}

// goToValue converts a decoded encoding/json tree (using json.Number for
// numbers, so integers stay exact) into the runtime value model.
func goToValue(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return value.Null{}, nil
	case bool:
		return value.Bool(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, errf("parseJson: invalid number %q", x.String())
		}
		return value.Number(f), nil
	case string:
		return value.NewString(x), nil
	case []any:
		out := make(value.Array, len(x))
		for i, e := range x {
			v, err := goToValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = value.Ready(v)
		}
		return out, nil
	case map[string]any:
		layer := &value.Layer{Fields: map[string]*value.Field{}}
		obj := value.NewObject([]*value.Layer{layer})
		for k, e := range x {
			v, err := goToValue(e)
			if err != nil {
				return nil, err
			}
			layer.Fields[k] = &value.Field{Vis: ast.Visible}
			obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: k}, value.Ready(v))
		}
		obj.MarkAssertsChecked(nil)
		return obj, nil
	default:
		return nil, errf("parseJson: unsupported decoded type %T", raw)
	}
}

// builtinParseYAML parses the YAML subset spec.md §8 pins down: an empty
// document yields null, and (per yaml.v3's own resolver) an ambiguous
// scalar like "0o8" that fails the numeric-octal grammar is left as a
// plain string while "0o7" resolves to a number.
func builtinParseYAML(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	s, err := forceString(args[0], "parseYaml")
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(s.Go()), &node); err != nil {
		return nil, errf("parseYaml: %s", err.Error())
	}
	if len(node.Content) == 0 {
		return value.Null{}, nil
	}
	return yamlNodeToValue(node.Content[0])
}

func yamlNodeToValue(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return yamlNodeToValue(n.Content[0])
	case yaml.AliasNode:
		return yamlNodeToValue(n.Alias)
	case yaml.ScalarNode:
		return yamlScalar(n)
	case yaml.SequenceNode:
		out := make(value.Array, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlNodeToValue(c)
			if err != nil {
				return nil, err
			}
			out[i] = value.Ready(v)
		}
		return out, nil
	case yaml.MappingNode:
		layer := &value.Layer{Fields: map[string]*value.Field{}}
		obj := value.NewObject([]*value.Layer{layer})
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, err := yamlNodeToValue(n.Content[i])
			if err != nil {
				return nil, err
			}
			ks, ok := key.(value.String)
			if !ok {
				return nil, errf("parseYaml: non-string mapping key")
			}
			v, err := yamlNodeToValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			name := ks.Go()
			layer.Fields[name] = &value.Field{Vis: ast.Visible}
			obj.SetFieldThunk(value.FieldKey{Layer: 0, Name: name}, value.Ready(v))
		}
		obj.MarkAssertsChecked(nil)
		return obj, nil
	default:
		return nil, errf("parseYaml: unsupported node kind")
	}
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.Tag {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.NewString(n.Value), nil
		}
		return value.Number(f), nil
	default:
		return value.NewString(n.Value), nil
	}
}
