package program

import (
	"fmt"
	"sort"

	"github.com/jsonnet-run/jsonnet/lang/manifest"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestOptions configures rendering (spec.md §4.6, §6). Indent is only
// consulted for the JSON-family renderers; String and YAML-stream modes
// ignore it (a Jsonnet string is emitted verbatim, and manifestYamlStream
// has its own fixed layout).
type ManifestOptions struct {
	Indent   string // default "  " when empty
	Minified bool
}

func (o ManifestOptions) indent() string {
	if o.Indent == "" {
		return "  "
	}
	return o.Indent
}

// Manifest renders a previously evaluated value handle to bytes, per the
// mode it was evaluated for.
func (p *Program) Manifest(h ValueHandle, mode Mode, opts ManifestOptions) ([]byte, error) {
	v, ok := p.values[h]
	if !ok {
		return nil, fmt.Errorf("program: unknown value handle")
	}
	switch mode {
	case ModeString:
		s, ok := v.(value.String)
		if !ok {
			return nil, fmt.Errorf("program: expected a string result, got %s", v.Kind())
		}
		return []byte(s.Go()), nil
	case ModeYAMLStream:
		arr, ok := v.(value.Array)
		if !ok {
			return nil, fmt.Errorf("program: expected an array result for YAML-stream output, got %s", v.Kind())
		}
		s, err := p.ev.ManifestYAMLStream(arr)
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case ModeMultiFile:
		return nil, fmt.Errorf("program: multi-file output has one document per file, use ManifestMultiFile")
	default:
		if opts.Minified {
			s, err := p.ev.ManifestJSONMinified(v)
			if err != nil {
				return nil, err
			}
			return []byte(s), nil
		}
		s, err := manifest.ManifestJSONEx(p.ev, v, opts.indent(), "\n", ": ")
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	}
}

// ManifestMultiFile renders a value handle evaluated under ModeMultiFile:
// one JSON document per visible field of the root object, keyed by field
// name (CLI `-m`).
func (p *Program) ManifestMultiFile(h ValueHandle, opts ManifestOptions) (map[string][]byte, error) {
	v, ok := p.values[h]
	if !ok {
		return nil, fmt.Errorf("program: unknown value handle")
	}
	root, ok := v.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("program: expected an object result for multi-file output, got %s", v.Kind())
	}
	names := p.ev.VisibleFields(root)
	sort.Strings(names)
	out := make(map[string][]byte, len(names))
	for _, name := range names {
		fv, err := p.ev.GetField(root, name)
		if err != nil {
			return nil, err
		}
		var s string
		if opts.Minified {
			s, err = p.ev.ManifestJSONMinified(fv)
		} else {
			s, err = manifest.ManifestJSONEx(p.ev, fv, opts.indent(), "\n", ": ")
		}
		if err != nil {
			return nil, err
		}
		out[name] = []byte(s)
	}
	return out, nil
}
