package manifest

import (
	"strings"
	"unicode"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestTOML implements std.manifestToml (spec.md §4.5/§4.6): the root
// must be an object. Scalar and array-of-scalar fields become `key =
// value` lines at the current table; object fields become `[section]`
// tables (dotted for nesting); arrays of objects become `[[section]]`
// array-of-tables blocks.
func ManifestTOML(fa FieldAccessor, root *value.Object, indent string) (string, error) {
	var b strings.Builder
	if err := writeTOMLTable(&b, fa, root, nil, indent, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeTOMLTable(b *strings.Builder, fa FieldAccessor, o *value.Object, path []string, indent string, depth int) error {
	names := fa.VisibleFields(o)
	var scalarNames, tableNames, arrayTableNames []string
	for _, name := range names {
		v, err := fa.GetField(o, name)
		if err != nil {
			return err
		}
		switch x := v.(type) {
		case *value.Object:
			tableNames = append(tableNames, name)
		case value.Array:
			if isArrayOfObjects(x) {
				arrayTableNames = append(arrayTableNames, name)
			} else {
				scalarNames = append(scalarNames, name)
			}
		default:
			scalarNames = append(scalarNames, name)
		}
	}
	ind := strings.Repeat(indent, depth)
	for _, name := range scalarNames {
		v, err := fa.GetField(o, name)
		if err != nil {
			return err
		}
		s, err := tomlValue(fa, v)
		if err != nil {
			return err
		}
		b.WriteString(ind)
		b.WriteString(tomlKey(name))
		b.WriteString(" = ")
		b.WriteString(s)
		b.WriteByte('\n')
	}
	for _, name := range tableNames {
		v, _ := fa.GetField(o, name)
		child := path
		child = append(append([]string{}, child...), name)
		b.WriteByte('\n')
		b.WriteString(ind)
		b.WriteByte('[')
		b.WriteString(strings.Join(tomlKeys(child), "."))
		b.WriteString("]\n")
		if err := writeTOMLTable(b, fa, v.(*value.Object), child, indent, depth); err != nil {
			return err
		}
	}
	for _, name := range arrayTableNames {
		v, _ := fa.GetField(o, name)
		arr := v.(value.Array)
		child := append(append([]string{}, path...), name)
		for _, elemThunk := range arr {
			elem, err := elemThunk.Force()
			if err != nil {
				return err
			}
			b.WriteByte('\n')
			b.WriteString(ind)
			b.WriteString("[[")
			b.WriteString(strings.Join(tomlKeys(child), "."))
			b.WriteString("]]\n")
			if err := writeTOMLTable(b, fa, elem.(*value.Object), child, indent, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func isArrayOfObjects(arr value.Array) bool {
	if len(arr) == 0 {
		return false
	}
	for _, t := range arr {
		v, err := t.Force()
		if err != nil {
			return false
		}
		if _, ok := v.(*value.Object); !ok {
			return false
		}
	}
	return true
}

func tomlValue(fa FieldAccessor, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.String:
		return EscapeJSONString(x.Go()), nil
	case value.Number:
		return FormatNumber(float64(x)), nil
	case value.Bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case value.Null:
		return "", errf("manifestToml: null is not representable in TOML")
	case value.Array:
		var parts []string
		for _, t := range x {
			elem, err := t.Force()
			if err != nil {
				return "", err
			}
			s, err := tomlValue(fa, elem)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return "[" + strings.Join(parts, ", ") + "]", nil
	case *value.Object:
		names := fa.VisibleFields(x)
		var parts []string
		for _, name := range names {
			fv, err := fa.GetField(x, name)
			if err != nil {
				return "", err
			}
			s, err := tomlValue(fa, fv)
			if err != nil {
				return "", err
			}
			parts = append(parts, tomlKey(name)+" = "+s)
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	default:
		return "", errf("cannot manifest value of kind %s as TOML", v.Kind())
	}
}

func tomlKeys(path []string) []string {
	out := make([]string, len(path))
	for i, p := range path {
		out[i] = tomlKey(p)
	}
	return out
}

func tomlKey(s string) string {
	bare := true
	if s == "" {
		bare = false
	}
	for _, r := range s {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			bare = false
			break
		}
	}
	if bare {
		return s
	}
	return EscapeJSONString(s)
}
