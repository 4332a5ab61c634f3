package manifest

import (
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestINI implements std.manifestIni: root must be `{main?: object,
// sections: object-of-objects}` (spec.md §4.6).
func ManifestINI(fa FieldAccessor, root *value.Object) (string, error) {
	var b strings.Builder
	mainVal, err := fa.GetField(root, "main")
	if err == nil {
		if mainObj, ok := mainVal.(*value.Object); ok {
			if err := writeINIKeyValues(&b, fa, mainObj); err != nil {
				return "", err
			}
		}
	}
	sectionsVal, err := fa.GetField(root, "sections")
	if err != nil {
		return "", errf("manifestIni: missing 'sections' field")
	}
	sections, ok := sectionsVal.(*value.Object)
	if !ok {
		return "", errf("manifestIni: 'sections' must be an object")
	}
	for _, name := range fa.VisibleFields(sections) {
		sv, err := fa.GetField(sections, name)
		if err != nil {
			return "", err
		}
		sObj, ok := sv.(*value.Object)
		if !ok {
			return "", errf("manifestIni: section %q must be an object", name)
		}
		b.WriteByte('[')
		b.WriteString(name)
		b.WriteString("]\n")
		if err := writeINIKeyValues(&b, fa, sObj); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeINIKeyValues(b *strings.Builder, fa FieldAccessor, o *value.Object) error {
	for _, name := range fa.VisibleFields(o) {
		v, err := fa.GetField(o, name)
		if err != nil {
			return err
		}
		if arr, ok := v.(value.Array); ok {
			for _, elemThunk := range arr {
				elem, err := elemThunk.Force()
				if err != nil {
					return err
				}
				s, err := iniScalar(fa, elem)
				if err != nil {
					return err
				}
				b.WriteString(name)
				b.WriteString(" = ")
				b.WriteString(s)
				b.WriteByte('\n')
			}
			continue
		}
		s, err := iniScalar(fa, v)
		if err != nil {
			return err
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(s)
		b.WriteByte('\n')
	}
	return nil
}

// iniScalar renders a value via the JSON-ish "toString" rule spec.md §4.6
// specifies for nested objects; plain scalars render without quoting.
func iniScalar(fa FieldAccessor, v value.Value) (string, error) {
	switch x := v.(type) {
	case value.String:
		return x.Go(), nil
	case value.Number:
		return FormatNumber(float64(x)), nil
	case value.Bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case value.Null:
		return "null", nil
	default:
		return ManifestJSONMinified(fa, v)
	}
}
