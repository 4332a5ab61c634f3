package manifest

import (
	"strconv"
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestPython implements std.manifestPython: v renders as a Python
// literal (spec.md §4.5) — a JSON-like syntax except None/True/False;
// strings are double-quoted by strconv.Quote.
func ManifestPython(fa FieldAccessor, v value.Value) (string, error) {
	var b strings.Builder
	if err := writePython(&b, fa, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ManifestPythonVars implements std.manifestPythonVars: root's fields
// become top-level `name = value` assignments, one per line, in field order.
func ManifestPythonVars(fa FieldAccessor, root *value.Object) (string, error) {
	var b strings.Builder
	for _, name := range fa.VisibleFields(root) {
		v, err := fa.GetField(root, name)
		if err != nil {
			return "", err
		}
		b.WriteString(name)
		b.WriteString(" = ")
		if err := writePython(&b, fa, v); err != nil {
			return "", err
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func writePython(b *strings.Builder, fa FieldAccessor, v value.Value) error {
	switch x := v.(type) {
	case value.Null:
		b.WriteString("None")
	case value.Bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case value.Number:
		b.WriteString(FormatNumber(float64(x)))
	case value.String:
		b.WriteString(pythonQuote(x.Go()))
	case value.Array:
		b.WriteByte('[')
		for i, elemThunk := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			elem, err := elemThunk.Force()
			if err != nil {
				return err
			}
			if err := writePython(b, fa, elem); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case *value.Object:
		names := fa.VisibleFields(x)
		b.WriteByte('{')
		for i, name := range names {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(pythonQuote(name))
			b.WriteString(": ")
			fv, err := fa.GetField(x, name)
			if err != nil {
				return err
			}
			if err := writePython(b, fa, fv); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	case value.Function:
		return errf("tried to manifest function")
	default:
		return errf("cannot manifest value of kind %s", v.Kind())
	}
	return nil
}

func pythonQuote(s string) string {
	q := strconv.Quote(s)
	// strconv.Quote uses double quotes; Python's json-ish repr for manifestPython
	// keeps double quotes too, since Jsonnet's own reference manifester does.
	return q
}
