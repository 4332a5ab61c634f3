package manifest

import (
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// EscapeJSONString renders s as a double-quoted JSON string literal.
func EscapeJSONString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 {
				b.WriteString(`\u`)
				const hex = "0123456789abcdef"
				b.WriteByte(hex[(r>>12)&0xf])
				b.WriteByte(hex[(r>>8)&0xf])
				b.WriteByte(hex[(r>>4)&0xf])
				b.WriteByte(hex[r&0xf])
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ManifestJSON renders v with the default 4-space indent (spec.md §4.5
// std.manifestJson).
func ManifestJSON(fa FieldAccessor, v value.Value) (string, error) {
	return ManifestJSONEx(fa, v, "    ", "\n", ": ")
}

// ManifestJSONMinified renders v with no extraneous whitespace.
func ManifestJSONMinified(fa FieldAccessor, v value.Value) (string, error) {
	return ManifestJSONEx(fa, v, "", "", ":")
}

// ManifestJSONEx implements std.manifestJsonEx(value, indent, newline, kvSep).
func ManifestJSONEx(fa FieldAccessor, v value.Value, indent, newline, kvSep string) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, fa, v, indent, newline, kvSep, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, fa FieldAccessor, v value.Value, indent, newline, kvSep string, depth int) error {
	switch x := v.(type) {
	case value.Null:
		b.WriteString("null")
	case value.Bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Number:
		b.WriteString(FormatNumber(float64(x)))
	case value.String:
		b.WriteString(EscapeJSONString(x.Go()))
	case value.Array:
		if len(x) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteByte('[')
		b.WriteString(newline)
		for i, elemThunk := range x {
			writeIndent(b, indent, depth+1)
			elem, err := elemThunk.Force()
			if err != nil {
				return err
			}
			if err := writeJSON(b, fa, elem, indent, newline, kvSep, depth+1); err != nil {
				return err
			}
			if i != len(x)-1 {
				b.WriteByte(',')
			}
			b.WriteString(newline)
		}
		writeIndent(b, indent, depth)
		b.WriteByte(']')
	case *value.Object:
		names := fa.VisibleFields(x)
		if len(names) == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteByte('{')
		b.WriteString(newline)
		for i, name := range names {
			writeIndent(b, indent, depth+1)
			b.WriteString(EscapeJSONString(name))
			b.WriteString(kvSep)
			fv, err := fa.GetField(x, name)
			if err != nil {
				return err
			}
			if err := writeJSON(b, fa, fv, indent, newline, kvSep, depth+1); err != nil {
				return err
			}
			if i != len(names)-1 {
				b.WriteByte(',')
			}
			b.WriteString(newline)
		}
		writeIndent(b, indent, depth)
		b.WriteByte('}')
	case value.Function:
		return errf("tried to manifest function")
	default:
		return errf("cannot manifest value of kind %s", v.Kind())
	}
	return nil
}

func writeIndent(b *strings.Builder, indent string, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indent)
	}
}
