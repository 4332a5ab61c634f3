package manifest

import (
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestXMLJsonml implements std.manifestXmlJsonml: v must be a JsonML
// node, `[tag, attrs?, child, child, ...]` where attrs is an optional object
// of attribute name/value pairs and each child is either a string (a text
// node) or another JsonML array (spec.md §4.5).
func ManifestXMLJsonml(fa FieldAccessor, v value.Value) (string, error) {
	var b strings.Builder
	if err := writeXMLNode(&b, fa, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeXMLNode(b *strings.Builder, fa FieldAccessor, v value.Value) error {
	arr, ok := v.(value.Array)
	if !ok || len(arr) == 0 {
		return errf("manifestXmlJsonml: node must be a non-empty array, got %s", v.Kind())
	}
	tagVal, err := arr[0].Force()
	if err != nil {
		return err
	}
	tag, ok := tagVal.(value.String)
	if !ok {
		return errf("manifestXmlJsonml: tag must be a string, got %s", tagVal.Kind())
	}

	rest := arr[1:]
	var attrs *value.Object
	if len(rest) > 0 {
		first, err := rest[0].Force()
		if err != nil {
			return err
		}
		if o, ok := first.(*value.Object); ok {
			attrs = o
			rest = rest[1:]
		}
	}

	b.WriteByte('<')
	b.WriteString(tag.Go())
	if attrs != nil {
		for _, name := range fa.VisibleFields(attrs) {
			av, err := fa.GetField(attrs, name)
			if err != nil {
				return err
			}
			as, ok := av.(value.String)
			if !ok {
				return errf("manifestXmlJsonml: attribute %q must be a string", name)
			}
			b.WriteByte(' ')
			b.WriteString(name)
			b.WriteString(`="`)
			b.WriteString(xmlEscapeAttr(as.Go()))
			b.WriteByte('"')
		}
	}
	if len(rest) == 0 {
		b.WriteString("/>")
		return nil
	}
	b.WriteByte('>')
	for _, childThunk := range rest {
		child, err := childThunk.Force()
		if err != nil {
			return err
		}
		if s, ok := child.(value.String); ok {
			b.WriteString(xmlEscapeText(s.Go()))
			continue
		}
		if err := writeXMLNode(b, fa, child); err != nil {
			return err
		}
	}
	b.WriteString("</")
	b.WriteString(tag.Go())
	b.WriteByte('>')
	return nil
}

func xmlEscapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func xmlEscapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
