package manifest

import (
	"strconv"
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

// ManifestYAMLDoc renders v as a single YAML document (spec.md §4.5
// std.manifestYamlDoc). indentArrayInObject controls whether an array
// value nested under a mapping key is indented under it or left flush with
// the key (spec.md §4.6).
func ManifestYAMLDoc(fa FieldAccessor, v value.Value, indentArrayInObject bool) (string, error) {
	var b strings.Builder
	if err := writeYAML(&b, fa, v, 0, indentArrayInObject, true); err != nil {
		return "", err
	}
	s := b.String()
	return strings.TrimSuffix(s, "\n") + "\n", nil
}

// ManifestYAMLStream renders each element of arr as its own document,
// separated by `---` (spec.md §4.5 std.manifestYamlStream).
func ManifestYAMLStream(fa FieldAccessor, arr value.Array) (string, error) {
	var b strings.Builder
	for _, elemThunk := range arr {
		elem, err := elemThunk.Force()
		if err != nil {
			return "", err
		}
		doc, err := ManifestYAMLDoc(fa, elem, true)
		if err != nil {
			return "", err
		}
		b.WriteString("---\n")
		b.WriteString(doc)
	}
	b.WriteString("...\n")
	return b.String(), nil
}

func writeYAML(b *strings.Builder, fa FieldAccessor, v value.Value, depth int, indentArray, topLevel bool) error {
	switch x := v.(type) {
	case value.Null:
		b.WriteString("null\n")
	case value.Bool:
		if x {
			b.WriteString("true\n")
		} else {
			b.WriteString("false\n")
		}
	case value.Number:
		b.WriteString(FormatNumber(float64(x)))
		b.WriteByte('\n')
	case value.String:
		writeYAMLScalarString(b, x.Go(), depth)
	case value.Array:
		if len(x) == 0 {
			b.WriteString("[]\n")
			return nil
		}
		for _, elemThunk := range x {
			writeYAMLIndent(b, depth)
			b.WriteString("- ")
			elem, err := elemThunk.Force()
			if err != nil {
				return err
			}
			if err := writeYAMLInline(b, fa, elem, depth+1, indentArray); err != nil {
				return err
			}
		}
	case *value.Object:
		names := fa.VisibleFields(x)
		if len(names) == 0 {
			b.WriteString("{}\n")
			return nil
		}
		for _, name := range names {
			writeYAMLIndent(b, depth)
			b.WriteString(yamlKey(name))
			b.WriteByte(':')
			fv, err := fa.GetField(x, name)
			if err != nil {
				return err
			}
			if isYAMLScalarInline(fv) {
				b.WriteByte(' ')
				if err := writeYAML(b, fa, fv, depth+1, indentArray, false); err != nil {
					return err
				}
			} else {
				b.WriteByte('\n')
				childDepth := depth + 1
				if _, isArr := fv.(value.Array); isArr && !indentArray {
					childDepth = depth
				}
				if err := writeYAML(b, fa, fv, childDepth, indentArray, false); err != nil {
					return err
				}
			}
		}
	case value.Function:
		return errf("tried to manifest function")
	default:
		return errf("cannot manifest value of kind %s", v.Kind())
	}
	return nil
}

// writeYAMLInline writes a value that follows a `- ` array marker on the
// same line for scalars, or starting a nested block otherwise.
func writeYAMLInline(b *strings.Builder, fa FieldAccessor, v value.Value, depth int, indentArray bool) error {
	if isYAMLScalarInline(v) {
		return writeYAML(b, fa, v, depth, indentArray, false)
	}
	// Nested object/array under a list item: render on subsequent lines,
	// but the first line must line up after "- ".
	var nested strings.Builder
	if err := writeYAML(&nested, fa, v, depth, indentArray, false); err != nil {
		return err
	}
	lines := strings.SplitAfter(nested.String(), "\n")
	prefix := strings.Repeat("  ", depth)
	for i, line := range lines {
		if line == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.TrimPrefix(line, prefix))
		} else {
			b.WriteString(line)
		}
	}
	return nil
}

func isYAMLScalarInline(v value.Value) bool {
	switch x := v.(type) {
	case value.Null, value.Bool, value.Number:
		return true
	case value.String:
		return !strings.Contains(x.Go(), "\n")
	}
	return false
}

func writeYAMLIndent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

// writeYAMLScalarString renders a string value: multi-line strings ending
// in \n use a literal block scalar `|` (spec.md §4.6); everything else is
// quoted per the heuristic in yamlNeedsQuote.
func writeYAMLScalarString(b *strings.Builder, s string, depth int) {
	if strings.Contains(s, "\n") && strings.HasSuffix(s, "\n") && !strings.Contains(strings.TrimSuffix(s, "\n"), "\n\n") {
		b.WriteString("|\n")
		body := strings.TrimSuffix(s, "\n")
		indent := strings.Repeat("  ", depth+1)
		for _, line := range strings.Split(body, "\n") {
			b.WriteString(indent)
			b.WriteString(line)
			b.WriteByte('\n')
		}
		return
	}
	b.WriteString(yamlScalar(s))
	b.WriteByte('\n')
}

func yamlKey(s string) string { return yamlScalar(s) }

// yamlScalar quotes s if it would otherwise be misread as a non-string
// YAML token: empty, a reserved word, a number, or containing structural
// characters (spec.md §9 open question on plain-vs-quoted scalars).
func yamlScalar(s string) string {
	if yamlNeedsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}

func yamlNeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	switch s {
	case "true", "false", "null", "~", "True", "False", "Null", "TRUE", "FALSE", "NULL",
		"yes", "no", "Yes", "No", "YES", "NO", "on", "off", "On", "Off", "ON", "OFF":
		return true
	}
	if looksLikeYAMLNumber(s) {
		return true
	}
	if s[0] == ' ' || s[len(s)-1] == ' ' {
		return true
	}
	switch s[0] {
	case '!', '&', '*', '?', '|', '>', '%', '@', '`', '"', '\'', '#', ',', '[', ']', '{', '}', '-', ':':
		return true
	}
	if strings.ContainsAny(s, ":#\n\t") {
		return true
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return true
	}
	return false
}

func looksLikeYAMLNumber(s string) bool {
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	return false
}
