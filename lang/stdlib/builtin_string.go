package stdlib

import (
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/manifest"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

func stringBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "char", Params: []string{"n"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			n, err := forceNumber(args[0], "char")
			if err != nil {
				return nil, err
			}
			return value.String{rune(n)}, nil
		}},
		{Name: "codepoint", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "codepoint")
			if err != nil {
				return nil, err
			}
			if len(s) != 1 {
				return nil, errf("codepoint: expected a single-character string, got length %d", len(s))
			}
			return value.Number(s[0]), nil
		}},
		{Name: "toString", Params: []string{"a"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			s, err := ev.ToStringValue(v)
			if err != nil {
				return nil, err
			}
			return value.NewString(s), nil
		}},
		{Name: "substr", Params: []string{"str", "from", "len"}, Fn: builtinSubstr},
		{Name: "startsWith", Params: []string{"a", "b"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			a, err := forceString(args[0], "startsWith")
			if err != nil {
				return nil, err
			}
			b, err := forceString(args[1], "startsWith")
			if err != nil {
				return nil, err
			}
			return value.Bool(strings.HasPrefix(a.Go(), b.Go())), nil
		}},
		{Name: "endsWith", Params: []string{"a", "b"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			a, err := forceString(args[0], "endsWith")
			if err != nil {
				return nil, err
			}
			b, err := forceString(args[1], "endsWith")
			if err != nil {
				return nil, err
			}
			return value.Bool(strings.HasSuffix(a.Go(), b.Go())), nil
		}},
		{Name: "stringChars", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "stringChars")
			if err != nil {
				return nil, err
			}
			out := make(value.Array, len(s))
			for i, r := range s {
				out[i] = value.Ready(value.String{r})
			}
			return out, nil
		}},
		{Name: "findSubstr", Params: []string{"pat", "str"}, Fn: builtinFindSubstr},
		{Name: "strReplace", Params: []string{"str", "from", "to"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "strReplace")
			if err != nil {
				return nil, err
			}
			from, err := forceString(args[1], "strReplace")
			if err != nil {
				return nil, err
			}
			to, err := forceString(args[2], "strReplace")
			if err != nil {
				return nil, err
			}
			if len(from) == 0 {
				return nil, errf("strReplace: 'from' string must not be empty")
			}
			return value.NewString(strings.ReplaceAll(s.Go(), from.Go(), to.Go())), nil
		}},
		{Name: "split", Params: []string{"str", "c"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			return builtinSplitLimit(args[0], args[1], -1)
		}},
		{Name: "splitLimit", Params: []string{"str", "c", "maxsplits"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			max, err := forceInt(args[2], "splitLimit")
			if err != nil {
				return nil, err
			}
			return builtinSplitLimit(args[0], args[1], max)
		}},
		{Name: "splitLimitR", Params: []string{"str", "c", "maxsplits"}, Fn: builtinSplitLimitR},
		{Name: "asciiLower", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "asciiLower")
			if err != nil {
				return nil, err
			}
			return value.NewString(asciiFold(s.Go(), false)), nil
		}},
		{Name: "asciiUpper", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "asciiUpper")
			if err != nil {
				return nil, err
			}
			return value.NewString(asciiFold(s.Go(), true)), nil
		}},
		{Name: "trim", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "trim")
			if err != nil {
				return nil, err
			}
			return value.NewString(strings.TrimSpace(s.Go())), nil
		}},
		{Name: "equalsIgnoreCase", Params: []string{"str1", "str2"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			a, err := forceString(args[0], "equalsIgnoreCase")
			if err != nil {
				return nil, err
			}
			b, err := forceString(args[1], "equalsIgnoreCase")
			if err != nil {
				return nil, err
			}
			return value.Bool(strings.EqualFold(a.Go(), b.Go())), nil
		}},
		{Name: "escapeStringJson", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			v, err := args[0].Force()
			if err != nil {
				return nil, err
			}
			// Coerce to toString-style text first (the same path `+`'s
			// string coercion uses), then quote/escape that text as a JSON
			// string literal — escapeStringJson is a string-only escaper
			// pushed to accept anything by coercing, not a JSON manifester.
			s, err := ev.ToStringValue(v)
			if err != nil {
				return nil, err
			}
			return value.NewString(manifest.EscapeJSONString(s)), nil
		}},
		{Name: "escapeStringBash", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "escapeStringBash")
			if err != nil {
				return nil, err
			}
			return value.NewString("'" + strings.ReplaceAll(s.Go(), "'", `'"'"'`) + "'"), nil
		}},
		{Name: "escapeStringDollars", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "escapeStringDollars")
			if err != nil {
				return nil, err
			}
			return value.NewString(strings.ReplaceAll(s.Go(), "$", "$$")), nil
		}},
		{Name: "escapeStringXML", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "escapeStringXML")
			if err != nil {
				return nil, err
			}
			r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&apos;")
			return value.NewString(r.Replace(s.Go())), nil
		}},
	}
}

func asciiFold(s string, upper bool) string {
	rs := []rune(s)
	for i, r := range rs {
		if upper && r >= 'a' && r <= 'z' {
			rs[i] = r - ('a' - 'A')
		} else if !upper && r >= 'A' && r <= 'Z' {
			rs[i] = r + ('a' - 'A')
		}
	}
	return string(rs)
}

func builtinSubstr(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	s, err := forceString(args[0], "substr")
	if err != nil {
		return nil, err
	}
	from, err := forceInt(args[1], "substr")
	if err != nil {
		return nil, err
	}
	length, err := forceInt(args[2], "substr")
	if err != nil {
		return nil, err
	}
	if from < 0 || from > len(s) {
		return nil, errf("substr: index %d out of bounds for string of length %d", from, len(s))
	}
	end := from + length
	if end > len(s) {
		end = len(s)
	}
	if end < from {
		end = from
	}
	return value.String(append(value.String{}, s[from:end]...)), nil
}

// builtinFindSubstr returns the character indices (not byte indices) at
// which pat occurs in str, matching spec.md §4.5's non-ASCII first-char note
// by scanning rune-by-rune rather than delegating to strings.Index.
func builtinFindSubstr(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	pat, err := forceString(args[0], "findSubstr")
	if err != nil {
		return nil, err
	}
	str, err := forceString(args[1], "findSubstr")
	if err != nil {
		return nil, err
	}
	var out value.Array
	if len(pat) == 0 {
		return out, nil
	}
	for i := 0; i+len(pat) <= len(str); i++ {
		if runesEqual(str[i:i+len(pat)], pat) {
			out = append(out, value.Ready(value.Number(i)))
		}
	}
	return out, nil
}

func runesEqual(a, b value.String) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func builtinSplitLimit(strT, cT *value.Thunk, maxSplits int) (value.Value, error) {
	s, err := forceString(strT, "split")
	if err != nil {
		return nil, err
	}
	c, err := forceString(cT, "split")
	if err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return nil, errf("split: separator must not be empty")
	}
	n := -1
	if maxSplits >= 0 {
		n = maxSplits + 1
	}
	parts := strings.SplitN(s.Go(), c.Go(), n)
	out := make(value.Array, len(parts))
	for i, p := range parts {
		out[i] = value.Ready(value.NewString(p))
	}
	return out, nil
}

func builtinSplitLimitR(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	s, err := forceString(args[0], "splitLimitR")
	if err != nil {
		return nil, err
	}
	c, err := forceString(args[1], "splitLimitR")
	if err != nil {
		return nil, err
	}
	max, err := forceInt(args[2], "splitLimitR")
	if err != nil {
		return nil, err
	}
	if len(c) == 0 {
		return nil, errf("splitLimitR: separator must not be empty")
	}
	if max < 0 {
		parts := strings.Split(s.Go(), c.Go())
		return stringsToArray(parts), nil
	}
	// Split from the right: reverse, split from the left, reverse back.
	rev := reverseString(s.Go())
	revSep := reverseString(c.Go())
	parts := strings.SplitN(rev, revSep, max+1)
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	for i, p := range parts {
		parts[i] = reverseString(p)
	}
	return stringsToArray(parts), nil
}

func stringsToArray(ss []string) value.Array {
	out := make(value.Array, len(ss))
	for i, s := range ss {
		out[i] = value.Ready(value.NewString(s))
	}
	return out
}

func reverseString(s string) string {
	rs := []rune(s)
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}
