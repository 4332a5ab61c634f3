package stdlib

import (
	"strconv"
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func formatBuiltins() []*value.Builtin {
	return []*value.Builtin{
		{Name: "format", Params: []string{"str", "vals"}, Fn: builtinFormat},
	}
}

// builtinFormat implements std.format: printf-style conversions over a
// positional-or-named argument source (spec.md §4.5). A single non-array,
// non-object argument is treated as a one-element array; a short argument
// list raises a domain error rather than panicking.
func builtinFormat(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	fs, err := forceString(args[0], "format")
	if err != nil {
		return nil, err
	}
	v, err := args[1].Force()
	if err != nil {
		return nil, err
	}
	var positional value.Array
	var named *value.Object
	switch x := v.(type) {
	case value.Array:
		positional = x
	case *value.Object:
		named = x
	default:
		positional = value.Array{args[1]}
	}
	out, err := formatString(ev, fs.Go(), positional, named)
	if err != nil {
		return nil, err
	}
	return value.NewString(out), nil
}

type formatSpec struct {
	flagMinus, flagPlus, flagZero, flagSpace, flagHash bool
	width, prec                                        int
	hasWidth, hasPrec                                  bool
	widthFromArg, precFromArg                          bool
	verb                                                rune
	name                                                string
}

func formatString(ev value.Evaluator, tmpl string, positional value.Array, named *value.Object) (string, error) {
	var b strings.Builder
	pos := 0
	nextArg := func() (*value.Thunk, error) {
		if pos >= len(positional) {
			return nil, errf("format: not enough arguments for the given format string")
		}
		t := positional[pos]
		pos++
		return t, nil
	}
	runes := []rune(tmpl)
	i := 0
	for i < len(runes) {
		r := runes[i]
		if r != '%' {
			b.WriteRune(r)
			i++
			continue
		}
		i++
		if i >= len(runes) {
			return "", errf("format: dangling %% at end of format string")
		}
		if runes[i] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		spec := &formatSpec{}
		if runes[i] == '(' {
			j := i + 1
			for j < len(runes) && runes[j] != ')' {
				j++
			}
			if j >= len(runes) {
				return "", errf("format: unterminated %%(name) reference")
			}
			spec.name = string(runes[i+1 : j])
			i = j + 1
		}
		for i < len(runes) {
			switch runes[i] {
			case '-':
				spec.flagMinus = true
			case '+':
				spec.flagPlus = true
			case '0':
				spec.flagZero = true
			case ' ':
				spec.flagSpace = true
			case '#':
				spec.flagHash = true
			default:
				goto flagsDone
			}
			i++
		}
	flagsDone:
		if i < len(runes) && runes[i] == '*' {
			spec.hasWidth = true
			spec.widthFromArg = true
			i++
		} else {
			start := i
			for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
				i++
			}
			if i > start {
				spec.hasWidth = true
				spec.width, _ = strconv.Atoi(string(runes[start:i]))
			}
		}
		if i < len(runes) && runes[i] == '.' {
			i++
			spec.hasPrec = true
			if i < len(runes) && runes[i] == '*' {
				spec.precFromArg = true
				i++
			} else {
				start := i
				for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
					i++
				}
				spec.prec, _ = strconv.Atoi(string(runes[start:i]))
			}
		}
		for i < len(runes) && strings.ContainsRune("hlL", runes[i]) {
			i++
		}
		if i >= len(runes) {
			return "", errf("format: truncated conversion specification")
		}
		spec.verb = runes[i]
		i++

		var argThunk *value.Thunk
		var err error
		if spec.name != "" {
			if named == nil {
				return "", errf("format: %%(%s) used without an object argument", spec.name)
			}
			v, err := ev.GetField(named, spec.name)
			if err != nil {
				return "", err
			}
			argThunk = value.Ready(v)
		}
		if spec.widthFromArg {
			t, e := nextArg()
			if e != nil {
				return "", e
			}
			spec.width, err = forceInt(t, "format")
			if err != nil {
				return "", err
			}
		}
		if spec.precFromArg {
			t, e := nextArg()
			if e != nil {
				return "", e
			}
			spec.prec, err = forceInt(t, "format")
			if err != nil {
				return "", err
			}
		}
		if spec.verb != '%' && argThunk == nil {
			argThunk, err = nextArg()
			if err != nil {
				return "", err
			}
		}
		s, err := renderConversion(ev, spec, argThunk)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func renderConversion(ev value.Evaluator, spec *formatSpec, arg *value.Thunk) (string, error) {
	switch spec.verb {
	case 'd', 'i', 'u':
		n, err := forceNumber(arg, "format")
		if err != nil {
			return "", err
		}
		return padNumeric(spec, strconv.FormatInt(int64(n), 10), n < 0), nil
	case 'o':
		n, err := forceNumber(arg, "format")
		if err != nil {
			return "", err
		}
		digits := strconv.FormatInt(int64(n), 8)
		if spec.flagHash {
			digits = "0" + digits
		}
		return padNumeric(spec, digits, n < 0), nil
	case 'x', 'X':
		n, err := forceNumber(arg, "format")
		if err != nil {
			return "", err
		}
		digits := strconv.FormatInt(int64(n), 16)
		if spec.verb == 'X' {
			digits = strings.ToUpper(digits)
		}
		if spec.flagHash {
			if spec.verb == 'X' {
				digits = "0X" + digits
			} else {
				digits = "0x" + digits
			}
		}
		return padNumeric(spec, digits, n < 0), nil
	case 'e', 'E', 'f', 'F', 'g', 'G':
		n, err := forceNumber(arg, "format")
		if err != nil {
			return "", err
		}
		prec := 6
		if spec.hasPrec {
			prec = spec.prec
		}
		verb := byte(spec.verb)
		var s string
		if spec.flagHash && (spec.verb == 'g' || spec.verb == 'G') {
			s = formatGHash(n, prec, spec.verb == 'G')
		} else {
			s = strconv.FormatFloat(n, verb, prec, 64)
		}
		return padNumeric(spec, s, n < 0), nil
	case 'c':
		v, err := arg.Force()
		if err != nil {
			return "", err
		}
		switch x := v.(type) {
		case value.Number:
			return padString(spec, string(rune(x))), nil
		case value.String:
			return padString(spec, x.Go()), nil
		default:
			return "", errf("format: %%c expects a number or single-character string")
		}
	case 's':
		v, err := arg.Force()
		if err != nil {
			return "", err
		}
		s, ok := v.(value.String)
		var text string
		if ok {
			text = s.Go()
		} else {
			m, err := ev.ManifestJSONMinified(v)
			if err != nil {
				return "", err
			}
			text = m
		}
		if spec.hasPrec && spec.prec < len([]rune(text)) {
			text = string([]rune(text)[:spec.prec])
		}
		return padString(spec, text), nil
	default:
		return "", errf("format: unsupported conversion %%%c", spec.verb)
	}
}

func padNumeric(spec *formatSpec, digits string, negative bool) string {
	sign := ""
	if negative {
		sign = "-"
		digits = strings.TrimPrefix(digits, "-")
	} else if spec.flagPlus {
		sign = "+"
	} else if spec.flagSpace {
		sign = " "
	}
	if spec.hasPrec && len(digits) < spec.prec {
		digits = strings.Repeat("0", spec.prec-len(digits)) + digits
	}
	body := sign + digits
	total := len(body)
	if spec.hasWidth && total < spec.width {
		pad := spec.width - total
		if spec.flagMinus {
			return body + strings.Repeat(" ", pad)
		}
		if spec.flagZero && !spec.hasPrec {
			return sign + strings.Repeat("0", pad) + digits
		}
		return strings.Repeat(" ", pad) + body
	}
	return body
}

// formatGHash implements the `#` flag for %g/%G: unlike Go's 'g' verb,
// which always strips trailing zeros and a bare decimal point regardless of
// the requested precision, printf's #g keeps them. Go's strconv has no such
// mode for 'g', so this picks the same 'e'-vs-'f' style %g would (based on
// the decimal exponent) and then formats with that style's explicit,
// non-stripping precision instead.
func formatGHash(n float64, prec int, upper bool) string {
	if prec <= 0 {
		prec = 1
	}
	probe := strconv.FormatFloat(n, 'e', prec-1, 64)
	exp := 0
	if i := strings.IndexByte(probe, 'e'); i >= 0 {
		exp, _ = strconv.Atoi(probe[i+1:])
	}
	verb := byte('f')
	fracDigits := prec - 1 - exp
	if exp < -4 || exp >= prec {
		verb = 'e'
		fracDigits = prec - 1
	}
	if fracDigits < 0 {
		fracDigits = 0
	}
	s := strconv.FormatFloat(n, verb, fracDigits, 64)
	if upper {
		s = strings.ToUpper(s)
	}
	return s
}

func padString(spec *formatSpec, s string) string {
	n := len([]rune(s))
	if spec.hasWidth && n < spec.width {
		pad := strings.Repeat(" ", spec.width-n)
		if spec.flagMinus {
			return s + pad
		}
		return pad + s
	}
	return s
}
