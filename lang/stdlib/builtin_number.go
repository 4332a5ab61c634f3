package stdlib

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsonnet-run/jsonnet/lang/value"
)

func numberBuiltins() []*value.Builtin {
	unary := func(name string, f func(float64) float64) *value.Builtin {
		return &value.Builtin{Name: name, Params: []string{"x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			x, err := forceNumber(args[0], name)
			if err != nil {
				return nil, err
			}
			return value.Number(f(x)), nil
		}}
	}
	return []*value.Builtin{
		unary("floor", math.Floor),
		unary("ceil", math.Ceil),
		unary("sqrt", math.Sqrt),
		unary("sin", math.Sin),
		unary("cos", math.Cos),
		unary("tan", math.Tan),
		unary("asin", math.Asin),
		unary("acos", math.Acos),
		unary("atan", math.Atan),
		unary("exp", math.Exp),
		unary("log", math.Log),
		{Name: "pow", Params: []string{"x", "n"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			x, err := forceNumber(args[0], "pow")
			if err != nil {
				return nil, err
			}
			n, err := forceNumber(args[1], "pow")
			if err != nil {
				return nil, err
			}
			return value.Number(math.Pow(x, n)), nil
		}},
		{Name: "atan2", Params: []string{"y", "x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			y, err := forceNumber(args[0], "atan2")
			if err != nil {
				return nil, err
			}
			x, err := forceNumber(args[1], "atan2")
			if err != nil {
				return nil, err
			}
			return value.Number(math.Atan2(y, x)), nil
		}},
		{Name: "modulo", Params: []string{"x", "y"}, Fn: builtinModulo},
		{Name: "exponent", Params: []string{"x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			x, err := forceNumber(args[0], "exponent")
			if err != nil {
				return nil, err
			}
			_, exp := math.Frexp(x)
			return value.Number(exp), nil
		}},
		{Name: "mantissa", Params: []string{"x"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			x, err := forceNumber(args[0], "mantissa")
			if err != nil {
				return nil, err
			}
			frac, _ := math.Frexp(x)
			return value.Number(frac), nil
		}},
		{Name: "parseInt", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "parseInt")
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s.Go()), 10, 64)
			if err != nil {
				return nil, errf("parseInt: invalid integer %q", s.Go())
			}
			return value.Number(n), nil
		}},
		{Name: "parseOctal", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "parseOctal")
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s.Go()), 8, 64)
			if err != nil {
				return nil, errf("parseOctal: invalid octal %q", s.Go())
			}
			return value.Number(n), nil
		}},
		{Name: "parseHex", Params: []string{"str"}, Fn: func(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
			s, err := forceString(args[0], "parseHex")
			if err != nil {
				return nil, err
			}
			n, err := strconv.ParseInt(strings.TrimSpace(s.Go()), 16, 64)
			if err != nil {
				return nil, errf("parseHex: invalid hex %q", s.Go())
			}
			return value.Number(n), nil
		}},
	}
}

// builtinModulo implements std.modulo, whose result sign follows the
// dividend (spec.md §8: `(-5.5) % 2 == -1.5`), matching Go's math.Mod.
func builtinModulo(ev value.Evaluator, args []*value.Thunk) (value.Value, error) {
	x, err := forceNumber(args[0], "modulo")
	if err != nil {
		return nil, err
	}
	y, err := forceNumber(args[1], "modulo")
	if err != nil {
		return nil, err
	}
	return value.Number(math.Mod(x, y)), nil
}
