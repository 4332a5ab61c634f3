package eval

import (
	"fmt"
	"math"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/manifest"
	"github.com/jsonnet-run/jsonnet/lang/token"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

func (ev *Evaluator) evalUnary(env *value.Env, n *ast.UnaryExpr) (value.Value, error) {
	v, err := ev.eval(env, n.Operand)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.MINUS:
		num, ok := v.(value.Number)
		if !ok {
			return nil, ev.errorf(env, n.Start, "unary - requires a number, got %s", v.Kind())
		}
		return -num, nil
	case token.PLUS:
		num, ok := v.(value.Number)
		if !ok {
			return nil, ev.errorf(env, n.Start, "unary + requires a number, got %s", v.Kind())
		}
		return num, nil
	case token.BANG:
		b, ok := v.(value.Bool)
		if !ok {
			return nil, ev.errorf(env, n.Start, "! requires a boolean, got %s", v.Kind())
		}
		return !b, nil
	case token.TILDE:
		i, err := ev.toSafeInt(env, n.Start, v)
		if err != nil {
			return nil, err
		}
		return value.Number(float64(^i)), nil
	default:
		return nil, ev.errorf(env, n.Start, "internal error: unhandled unary operator %s", n.Op)
	}
}

func (ev *Evaluator) evalBinary(env *value.Env, n *ast.BinaryExpr) (value.Value, error) {
	// && and || short-circuit; every other operator forces both operands
	// left-to-right (spec.md §4.4).
	if n.Op == token.ANDAND || n.Op == token.OROR {
		l, err := ev.eval(env, n.Left)
		if err != nil {
			return nil, err
		}
		lb, ok := l.(value.Bool)
		if !ok {
			return nil, ev.errorf(env, n.Start, "%s requires a boolean, got %s", n.Op, l.Kind())
		}
		if n.Op == token.ANDAND && !bool(lb) {
			return value.Bool(false), nil
		}
		if n.Op == token.OROR && bool(lb) {
			return value.Bool(true), nil
		}
		r, err := ev.eval(env, n.Right)
		if err != nil {
			return nil, err
		}
		rb, ok := r.(value.Bool)
		if !ok {
			return nil, ev.errorf(env, n.Start, "%s requires a boolean, got %s", n.Op, r.Kind())
		}
		return rb, nil
	}

	if n.Op == token.IN {
		return ev.evalIn(env, n)
	}

	l, err := ev.eval(env, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := ev.eval(env, n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case token.PLUS:
		return ev.binaryPlus(env, n.Start, l, r)
	case token.MINUS, token.STAR, token.SLASH, token.PERCENT:
		return ev.arith(env, n.Start, n.Op, l, r)
	case token.EQEQ:
		eq, err := ev.equals(env, n.Start, l, r)
		if err != nil {
			return nil, err
		}
		return value.Bool(eq), nil
	case token.BANGEQ:
		eq, err := ev.equals(env, n.Start, l, r)
		if err != nil {
			return nil, err
		}
		return value.Bool(!eq), nil
	case token.LT, token.LE, token.GT, token.GE:
		return ev.compareOp(env, n.Start, n.Op, l, r)
	case token.AMP, token.PIPE, token.CARET, token.SHL, token.SHR:
		return ev.bitwise(env, n.Start, n.Op, l, r)
	default:
		return nil, ev.errorf(env, n.Start, "internal error: unhandled binary operator %s", n.Op)
	}
}

func (ev *Evaluator) evalIn(env *value.Env, n *ast.BinaryExpr) (value.Value, error) {
	l, err := ev.eval(env, n.Left)
	if err != nil {
		return nil, err
	}
	r, err := ev.eval(env, n.Right)
	if err != nil {
		return nil, err
	}
	obj, ok := r.(*value.Object)
	if !ok {
		return nil, ev.errorf(env, n.Start, "'in' requires an object on the right, got %s", r.Kind())
	}
	s, ok := l.(value.String)
	if !ok {
		return nil, ev.errorf(env, n.Start, "'in' requires a string on the left, got %s", l.Kind())
	}
	return value.Bool(obj.HasField(s.Go())), nil
}

// binaryPlus implements string/number/array/object `+` and the string
// coercion for mixed operands (spec.md §4.4).
func (ev *Evaluator) binaryPlus(env *value.Env, pos token.Pos, l, r value.Value) (value.Value, error) {
	switch lv := l.(type) {
	case value.Number:
		if rv, ok := r.(value.Number); ok {
			return lv + rv, nil
		}
	case value.Array:
		if rv, ok := r.(value.Array); ok {
			out := make(value.Array, 0, len(lv)+len(rv))
			out = append(out, lv...)
			out = append(out, rv...)
			return out, nil
		}
	case *value.Object:
		if rv, ok := r.(*value.Object); ok {
			return value.Compose(lv, rv), nil
		}
	}
	if _, lStr := l.(value.String); lStr {
		rs, err := ev.toStringValue(env, pos, r)
		if err != nil {
			return nil, err
		}
		return value.NewString(l.(value.String).Go() + rs), nil
	}
	if _, rStr := r.(value.String); rStr {
		ls, err := ev.toStringValue(env, pos, l)
		if err != nil {
			return nil, err
		}
		return value.NewString(ls + r.(value.String).Go()), nil
	}
	return nil, ev.errorf(env, pos, "operator + is not defined for %s and %s", l.Kind(), r.Kind())
}

func (ev *Evaluator) arith(env *value.Env, pos token.Pos, op token.Token, l, r value.Value) (value.Value, error) {
	lv, ok := l.(value.Number)
	if !ok {
		return nil, ev.errorf(env, pos, "%s requires numbers, got %s", op, l.Kind())
	}
	rv, ok := r.(value.Number)
	if !ok {
		return nil, ev.errorf(env, pos, "%s requires numbers, got %s", op, r.Kind())
	}
	switch op {
	case token.MINUS:
		return lv - rv, nil
	case token.STAR:
		return lv * rv, nil
	case token.SLASH:
		if rv == 0 {
			return nil, ev.errorf(env, pos, "division by zero")
		}
		return lv / rv, nil
	case token.PERCENT:
		return ev.modulo(env, pos, lv, rv)
	default:
		return nil, ev.errorf(env, pos, "internal error: unhandled arithmetic operator %s", op)
	}
}

// modulo implements std.modulo: the result's sign follows the dividend
// (spec.md §8: "(-5.5) % 2 == -1.5").
func (ev *Evaluator) modulo(env *value.Env, pos token.Pos, l, r value.Number) (value.Value, error) {
	if r == 0 {
		return nil, ev.errorf(env, pos, "modulo by zero")
	}
	return value.Number(math.Mod(float64(l), float64(r))), nil
}

func (ev *Evaluator) bitwise(env *value.Env, pos token.Pos, op token.Token, l, r value.Value) (value.Value, error) {
	li, err := ev.toSafeInt(env, pos, l)
	if err != nil {
		return nil, err
	}
	ri, err := ev.toSafeInt(env, pos, r)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.AMP:
		return value.Number(float64(li & ri)), nil
	case token.PIPE:
		return value.Number(float64(li | ri)), nil
	case token.CARET:
		return value.Number(float64(li ^ ri)), nil
	case token.SHL:
		if ri < 0 || ri > 63 {
			return nil, ev.errorf(env, pos, "shift amount out of range: %d", ri)
		}
		return value.Number(float64(li << uint(ri))), nil
	case token.SHR:
		if ri < 0 || ri > 63 {
			return nil, ev.errorf(env, pos, "shift amount out of range: %d", ri)
		}
		return value.Number(float64(li >> uint(ri))), nil
	default:
		return nil, ev.errorf(env, pos, "internal error: unhandled bitwise operator %s", op)
	}
}

// toSafeInt requires v to be a number exactly representable as an integer
// within ±2^53 (spec.md §3).
func (ev *Evaluator) toSafeInt(env *value.Env, pos token.Pos, v value.Value) (int64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, ev.errorf(env, pos, "expected a number, got %s", v.Kind())
	}
	f := float64(n)
	if math.Trunc(f) != f || math.Abs(f) > (1<<53) {
		return 0, ev.errorf(env, pos, "value %v is not a safe integer", f)
	}
	return int64(f), nil
}

func (ev *Evaluator) compareOp(env *value.Env, pos token.Pos, op token.Token, l, r value.Value) (value.Value, error) {
	c, err := ev.compare(env, pos, l, r)
	if err != nil {
		return nil, err
	}
	switch op {
	case token.LT:
		return value.Bool(c < 0), nil
	case token.LE:
		return value.Bool(c <= 0), nil
	case token.GT:
		return value.Bool(c > 0), nil
	case token.GE:
		return value.Bool(c >= 0), nil
	default:
		return nil, ev.errorf(env, pos, "internal error: unhandled comparison operator %s", op)
	}
}

// compare implements Jsonnet ordering: numbers, strings (scalar-wise), and
// arrays (lexicographic); other combinations fail (spec.md §4.4).
func (ev *Evaluator) compare(env *value.Env, pos token.Pos, l, r value.Value) (int, error) {
	switch lv := l.(type) {
	case value.Number:
		rv, ok := r.(value.Number)
		if !ok {
			break
		}
		switch {
		case lv < rv:
			return -1, nil
		case lv > rv:
			return 1, nil
		default:
			return 0, nil
		}
	case value.String:
		rv, ok := r.(value.String)
		if !ok {
			break
		}
		for i := 0; i < len(lv) && i < len(rv); i++ {
			if lv[i] != rv[i] {
				if lv[i] < rv[i] {
					return -1, nil
				}
				return 1, nil
			}
		}
		return len(lv) - len(rv), nil
	case value.Array:
		rv, ok := r.(value.Array)
		if !ok {
			break
		}
		for i := 0; i < len(lv) && i < len(rv); i++ {
			lev, err := lv[i].Force()
			if err != nil {
				return 0, err
			}
			rev, err := rv[i].Force()
			if err != nil {
				return 0, err
			}
			c, err := ev.compare(env, pos, lev, rev)
			if err != nil {
				return 0, err
			}
			if c != 0 {
				return c, nil
			}
		}
		return len(lv) - len(rv), nil
	}
	return 0, ev.errorf(env, pos, "cannot order a %s and a %s", l.Kind(), r.Kind())
}

// equals implements structural equality (spec.md §4.4): different kinds are
// unequal, numbers use IEEE equality, functions are never equal.
func (ev *Evaluator) equals(env *value.Env, pos token.Pos, l, r value.Value) (bool, error) {
	switch lv := l.(type) {
	case value.Null:
		_, ok := r.(value.Null)
		return ok, nil
	case value.Bool:
		rv, ok := r.(value.Bool)
		return ok && lv == rv, nil
	case value.Number:
		rv, ok := r.(value.Number)
		return ok && lv == rv, nil
	case value.String:
		rv, ok := r.(value.String)
		if !ok || len(lv) != len(rv) {
			return false, nil
		}
		for i := range lv {
			if lv[i] != rv[i] {
				return false, nil
			}
		}
		return true, nil
	case value.Array:
		rv, ok := r.(value.Array)
		if !ok || len(lv) != len(rv) {
			return false, nil
		}
		for i := range lv {
			a, err := lv[i].Force()
			if err != nil {
				return false, err
			}
			b, err := rv[i].Force()
			if err != nil {
				return false, err
			}
			eq, err := ev.equals(env, pos, a, b)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case *value.Object:
		rv, ok := r.(*value.Object)
		if !ok {
			return false, nil
		}
		lf, rf := lv.VisibleFieldNames(), rv.VisibleFieldNames()
		if len(lf) != len(rf) {
			return false, nil
		}
		for i := range lf {
			if lf[i] != rf[i] {
				return false, nil
			}
		}
		for _, name := range lf {
			a, err := ev.getField(env, pos, lv, len(lv.Layers)-1, name)
			if err != nil {
				return false, err
			}
			b, err := ev.getField(env, pos, rv, len(rv.Layers)-1, name)
			if err != nil {
				return false, err
			}
			eq, err := ev.equals(env, pos, a, b)
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	case value.Function:
		return false, nil
	default:
		return false, fmt.Errorf("internal error: unhandled value kind %T", l)
	}
}

// toStringValue coerces v the way std.toString does: strings pass through
// unchanged; everything else renders as compact JSON (spec.md §4.4 "str +
// x ... coerces x via the same algorithm std.toString uses").
func (ev *Evaluator) toStringValue(env *value.Env, pos token.Pos, v value.Value) (string, error) {
	if s, ok := v.(value.String); ok {
		return s.Go(), nil
	}
	s, err := manifest.ManifestJSONMinified(ev, v)
	if err != nil {
		if me, ok := err.(*manifest.Error); ok {
			return "", ev.errorf(env, pos, "%s", me.Msg)
		}
		return "", err
	}
	return s, nil
}
