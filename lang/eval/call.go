package eval

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/token"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// callArg is one resolved call argument: a thunk for its value, and its
// name if it was passed by name (spec.md §4.4 argument binding).
type callArg struct {
	name  string
	thunk *value.Thunk
}

func (ev *Evaluator) evalCall(env *value.Env, n *ast.CallExpr) (value.Value, error) {
	fnVal, err := ev.eval(env, n.Fn)
	if err != nil {
		return nil, err
	}
	args := make([]callArg, len(n.Args))
	for i, a := range n.Args {
		a := a
		args[i] = callArg{
			name:  a.Name,
			thunk: value.NewThunk(func() (value.Value, error) { return ev.eval(env, a.Value) }),
		}
	}
	return ev.call(env, n.Start, fnVal, args, n.TailStrict)
}

// call dispatches to a closure or a builtin, after checking fn is callable.
func (ev *Evaluator) call(env *value.Env, pos token.Pos, fn value.Value, args []callArg, tailstrict bool) (value.Value, error) {
	switch fv := fn.(type) {
	case *value.Closure:
		return ev.callClosure(env, pos, fv, args, tailstrict)
	case *value.Builtin:
		return ev.callBuiltin(env, pos, fv, args)
	default:
		return nil, ev.errorf(env, pos, "called value is not a function, got %s", fn.Kind())
	}
}

// callClosure binds args against params (positional args first, then named,
// then defaults for anything left unbound) in a single flat frame, matching
// the resolver's one-frame-per-FuncExpr layout (resolver.go's FuncExpr
// case), then evaluates the body. tailstrict forces every bound argument
// before the call and reuses the current call-stack frame instead of
// pushing a new one (spec.md §4.4 tailstrict).
func (ev *Evaluator) callClosure(env *value.Env, pos token.Pos, c *value.Closure, args []callArg, tailstrict bool) (value.Value, error) {
	inner, err := ev.bindParams(env, pos, c.Env, c.Params, args, c.FuncName())
	if err != nil {
		return nil, err
	}
	if tailstrict {
		if err := inner.ForceAll(); err != nil {
			return nil, err
		}
		return ev.eval(inner, c.Body)
	}
	if len(ev.callStack) >= ev.opts.MaxStackFrames {
		return nil, ev.errorf(env, pos, errMaxStackFrames)
	}
	ev.callStack = append(ev.callStack, Frame{Pos: token.Position{File: env.File(), Pos: pos}, Callee: c.FuncName()})
	v, err := ev.eval(inner, c.Body)
	ev.callStack = ev.callStack[:len(ev.callStack)-1]
	return v, err
}

func (ev *Evaluator) bindParams(env *value.Env, pos token.Pos, closureEnv *value.Env, params []ast.Param, args []callArg, funcName string) (*value.Env, error) {
	inner := value.NewEnv(closureEnv, len(params))
	bound := make([]bool, len(params))
	posIdx := 0
	for _, a := range args {
		if a.name != "" {
			continue
		}
		if posIdx >= len(params) {
			return nil, ev.errorf(env, pos, "%s: too many arguments", funcName)
		}
		inner.Set(posIdx, a.thunk)
		bound[posIdx] = true
		posIdx++
	}
	for _, a := range args {
		if a.name == "" {
			continue
		}
		found := -1
		for j, p := range params {
			if p.Name.Name == a.name {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, ev.errorf(env, pos, "%s: no parameter named %q", funcName, a.name)
		}
		if bound[found] {
			return nil, ev.errorf(env, pos, "%s: multiple values for parameter %q", funcName, a.name)
		}
		inner.Set(found, a.thunk)
		bound[found] = true
	}
	for i, p := range params {
		if bound[i] {
			continue
		}
		if p.Default == nil {
			return nil, ev.errorf(env, pos, "%s: missing argument for parameter %q", funcName, p.Name.Name)
		}
		i, p := i, p
		inner.Set(i, value.NewThunk(func() (value.Value, error) { return ev.eval(inner, p.Default) }))
	}
	return inner, nil
}

// callBuiltin binds args against a builtin's declared parameter names and
// invokes it with the resulting positional thunk slice; builtins choose
// whether to force each argument, which is what keeps e.g. std.map's
// element thunks lazy.
func (ev *Evaluator) callBuiltin(env *value.Env, pos token.Pos, b *value.Builtin, args []callArg) (value.Value, error) {
	bound := make([]*value.Thunk, len(b.Params))
	have := make([]bool, len(b.Params))
	posIdx := 0
	for _, a := range args {
		if a.name != "" {
			continue
		}
		if posIdx >= len(b.Params) {
			return nil, ev.errorf(env, pos, "%s: too many arguments", b.FuncName())
		}
		bound[posIdx] = a.thunk
		have[posIdx] = true
		posIdx++
	}
	for _, a := range args {
		if a.name == "" {
			continue
		}
		found := -1
		for j, pname := range b.Params {
			if pname == a.name {
				found = j
				break
			}
		}
		if found < 0 {
			return nil, ev.errorf(env, pos, "%s: no parameter named %q", b.FuncName(), a.name)
		}
		if have[found] {
			return nil, ev.errorf(env, pos, "%s: multiple values for parameter %q", b.FuncName(), a.name)
		}
		bound[found] = a.thunk
		have[found] = true
	}
	for i, ok := range have {
		if !ok {
			return nil, ev.errorf(env, pos, "%s: missing argument for parameter %q", b.FuncName(), b.Params[i])
		}
	}
	return b.Fn(ev, bound)
}
