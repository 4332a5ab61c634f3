package program

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/parser"
	"github.com/jsonnet-run/jsonnet/lang/resolver"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// SetExtVar registers a plain string external variable, retrievable from
// Jsonnet code via std.extVar(name) (spec.md §4.5, §9).
func (p *Program) SetExtVar(name, s string) {
	p.ev.SetExtVar(name, value.Ready(value.NewString(s)))
}

// SetExtVarCode registers an external variable whose value is the result
// of evaluating a Jsonnet expression, lazily: the code is parsed and
// resolved eagerly (so a syntax error surfaces immediately), but only
// evaluated the first time std.extVar(name) forces it.
func (p *Program) SetExtVarCode(name, code string) error {
	t, err := p.codeThunk(fmt.Sprintf("<extvar:%s>", name), code)
	if err != nil {
		return err
	}
	p.ev.SetExtVar(name, t)
	return nil
}

// SetTLAVar registers a plain string top-level argument, bound to a
// same-named parameter of a top-level function (spec.md §9).
func (p *Program) SetTLAVar(name, s string) {
	p.ev.SetTLA(name, value.Ready(value.NewString(s)))
}

// SetTLACode registers a top-level argument whose value comes from
// evaluating a Jsonnet expression, with the same lazy-evaluation contract
// as SetExtVarCode.
func (p *Program) SetTLACode(name, code string) error {
	t, err := p.codeThunk(fmt.Sprintf("<tla:%s>", name), code)
	if err != nil {
		return err
	}
	p.ev.SetTLA(name, t)
	return nil
}

func (p *Program) codeThunk(filename, code string) (*value.Thunk, error) {
	root, err := parser.Parse(filename, []byte(code))
	if err != nil {
		return nil, err
	}
	if errs := resolver.Resolve(filename, root); len(errs) > 0 {
		return nil, errs[0]
	}
	return value.NewThunk(func() (value.Value, error) {
		return p.ev.EvalFile(filename, root)
	}), nil
}
