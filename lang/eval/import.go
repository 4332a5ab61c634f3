package eval

import (
	"unicode/utf8"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/resolver"
	"github.com/jsonnet-run/jsonnet/lang/value"
)

// Parser compiles imported source; callers pass lang/parser.Parse directly.
// Modeled as a func type rather than an interface to avoid an import cycle
// (eval needs to re-parse an imported file's source; the parser package has
// no need to know about eval).
type Parser func(filename string, src []byte) (ast.Expr, error)

// SetParser installs the parser used to compile imported source. Must be
// called before evaluating any program that uses `import`.
func (ev *Evaluator) SetParser(p Parser) { ev.parser = p }

// evalImport implements import/importstr/importbin (spec.md §4.5, §6): the
// path is resolved relative to the importing file's directory, then against
// each configured search path in order; `import` results are memoized once
// per canonical path so a diamond-imported file is parsed and evaluated at
// most once.
func (ev *Evaluator) evalImport(env *value.Env, n *ast.ImportExpr) (value.Value, error) {
	if ev.opts.Loader == nil {
		return nil, ev.errorf(env, n.Start, "import of %q: no loader configured", n.Path)
	}
	canonical, contents, err := ev.opts.Loader.Load(n.Path, env.File())
	if err != nil {
		return nil, ev.errorf(env, n.Start, "import of %q failed: %s", n.Path, err.Error())
	}
	switch n.Kind {
	case ast.ImportString:
		if !utf8.Valid(contents) {
			return nil, ev.errorf(env, n.Start, "importstr %q: not valid UTF-8", n.Path)
		}
		return value.NewString(string(contents)), nil
	case ast.ImportBinary:
		out := make(value.Array, len(contents))
		for i, b := range contents {
			out[i] = value.Ready(value.Number(float64(b)))
		}
		return out, nil
	default:
		if t, ok := ev.importCache[canonical]; ok {
			return t.Force()
		}
		t := value.NewThunk(func() (value.Value, error) { return ev.evalImportedFile(canonical, contents) })
		ev.importCache[canonical] = t
		return t.Force()
	}
}

func (ev *Evaluator) evalImportedFile(canonical string, contents []byte) (value.Value, error) {
	if ev.parser == nil {
		return nil, ev.errorf(nil, 0, "import of %q: no parser configured", canonical)
	}
	root, err := ev.parser(canonical, contents)
	if err != nil {
		return nil, err
	}
	if errs := resolver.Resolve(canonical, root); len(errs) > 0 {
		return nil, errs[0]
	}
	return ev.EvalFile(canonical, root)
}
