// Package resolver walks a parsed AST and annotates every name reference
// with a Binding (spec.md §4.3): local/parameter/`std`, and validates that
// `self`/`super`/`$` only appear inside an object literal.
//
// Grounded on nenuphar's lang/resolver package for the overall
// scope-stack walking idiom (an explicit stack of lexical scopes, each
// tracking declared names and their slot), adapted from Jsonnet's simpler
// binding rules (no labels, no mutability, no classes): nenuphar resolves
// variables/labels/consts across statement blocks;
// Jsonnet only ever introduces bindings via `local`, function parameters,
// and comprehension `for` variables, each becoming one scope frame here
// that corresponds 1:1 to an eval.Env frame created at the same AST node.
package resolver

import (
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/token"
)

// Error is a resolve error: an unbound identifier or an illegal
// self/super/$ use.
type Error struct {
	Pos      token.Pos
	Filename string
	Msg      string
}

func (e *Error) Error() string {
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, line, col, e.Msg)
}

// scope is one lexical frame: a `local` group, a function's parameter
// list, an object's own local bindings, or a comprehension's `for`
// variable. It corresponds 1:1 to an environment frame built by the
// evaluator at the same AST node.
type scope struct {
	parent   *scope
	names    []string
	inObject bool // true if this frame belongs to an object literal
}

func (s *scope) declare(name string) int {
	s.names = append(s.names, name)
	return len(s.names) - 1
}

func (s *scope) insideObject() bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.inObject {
			return true
		}
	}
	return false
}

// Resolver holds state while resolving a single file.
type Resolver struct {
	filename string
	errs     []error
}

// Resolve annotates every ast.Ident in e with its Binding, in place, and
// validates self/super/$ placement. It returns all errors found.
func Resolve(filename string, e ast.Expr) []error {
	r := &Resolver{filename: filename}
	r.resolveExpr(e, nil)
	return r.errs
}

func (r *Resolver) errorf(pos token.Pos, format string, args ...any) {
	r.errs = append(r.errs, &Error{Pos: pos, Filename: r.filename, Msg: fmt.Sprintf(format, args...)})
}

func (r *Resolver) lookup(sc *scope, name string) (depth, slot int, ok bool) {
	d := 0
	for s := sc; s != nil; s = s.parent {
		for i := len(s.names) - 1; i >= 0; i-- {
			if s.names[i] == name {
				return d, i, true
			}
		}
		d++
	}
	return 0, 0, false
}

func (r *Resolver) resolveExpr(e ast.Expr, sc *scope) {
	switch n := e.(type) {
	case nil, *ast.NullExpr, *ast.TrueExpr, *ast.FalseExpr, *ast.NumberExpr, *ast.StringExpr:
		// no-op
	case *ast.SelfExpr:
		if !sc.insideObject() {
			start, _ := n.Span()
			r.errorf(start, "'self' used outside of an object")
		}
	case *ast.DollarExpr:
		if !sc.insideObject() {
			start, _ := n.Span()
			r.errorf(start, "'$' used outside of an object")
		}
	case *ast.SuperExpr:
		if !sc.insideObject() {
			start, _ := n.Span()
			r.errorf(start, "'super' used outside of an object")
		}
	case *ast.Ident:
		if n.Name == "std" {
			n.Binding = &ast.Binding{Kind: ast.BindStd}
			return
		}
		depth, slot, ok := r.lookup(sc, n.Name)
		if !ok {
			start, _ := n.Span()
			r.errorf(start, "unknown variable %q", n.Name)
			n.Binding = &ast.Binding{Kind: ast.BindUnresolved}
			return
		}
		n.Binding = &ast.Binding{Kind: ast.BindLocal, Depth: depth, Slot: slot}
	case *ast.ArrayExpr:
		for _, el := range n.Elements {
			r.resolveExpr(el, sc)
		}
	case *ast.ArrayCompExpr:
		inner := r.resolveClauses(n.Clauses, sc)
		r.resolveExpr(n.Body, inner)
	case *ast.FuncExpr:
		fnScope := &scope{parent: sc}
		seen := make(map[string]bool, len(n.Params))
		for i := range n.Params {
			name := n.Params[i].Name.Name
			if seen[name] {
				start, _ := n.Params[i].Name.Span()
				r.errorf(start, "duplicate parameter name %q", name)
			}
			seen[name] = true
			if n.Params[i].Default != nil {
				r.resolveExpr(n.Params[i].Default, fnScope)
			}
			fnScope.declare(name)
		}
		r.resolveExpr(n.Body, fnScope)
	case *ast.CallExpr:
		r.resolveExpr(n.Fn, sc)
		for _, a := range n.Args {
			r.resolveExpr(a.Value, sc)
		}
	case *ast.FieldExpr:
		r.resolveExpr(n.Object, sc)
	case *ast.IndexExpr:
		r.resolveExpr(n.Object, sc)
		r.resolveExpr(n.Index, sc)
	case *ast.SliceExpr:
		r.resolveExpr(n.Object, sc)
		r.resolveExpr(n.Start, sc)
		r.resolveExpr(n.End, sc)
		r.resolveExpr(n.Step, sc)
	case *ast.LocalExpr:
		inner := &scope{parent: sc}
		for i := range n.Binds {
			inner.declare(n.Binds[i].Name.Name)
		}
		for i := range n.Binds {
			r.resolveExpr(n.Binds[i].Value, inner)
		}
		r.resolveExpr(n.Body, inner)
	case *ast.IfExpr:
		r.resolveExpr(n.Cond, sc)
		r.resolveExpr(n.Then, sc)
		r.resolveExpr(n.Else, sc)
	case *ast.BinaryExpr:
		r.resolveExpr(n.Left, sc)
		r.resolveExpr(n.Right, sc)
	case *ast.UnaryExpr:
		r.resolveExpr(n.Operand, sc)
	case *ast.ErrorExpr:
		r.resolveExpr(n.Msg, sc)
	case *ast.AssertExpr:
		r.resolveExpr(n.Cond, sc)
		r.resolveExpr(n.Msg, sc)
		r.resolveExpr(n.Rest, sc)
	case *ast.ImportExpr:
		// nothing to resolve
	case *ast.ObjectExpr:
		r.resolveObject(n, sc)
	case *ast.ObjectCompExpr:
		r.resolveObjectComp(n, sc)
	default:
		r.errorf(token.Pos(0), "internal error: unhandled expression type %T", e)
	}
}

func (r *Resolver) resolveClauses(clauses []ast.CompClause, sc *scope) *scope {
	cur := sc
	for i := range clauses {
		if clauses[i].IsFor {
			r.resolveExpr(clauses[i].In, cur)
			inner := &scope{parent: cur}
			inner.declare(clauses[i].Var.Name)
			cur = inner
		} else {
			r.resolveExpr(clauses[i].Cond, cur)
		}
	}
	return cur
}

func (r *Resolver) resolveObject(n *ast.ObjectExpr, sc *scope) {
	objSc := &scope{parent: sc, inObject: true}
	for _, m := range n.Members {
		if m.Local != nil {
			objSc.declare(m.Local.Name.Name)
		}
	}
	for _, m := range n.Members {
		switch {
		case m.Local != nil:
			r.resolveExpr(m.Local.Value, objSc)
		case m.Assert != nil:
			r.resolveExpr(m.Assert.Cond, objSc)
			r.resolveExpr(m.Assert.Msg, objSc)
		case m.Field != nil:
			if m.Field.ComputedKey != nil {
				r.resolveExpr(m.Field.ComputedKey, objSc)
			}
			r.resolveExpr(m.Field.Body, objSc)
		}
	}
}

func (r *Resolver) resolveObjectComp(n *ast.ObjectCompExpr, sc *scope) {
	objSc := &scope{parent: sc, inObject: true}
	for i := range n.Locals {
		objSc.declare(n.Locals[i].Name.Name)
	}
	for i := range n.Locals {
		r.resolveExpr(n.Locals[i].Value, objSc)
	}
	inner := r.resolveClauses(n.Clauses, objSc)
	r.resolveExpr(n.Key, inner)
	r.resolveExpr(n.Value, inner)
}
