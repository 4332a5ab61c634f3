package ast

import "github.com/jsonnet-run/jsonnet/lang/token"

// DollarExpr is `$`, shorthand for the outermost enclosing `self`.
type DollarExpr struct{ ExprBase }

// Base builds an ExprBase spanning [start, end), for use by the parser when
// constructing nodes.
func Base(start, end token.Pos) ExprBase { return ExprBase{Start: start, End: end} }
