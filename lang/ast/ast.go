// Package ast defines the abstract syntax tree produced by the parser and
// annotated in place by the resolver.
//
// Grounded on nenuphar's lang/ast package for the overall shape (a Node
// interface with Span(), concrete node structs holding token.Pos fields)
// but considerably simplified: Jsonnet's grammar is expression-only (no
// statements), so there is a single Expr interface instead of a
// Node/Expr/Stmt split.
package ast

import "github.com/jsonnet-run/jsonnet/lang/token"

// Node is implemented by every AST node.
type Node interface {
	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)
}

// Expr is any Jsonnet expression node.
type Expr interface {
	Node
	exprNode()
}

type ExprBase struct {
	Start, End token.Pos
}

func (e ExprBase) Span() (token.Pos, token.Pos) { return e.Start, e.End }
func (ExprBase) exprNode()                      {}

// Visibility of an object field.
type Visibility int

const (
	Visible       Visibility = iota // ':'
	Hidden                          // '::'
	ForcedVisible                   // ':::'
)

// Literals.

type NullExpr struct{ ExprBase }
type TrueExpr struct{ ExprBase }
type FalseExpr struct{ ExprBase }
type SelfExpr struct{ ExprBase }

// SuperExpr appears only as the receiver of a FieldExpr/IndexExpr; it is
// never a standalone expression grammatically but is modeled as one for
// uniformity, and the resolver rejects it anywhere else.
type SuperExpr struct{ ExprBase }

type NumberExpr struct {
	ExprBase
	Value float64
}

type StringExpr struct {
	ExprBase
	Value string
}

// Ident is a name reference. After resolution, Binding describes what it
// resolves to.
type Ident struct {
	ExprBase
	Name    string
	Binding *Binding // filled in by the resolver
}

// BindingKind classifies what an Ident resolves to.
type BindingKind int

const (
	BindUnresolved BindingKind = iota
	BindLocal                  // a `local` binding, function parameter, or `for` variable
	BindStd                    // the injected `std` identifier
)

// Binding is attached to an Ident by the resolver.
type Binding struct {
	Kind BindingKind
	// Depth is the number of enclosing environment frames to skip (0 = the
	// innermost). Slot is the index within that frame. Both are meaningful
	// only when Kind == BindLocal.
	Depth, Slot int
}

// ArrayExpr is `[ e1, e2, ... ]`.
type ArrayExpr struct {
	ExprBase
	Elements []Expr
}

// ArrayCompExpr is `[ body for x in arr (for ... | if ...)* ]`.
type ArrayCompExpr struct {
	ExprBase
	Body    Expr
	Clauses []CompClause
}

// CompClause is one `for x in e` or `if e` clause of a comprehension.
type CompClause struct {
	// IsFor marks a `for x in e` clause binding Var over In; otherwise this
	// is an `if` clause guarded by Cond.
	IsFor bool
	Var   *Ident
	In    Expr
	Cond  Expr
}

// Param is a function parameter; Default is nil for a required positional
// parameter.
type Param struct {
	Name    *Ident
	Default Expr
}

// FuncExpr is `function(params) body`.
type FuncExpr struct {
	ExprBase
	Params []Param
	Body   Expr
}

// Arg is a call argument; Name != "" marks a named argument.
type Arg struct {
	Name  string
	Value Expr
}

// CallExpr is `fn(args)`, optionally `tailstrict`.
type CallExpr struct {
	ExprBase
	Fn         Expr
	Args       []Arg
	TailStrict bool
}

// FieldExpr is `e.name` (Object may be a *SuperExpr for `super.name`).
type FieldExpr struct {
	ExprBase
	Object Expr
	Name   string
}

// IndexExpr is `e[i]`.
type IndexExpr struct {
	ExprBase
	Object Expr
	Index  Expr
}

// SliceExpr is `e[start:end:step]`; any part may be nil.
type SliceExpr struct {
	ExprBase
	Object           Expr
	Start, End, Step Expr
}

// LocalExpr is `local x1 = e1, x2 = e2, ...; body`.
type LocalExpr struct {
	ExprBase
	Binds []LocalBind
	Body  Expr
}

type LocalBind struct {
	Name  *Ident
	Value Expr
}

// IfExpr is `if cond then t else f`; Else is nil if there was no else
// branch, in which case the value is null when cond is false.
type IfExpr struct {
	ExprBase
	Cond, Then, Else Expr
}

// BinaryExpr is a binary operator application.
type BinaryExpr struct {
	ExprBase
	Op          token.Token
	Left, Right Expr
}

// UnaryExpr is a unary operator application.
type UnaryExpr struct {
	ExprBase
	Op      token.Token
	Operand Expr
}

// ErrorExpr is `error e`.
type ErrorExpr struct {
	ExprBase
	Msg Expr
}

// AssertExpr is `assert cond [: msg]; rest`.
type AssertExpr struct {
	ExprBase
	Cond, Msg Expr // Msg may be nil
	Rest      Expr
}

// ImportKind distinguishes the three import forms.
type ImportKind int

const (
	ImportJsonnet ImportKind = iota
	ImportString
	ImportBinary
)

type ImportExpr struct {
	ExprBase
	Kind ImportKind
	Path string
}

// ObjectExpr is `{ members }`.
type ObjectExpr struct {
	ExprBase
	Members []ObjectMember
}

// ObjectMember is a field, a local binding, or an assertion inside an
// object literal.
type ObjectMember struct {
	Field  *ObjectField
	Local  *LocalBind
	Assert *ObjectAssert
}

// ObjectField is one `key: value`-shaped member.
type ObjectField struct {
	// Exactly one of NameKey/StringKey/ComputedKey is set.
	NameKey     string
	StringKey   *string
	ComputedKey Expr

	Visibility Visibility
	Plus       bool // true if declared as `+:` / `+::` / `+:::`
	Body       Expr
}

type ObjectAssert struct {
	Cond Expr
	Msg  Expr // may be nil
}

// ObjectCompExpr is `{ [k]: v for x in arr (for ... | if ...)* }`.
type ObjectCompExpr struct {
	ExprBase
	Locals  []LocalBind // locals declared before the field, in scope for Key/Value
	Key     Expr
	Value   Expr
	Clauses []CompClause
}
