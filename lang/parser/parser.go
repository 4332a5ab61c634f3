// Package parser implements a recursive-descent parser that turns a token
// stream from lang/lexer into a lang/ast tree.
//
// Grounded on nenuphar's lang/parser package for the overall recursive-
// descent + explicit-precedence-table idiom (lang/parser/expr.go), and on
// rsjsonnet-lang's parser/expr.go for the exact Jsonnet grammar and its
// desugarings (`$`, method-sugar fields, comprehensions).
package parser

import (
	"errors"
	"fmt"

	"github.com/jsonnet-run/jsonnet/lang/arena"
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/lexer"
	"github.com/jsonnet-run/jsonnet/lang/token"
)

// Error is a parse error: a message about the source at one position.
type Error struct {
	Pos      token.Pos
	Filename string
	Msg      string
}

func (e *Error) Error() string {
	line, col := e.Pos.LineCol()
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, line, col, e.Msg)
}

// Parser holds the state for parsing a single file.
type Parser struct {
	filename string
	toks     []lexer.TokenAndValue
	pos      int
	errs     []error

	// idents bump-allocates every ast.Ident node parsed from this file:
	// identifiers are by far the most common node (every name reference,
	// parameter, comprehension variable and local-bind target is one),
	// so batching their storage is the arena's one concrete use here
	// (spec.md §3's AST/thunk arena lifecycle).
	idents *arena.Arena[ast.Ident]
}

// newIdent allocates an ast.Ident out of the parser's arena.
func (p *Parser) newIdent(start token.Pos, name string) *ast.Ident {
	return p.idents.Alloc(ast.Ident{ExprBase: ast.Base(start, start), Name: name})
}

// Parse lexes and parses src, returning the root expression. A non-nil
// error is returned if lexing or parsing failed; it implements
// Unwrap() []error via errors.Join.
func Parse(filename string, src []byte) (ast.Expr, error) {
	lx := lexer.New(filename, src)
	toks := lx.All()
	p := &Parser{filename: filename, toks: toks, idents: arena.New[ast.Ident](0)}
	p.errs = append(p.errs, lx.Errs()...)

	if len(toks) == 1 { // just EOF
		return &ast.NullExpr{}, errors.Join(p.errs...)
	}

	e := p.parseExpr()
	if p.cur().Token != token.EOF {
		p.errorf("unexpected %#v after end of program", p.cur().Token.GoString())
	}
	if len(p.errs) > 0 {
		return e, errors.Join(p.errs...)
	}
	return e, nil
}

func (p *Parser) cur() lexer.TokenAndValue  { return p.toks[p.pos] }
func (p *Parser) peekAt(n int) lexer.TokenAndValue {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) advance() lexer.TokenAndValue {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(tok token.Token) bool { return p.cur().Token == tok }

func (p *Parser) accept(tok token.Token) (lexer.TokenAndValue, bool) {
	if p.at(tok) {
		return p.advance(), true
	}
	return lexer.TokenAndValue{}, false
}

func (p *Parser) expect(tok token.Token) lexer.TokenAndValue {
	if p.at(tok) {
		return p.advance()
	}
	p.errorf("expected %#v, found %#v", tok.GoString(), p.cur().Token.GoString())
	return p.cur()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errs = append(p.errs, &Error{Pos: p.cur().Pos, Filename: p.filename, Msg: fmt.Sprintf(format, args...)})
}
