package parser

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/token"
)

// parseObject parses `{ members }`, desugaring method-sugar fields
// (`f(x): body` -> `f: function(x) body`) and detecting the special case of
// an object comprehension (a single computed-key field followed by `for`).
func (p *Parser) parseObject() ast.Expr {
	start := p.expect(token.LBRACE).Pos
	if end, ok := p.accept(token.RBRACE); ok {
		return &ast.ObjectExpr{ExprBase: ast.Base(start, end.Pos)}
	}

	var locals []ast.LocalBind
	sawComma := true
	for p.at(token.LOCAL) {
		p.advance()
		locals = append(locals, p.parseLocalBind())
		if _, ok := p.accept(token.COMMA); !ok {
			sawComma = false
			break
		}
	}

	// Object comprehension: `[k]: v for x in arr (for ... | if ...)*`. Parse
	// the first field eagerly; if it is a computed-key field immediately
	// followed by `for`, it is a comprehension instead of a regular field.
	if sawComma && p.at(token.LBRACK) {
		field := p.parseObjectField()
		if p.at(token.FOR) {
			if field.Plus || field.Visibility != ast.Visible {
				p.errorf("object comprehension field cannot use '+' or hidden visibility")
			}
			clauses := p.parseCompClauses()
			end := p.expect(token.RBRACE).Pos
			return &ast.ObjectCompExpr{ExprBase: ast.Base(start, end), Locals: locals, Key: field.ComputedKey, Value: field.Body, Clauses: clauses}
		}
		members := make([]ast.ObjectMember, 0, len(locals)+1)
		for _, l := range locals {
			lc := l
			members = append(members, ast.ObjectMember{Local: &lc})
		}
		members = append(members, ast.ObjectMember{Field: field})
		members = p.parseObjectMembersLoop(members, true)
		end := p.expect(token.RBRACE).Pos
		return &ast.ObjectExpr{ExprBase: ast.Base(start, end), Members: members}
	}

	var members []ast.ObjectMember
	for _, l := range locals {
		lc := l
		members = append(members, ast.ObjectMember{Local: &lc})
	}
	members = p.parseObjectMembersLoop(members, !sawComma)
	end := p.expect(token.RBRACE).Pos
	return &ast.ObjectExpr{ExprBase: ast.Base(start, end), Members: members}
}

// parseObjectMembersLoop parses comma-separated members until '}'. If
// needComma is true, a comma is required before the very first member
// parsed here (a previous member was already consumed by the caller).
func (p *Parser) parseObjectMembersLoop(members []ast.ObjectMember, needComma bool) []ast.ObjectMember {
	for {
		if needComma {
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		needComma = true
		if p.at(token.RBRACE) || p.at(token.EOF) {
			break
		}
		switch p.cur().Token {
		case token.LOCAL:
			p.advance()
			lb := p.parseLocalBind()
			members = append(members, ast.ObjectMember{Local: &lb})
		case token.ASSERT:
			p.advance()
			cond := p.parseExpr()
			var msg ast.Expr
			if _, ok := p.accept(token.COLON); ok {
				msg = p.parseExpr()
			}
			members = append(members, ast.ObjectMember{Assert: &ast.ObjectAssert{Cond: cond, Msg: msg}})
		default:
			members = append(members, ast.ObjectMember{Field: p.parseObjectField()})
		}
	}
	return members
}

// parseFieldColon consumes the ':' / '::' / ':::' (optionally preceded by
// '+') marker after a field key, returning the resulting visibility.
func (p *Parser) parseFieldColon() (ast.Visibility, bool) {
	switch p.cur().Token {
	case token.COLON:
		p.advance()
		return ast.Visible, true
	case token.COLONCOLON:
		p.advance()
		return ast.Hidden, true
	case token.COLONCOLONCOLON:
		p.advance()
		return ast.ForcedVisible, true
	}
	return 0, false
}

func (p *Parser) parseObjectField() *ast.ObjectField {
	f := &ast.ObjectField{}
	switch p.cur().Token {
	case token.LBRACK:
		p.advance()
		f.ComputedKey = p.parseExpr()
		p.expect(token.RBRACK)
	case token.STRING:
		s := p.advance().Value.String
		f.StringKey = &s
	default:
		nameTok := p.expect(token.IDENT)
		f.NameKey = nameTok.Value.Raw
	}

	// Method sugar: `f(params): body`.
	if p.at(token.LPAREN) {
		params, fstart := p.parseParams()
		mark, ok := p.parsePlusColon()
		if !ok {
			p.errorf("expected ':', '::' or ':::' after method parameter list")
		}
		f.Visibility = mark.vis
		body := p.parseExpr()
		_, end := body.Span()
		f.Body = &ast.FuncExpr{ExprBase: ast.Base(fstart, end), Params: params, Body: body}
		return f
	}

	mark, ok := p.parsePlusColon()
	if ok {
		f.Visibility = mark.vis
		f.Plus = mark.plus
	}
	f.Body = p.parseExpr()
	return f
}

type fieldMark struct {
	vis  ast.Visibility
	plus bool
}

// parsePlusColon consumes an optional '+' followed by ':'/'::'/':::'.
func (p *Parser) parsePlusColon() (fieldMark, bool) {
	plus := false
	if p.at(token.PLUS) {
		plus = true
		p.advance()
	}
	vis, ok := p.parseFieldColon()
	if !ok {
		if plus {
			p.errorf("expected ':', '::' or ':::' after '+'")
		}
		return fieldMark{}, false
	}
	return fieldMark{vis: vis, plus: plus}, true
}
