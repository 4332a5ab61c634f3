package parser

import (
	"github.com/jsonnet-run/jsonnet/lang/ast"
	"github.com/jsonnet-run/jsonnet/lang/token"
)

// precLevels lists binary operator groups from lowest to highest
// precedence, per spec: || , && , | , ^ , & , == != , < <= > >= in , << >> ,
// + - , * / %. All binary operators are left-associative.
var precLevels = [][]token.Token{
	{token.OROR},
	{token.ANDAND},
	{token.PIPE},
	{token.CARET},
	{token.AMP},
	{token.EQEQ, token.BANGEQ},
	{token.LT, token.LE, token.GT, token.GE, token.IN},
	{token.SHL, token.SHR},
	{token.PLUS, token.MINUS},
	{token.STAR, token.SLASH, token.PERCENT},
}

func (p *Parser) parseExpr() ast.Expr { return p.parseBinary(0) }

func (p *Parser) parseBinary(level int) ast.Expr {
	if level >= len(precLevels) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for {
		op, ok := matchAny(p.cur().Token, precLevels[level])
		if !ok {
			return left
		}
		p.advance()
		right := p.parseBinary(level + 1)
		start, _ := left.Span()
		_, end := right.Span()
		left = &ast.BinaryExpr{ExprBase: ast.Base(start, end), Op: op, Left: left, Right: right}
	}
}

func matchAny(tok token.Token, set []token.Token) (token.Token, bool) {
	for _, t := range set {
		if t == tok {
			return t, true
		}
	}
	return token.ILLEGAL, false
}

var unaryOps = []token.Token{token.BANG, token.MINUS, token.PLUS, token.TILDE}

func (p *Parser) parseUnary() ast.Expr {
	if op, ok := matchAny(p.cur().Token, unaryOps); ok {
		start := p.cur().Pos
		p.advance()
		operand := p.parseUnary()
		_, end := operand.Span()
		return &ast.UnaryExpr{ExprBase: ast.Base(start, end), Op: op, Operand: operand}
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix handles field access, indexing, slicing and calls, which all
// chain left-to-right on top of a primary expression.
func (p *Parser) parsePostfix(e ast.Expr) ast.Expr {
	for {
		start, _ := e.Span()
		switch p.cur().Token {
		case token.DOT:
			p.advance()
			nameTok := p.expect(token.IDENT)
			e = &ast.FieldExpr{ExprBase: ast.Base(start, nameTok.Pos), Object: e, Name: nameTok.Value.Raw}
		case token.LBRACK:
			e = p.parseIndexOrSlice(e, start)
		case token.LPAREN:
			e = p.parseCall(e, start)
		case token.LBRACE:
			// Object as an application-like postfix is not valid Jsonnet; stop.
			return e
		default:
			return e
		}
	}
}

func (p *Parser) parseIndexOrSlice(obj ast.Expr, start token.Pos) ast.Expr {
	p.expect(token.LBRACK)
	// `[` `]` immediately (empty index) is invalid; handled by expect below.
	var idx, sliceStart, sliceEnd, sliceStep ast.Expr
	isSlice := false

	if !p.at(token.COLON) {
		idx = p.parseExpr()
	}
	if p.at(token.COLON) {
		isSlice = true
		sliceStart = idx
		p.advance()
		if !p.at(token.COLON) && !p.at(token.RBRACK) {
			sliceEnd = p.parseExpr()
		}
		if p.at(token.COLON) {
			p.advance()
			if !p.at(token.RBRACK) {
				sliceStep = p.parseExpr()
			}
		}
	}
	end := p.expect(token.RBRACK).Pos
	if isSlice {
		return &ast.SliceExpr{ExprBase: ast.Base(start, end), Object: obj, Start: sliceStart, End: sliceEnd, Step: sliceStep}
	}
	return &ast.IndexExpr{ExprBase: ast.Base(start, end), Object: obj, Index: idx}
}

func (p *Parser) parseCall(fn ast.Expr, start token.Pos) ast.Expr {
	p.expect(token.LPAREN)
	var args []ast.Arg
	seenNamed := false
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.IDENT) && p.peekAt(1).Token == token.ASSIGN {
			name := p.advance().Value.Raw
			p.advance() // '='
			args = append(args, ast.Arg{Name: name, Value: p.parseExpr()})
			seenNamed = true
		} else {
			if seenNamed {
				p.errorf("positional argument after named argument")
			}
			args = append(args, ast.Arg{Value: p.parseExpr()})
		}
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	tailStrict := false
	end := p.expect(token.RPAREN).Pos
	if p.at(token.TAILSTRICT) {
		tailStrict = true
		end = p.advance().Pos
	}
	return &ast.CallExpr{ExprBase: ast.Base(start, end), Fn: fn, Args: args, TailStrict: tailStrict}
}

func (p *Parser) parsePrimary() ast.Expr {
	tv := p.cur()
	start := tv.Pos
	switch tv.Token {
	case token.NULL:
		p.advance()
		return &ast.NullExpr{ExprBase: ast.Base(start, start)}
	case token.TRUE:
		p.advance()
		return &ast.TrueExpr{ExprBase: ast.Base(start, start)}
	case token.FALSE:
		p.advance()
		return &ast.FalseExpr{ExprBase: ast.Base(start, start)}
	case token.SELF:
		p.advance()
		return &ast.SelfExpr{ExprBase: ast.Base(start, start)}
	case token.DOLLAR:
		p.advance()
		return &ast.DollarExpr{ExprBase: ast.Base(start, start)}
	case token.SUPER:
		p.advance()
		return &ast.SuperExpr{ExprBase: ast.Base(start, start)}
	case token.NUMBER:
		p.advance()
		return &ast.NumberExpr{ExprBase: ast.Base(start, start), Value: tv.Value.Number}
	case token.STRING:
		p.advance()
		return &ast.StringExpr{ExprBase: ast.Base(start, start), Value: tv.Value.String}
	case token.IDENT:
		p.advance()
		return p.newIdent(start, tv.Value.Raw)
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		return p.parseArrayOrComp()
	case token.LBRACE:
		return p.parseObject()
	case token.LOCAL:
		return p.parseLocal()
	case token.IF:
		return p.parseIf()
	case token.FUNCTION:
		return p.parseFunc()
	case token.IMPORT, token.IMPORTSTR, token.IMPORTBIN:
		return p.parseImport()
	case token.ERROR:
		p.advance()
		msg := p.parseExpr()
		_, end := msg.Span()
		return &ast.ErrorExpr{ExprBase: ast.Base(start, end), Msg: msg}
	case token.ASSERT:
		return p.parseAssert()
	}
	p.errorf("unexpected %#v", tv.Token.GoString())
	p.advance()
	return &ast.NullExpr{ExprBase: ast.Base(start, start)}
}

func (p *Parser) parseArrayOrComp() ast.Expr {
	start := p.expect(token.LBRACK).Pos
	if end, ok := p.accept(token.RBRACK); ok {
		return &ast.ArrayExpr{ExprBase: ast.Base(start, end.Pos)}
	}
	first := p.parseExpr()
	if p.at(token.FOR) {
		clauses := p.parseCompClauses()
		end := p.expect(token.RBRACK).Pos
		return &ast.ArrayCompExpr{ExprBase: ast.Base(start, end), Body: first, Clauses: clauses}
	}
	elems := []ast.Expr{first}
	for {
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
		if p.at(token.RBRACK) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	end := p.expect(token.RBRACK).Pos
	return &ast.ArrayExpr{ExprBase: ast.Base(start, end), Elements: elems}
}

func (p *Parser) parseCompClauses() []ast.CompClause {
	var clauses []ast.CompClause
	for p.at(token.FOR) || p.at(token.IF) {
		if p.at(token.FOR) {
			p.advance()
			nameTok := p.expect(token.IDENT)
			id := p.newIdent(nameTok.Pos, nameTok.Value.Raw)
			p.expect(token.IN)
			in := p.parseExpr()
			clauses = append(clauses, ast.CompClause{IsFor: true, Var: id, In: in})
		} else {
			p.advance()
			cond := p.parseExpr()
			clauses = append(clauses, ast.CompClause{IsFor: false, Cond: cond})
		}
	}
	return clauses
}

func (p *Parser) parseLocal() ast.Expr {
	start := p.expect(token.LOCAL).Pos
	var binds []ast.LocalBind
	for {
		binds = append(binds, p.parseLocalBind())
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.SEMI)
	body := p.parseExpr()
	_, end := body.Span()
	return &ast.LocalExpr{ExprBase: ast.Base(start, end), Binds: binds, Body: body}
}

func (p *Parser) parseLocalBind() ast.LocalBind {
	nameTok := p.expect(token.IDENT)
	id := p.newIdent(nameTok.Pos, nameTok.Value.Raw)
	if p.at(token.LPAREN) {
		params, funcStart := p.parseParams()
		_ = funcStart
		p.expect(token.ASSIGN)
		body := p.parseExpr()
		_, end := body.Span()
		fn := &ast.FuncExpr{ExprBase: ast.Base(nameTok.Pos, end), Params: params, Body: body}
		return ast.LocalBind{Name: id, Value: fn}
	}
	p.expect(token.ASSIGN)
	val := p.parseExpr()
	return ast.LocalBind{Name: id, Value: val}
}

func (p *Parser) parseParams() ([]ast.Param, token.Pos) {
	start := p.expect(token.LPAREN).Pos
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		nameTok := p.expect(token.IDENT)
		id := p.newIdent(nameTok.Pos, nameTok.Value.Raw)
		var def ast.Expr
		if _, ok := p.accept(token.ASSIGN); ok {
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: id, Default: def})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	p.expect(token.RPAREN)
	return params, start
}

func (p *Parser) parseIf() ast.Expr {
	start := p.expect(token.IF).Pos
	cond := p.parseExpr()
	p.expect(token.THEN)
	then := p.parseExpr()
	end := func() token.Pos { _, e := then.Span(); return e }()
	var elseE ast.Expr
	if _, ok := p.accept(token.ELSE); ok {
		elseE = p.parseExpr()
		_, end = elseE.Span()
	}
	return &ast.IfExpr{ExprBase: ast.Base(start, end), Cond: cond, Then: then, Else: elseE}
}

func (p *Parser) parseFunc() ast.Expr {
	start := p.expect(token.FUNCTION).Pos
	params, _ := p.parseParams()
	body := p.parseExpr()
	_, end := body.Span()
	return &ast.FuncExpr{ExprBase: ast.Base(start, end), Params: params, Body: body}
}

func (p *Parser) parseImport() ast.Expr {
	var kind ast.ImportKind
	switch p.cur().Token {
	case token.IMPORT:
		kind = ast.ImportJsonnet
	case token.IMPORTSTR:
		kind = ast.ImportString
	case token.IMPORTBIN:
		kind = ast.ImportBinary
	}
	start := p.advance().Pos
	strTok := p.expect(token.STRING)
	return &ast.ImportExpr{ExprBase: ast.Base(start, strTok.Pos), Kind: kind, Path: strTok.Value.String}
}

func (p *Parser) parseAssert() ast.Expr {
	start := p.expect(token.ASSERT).Pos
	cond := p.parseExpr()
	var msg ast.Expr
	if _, ok := p.accept(token.COLON); ok {
		msg = p.parseExpr()
	}
	p.expect(token.SEMI)
	rest := p.parseExpr()
	_, end := rest.Span()
	return &ast.AssertExpr{ExprBase: ast.Base(start, end), Cond: cond, Msg: msg, Rest: rest}
}
