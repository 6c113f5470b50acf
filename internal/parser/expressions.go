package parser

import (
	"github.com/mrwan84/jeem/internal/ast"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/token"
)

// subLexer creates a fresh lexer over an embedded expression's source,
// per spec.md's "lexing and parsing the part's source as a single
// expression in a saved-and-restored lexer state" (the save/restore is
// implicit here: each interpolation part gets its own Lexer instance,
// so no shared state is disturbed).
func subLexer(source string) *lexer.Lexer {
	return lexer.New(source)
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.cur.Kind]
	if prefix == nil {
		p.errorf("unexpected token %s", p.cur.Kind)
		return nil
	}
	left := prefix()

	for p.peek.Kind != token.EOF && precedence < p.peekPrecedence() {
		infix := p.infixFns[p.peek.Kind]
		if infix == nil {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	if p.peek.Kind == token.ARROW {
		name := p.cur.Lexeme
		p.next() // move to '=>'
		return p.parseBareArrow(name)
	}
	return ast.NewIdentifier(p.cur)
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	return &ast.Literal{Value: p.cur.Int}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	return &ast.Literal{Value: p.cur.Float}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.Literal{Value: p.cur.Str}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.Literal{Value: p.cur.Kind == token.TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Literal{Value: nil}
}

func (p *Parser) parseTemplateLiteral() ast.Expression {
	tmpl := &ast.Template{}
	for _, part := range p.cur.Parts {
		if !part.IsExpr {
			tmpl.Parts = append(tmpl.Parts, ast.TemplatePart{Text: part.Text})
			continue
		}
		sub := New(subLexer(part.Source), p.file)
		expr := sub.parseExpression(LOWEST)
		if len(sub.errs) > 0 {
			p.errs = append(p.errs, sub.errs...)
		}
		tmpl.Parts = append(tmpl.Parts, ast.TemplatePart{IsExpr: true, Expr: expr})
	}
	return tmpl
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	op := p.cur.Lexeme
	p.next()
	operand := p.parseExpression(PREFIX)
	return &ast.UnaryExpression{Operator: op, Operand: operand}
}

func (p *Parser) parsePostfixExpression(left ast.Expression) ast.Expression {
	return &ast.PostfixExpression{Operator: p.cur.Lexeme, Operand: left}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	op := p.cur.Lexeme
	prec := precedences[p.cur.Kind]
	p.next()
	right := p.parseExpression(prec)
	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
}

// parseBinaryExpressionRightAssoc parses ** with right-associativity by
// recursing at one precedence level lower than its own.
func (p *Parser) parseBinaryExpressionRightAssoc(left ast.Expression) ast.Expression {
	op := p.cur.Lexeme
	p.next()
	right := p.parseExpression(EXPONENT - 1)
	return &ast.BinaryExpression{Operator: op, Left: left, Right: right}
}

func (p *Parser) parseTernaryExpression(cond ast.Expression) ast.Expression {
	p.next() // first token of 'then'
	then := p.parseExpression(LOWEST)
	if !p.expectPeek(token.COLON) {
		return &ast.TernaryExpression{Condition: cond, Then: then}
	}
	p.next() // first token of 'else'
	els := p.parseExpression(TERNARY)
	return &ast.TernaryExpression{Condition: cond, Then: then, Else: els}
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	p.next() // first token of index
	idx := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return &ast.IndexExpression{Left: left, Index: idx}
	}
	return &ast.IndexExpression{Left: left, Index: idx}
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	if !p.expectPeek(token.IDENT) {
		return left
	}
	return &ast.MemberExpression{Left: left, Member: p.cur.Lexeme}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	call := &ast.CallExpression{Callee: callee}
	call.Arguments = p.parseExpressionList(token.RPAREN)
	return call
}

// parseExpressionList parses a comma-separated expression list terminated
// by end, leaving cur on the terminator.
func (p *Parser) parseExpressionList(end token.Kind) []ast.Expression {
	var list []ast.Expression
	if p.peek.Kind == end {
		p.next()
		return list
	}
	p.next()
	list = append(list, p.parseExpression(LOWEST))
	for p.peek.Kind == token.COMMA {
		p.next()
		p.next()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(end) {
		return list
	}
	return list
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	lit := &ast.ArrayLiteral{}
	lit.Elements = p.parseExpressionList(token.RBRACKET)
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	lit := &ast.ObjectLiteral{}
	if p.peek.Kind == token.RBRACE {
		p.next()
		return lit
	}
	for {
		p.next()
		var key string
		switch p.cur.Kind {
		case token.STRING:
			key = p.cur.Str
		case token.IDENT:
			key = p.cur.Lexeme
		default:
			p.errorf("expected object key, got %s", p.cur.Kind)
		}
		if !p.expectPeek(token.COLON) {
			return lit
		}
		p.next()
		val := p.parseExpression(LOWEST)
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, val)
		if p.peek.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	if !p.expectPeek(token.RBRACE) {
		return lit
	}
	return lit
}

func (p *Parser) parseThisExpression() ast.Expression { return &ast.ThisExpression{} }
func (p *Parser) parseSuperExpression() ast.Expression { return &ast.SuperExpression{} }

func (p *Parser) parseNewExpression() ast.Expression {
	if !p.expectPeek(token.IDENT) {
		return &ast.NewExpression{}
	}
	expr := &ast.NewExpression{ClassName: p.cur.Lexeme}
	if !p.expectPeek(token.LPAREN) {
		return expr
	}
	expr.Arguments = p.parseExpressionList(token.RPAREN)
	return expr
}

// parseFunctionLiteral handles both `func name(params) {body}` (as a
// statement) and `func (params) {body}` (as an anonymous expression).
func (p *Parser) parseFunctionLiteral() ast.Expression {
	lit := &ast.FunctionLiteral{}
	if p.peek.Kind == token.IDENT {
		p.next()
		lit.Name = p.cur.Lexeme
	}
	if !p.expectPeek(token.LPAREN) {
		return lit
	}
	lit.Parameters = p.parseParameterList()
	if !p.expectPeek(token.LBRACE) {
		return lit
	}
	lit.Body = p.parseBlockStatement()
	return lit
}

// parseParameterList parses a parenthesized comma-separated identifier
// list starting with cur == '(' and leaves cur on the matching ')'.
func (p *Parser) parseParameterList() []string {
	var params []string
	if p.peek.Kind == token.RPAREN {
		p.next()
		return params
	}
	p.next()
	params = append(params, p.cur.Lexeme)
	for p.peek.Kind == token.COMMA {
		p.next()
		p.next()
		params = append(params, p.cur.Lexeme)
	}
	p.expectPeek(token.RPAREN)
	return params
}

func (p *Parser) parseClassLiteral() *ast.ClassLiteral {
	lit := &ast.ClassLiteral{}
	p.next() // consume 'class'
	if p.cur.Kind != token.IDENT {
		p.errorf("expected class name, got %s", p.cur.Kind)
		return lit
	}
	lit.Name = p.cur.Lexeme
	if p.peek.Kind == token.EXTENDS {
		p.next()
		if !p.expectPeek(token.IDENT) {
			return lit
		}
		lit.Parent = p.cur.Lexeme
	}
	if !p.expectPeek(token.LBRACE) {
		return lit
	}
	p.next()
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		method := &ast.FunctionLiteral{}
		if p.cur.Kind != token.IDENT {
			p.errorf("expected method name, got %s", p.cur.Kind)
			break
		}
		method.Name = p.cur.Lexeme
		if !p.expectPeek(token.LPAREN) {
			break
		}
		method.Parameters = p.parseParameterList()
		if !p.expectPeek(token.LBRACE) {
			break
		}
		method.Body = p.parseBlockStatement()
		lit.Methods = append(lit.Methods, method)
		p.next()
	}
	return lit
}

// parseParenOrArrow disambiguates a parenthesized expression from an
// arrow-function parameter list by cloning the lexer and scanning past
// the balanced parens (or bare identifier) for a following '=>'.
func (p *Parser) parseParenOrArrow() ast.Expression {
	if p.looksLikeArrowParams() {
		return p.parseArrowFunction()
	}
	p.next() // first token inside parens
	expr := p.parseExpression(LOWEST)
	p.expectPeek(token.RPAREN)
	return expr
}

// looksLikeArrowParams scans forward from the current '(' token using a
// cloned lexer, without consuming the main parser's stream, to see if a
// balanced paren group is followed by '=>'.
func (p *Parser) looksLikeArrowParams() bool {
	clone := p.l.Clone()
	depth := 1
	// The peek token has already been read from the lexer, so the clone
	// starts after it; count it here.
	switch p.peek.Kind {
	case token.LPAREN:
		depth++
	case token.RPAREN:
		depth--
	}
	for depth > 0 {
		tok, err := clone.NextToken()
		if err != nil || tok.Kind == token.EOF {
			return false
		}
		switch tok.Kind {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
	}
	tok, err := clone.NextToken()
	if err != nil {
		return false
	}
	return tok.Kind == token.ARROW
}

func (p *Parser) parseArrowFunction() ast.Expression {
	arrow := &ast.ArrowFunction{}
	arrow.Parameters = p.parseParameterList()
	if !p.expectPeek(token.ARROW) {
		return arrow
	}
	p.next() // first token of body
	if p.cur.Kind == token.LBRACE {
		arrow.Body = p.parseBlockStatement()
	} else {
		arrow.Expr = p.parseExpression(LOWEST)
	}
	return arrow
}

// parseBareArrow handles the single-bare-identifier arrow form: x => expr.
// parseBareArrow is called with cur positioned on the '=>' token.
func (p *Parser) parseBareArrow(name string) ast.Expression {
	arrow := &ast.ArrowFunction{Parameters: []string{name}}
	p.next() // first token of body
	if p.cur.Kind == token.LBRACE {
		arrow.Body = p.parseBlockStatement()
	} else {
		arrow.Expr = p.parseExpression(LOWEST)
	}
	return arrow
}
