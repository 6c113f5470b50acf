package parser

import (
	"github.com/mrwan84/jeem/internal/ast"
	"github.com/mrwan84/jeem/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Kind {
	case token.IMPORT:
		return p.parseImportStatement()
	case token.EXPORT:
		return p.parseExportStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.CLASS:
		lit := p.parseClassLiteral()
		return lit
	case token.FUNC:
		if p.peek.Kind == token.IDENT {
			lit := p.parseFunctionLiteral().(*ast.FunctionLiteral)
			return lit
		}
		return p.parseExpressionStatement()
	case token.CONST, token.LET:
		return p.parseDeclStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return &ast.BreakStatement{}
	case token.CONTINUE:
		return &ast.ContinueStatement{}
	case token.CASE:
		return p.parseCaseStatement()
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.SEMICOLON:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}
	if !p.expect(token.LBRACE) {
		return block
	}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.next()
	}
	return block
}

func (p *Parser) parseImportStatement() ast.Statement {
	stmt := &ast.ImportStatement{}
	p.next() // consume 'import'
	if p.cur.Kind != token.STRING {
		p.errorf("expected import path string, got %s", p.cur.Kind)
		return stmt
	}
	stmt.Path = p.cur.Str
	if p.peek.Kind == token.AS {
		p.next() // as
		p.next() // alias ident
		stmt.Alias = p.cur.Lexeme
	}
	return stmt
}

func (p *Parser) parseExportStatement() ast.Statement {
	p.next() // consume 'export'
	inner := p.parseStatement()
	return &ast.ExportStatement{Inner: inner}
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{}
	p.next() // consume 'if'
	if !p.expect(token.LPAREN) {
		return stmt
	}
	stmt.Condition = p.parseExpression(LOWEST)
	p.next() // move to ')'
	if !p.expect(token.RPAREN) {
		return stmt
	}
	stmt.Then = p.parseBlockStatement()
	if p.peek.Kind == token.ELSE {
		p.next() // move to 'else'
		p.next() // consume 'else'
		if p.cur.Kind == token.IF {
			stmt.Else = p.parseIfStatement()
		} else {
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{}
	p.next() // consume 'while'
	if !p.expect(token.LPAREN) {
		return stmt
	}
	stmt.Condition = p.parseExpression(LOWEST)
	p.next()
	if !p.expect(token.RPAREN) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseForStatement disambiguates range-for ("item in iter" or
// "idx, item in iter") from
// counted-for ("init; cond; update") by looking past the first identifier.
func (p *Parser) parseForStatement() ast.Statement {
	p.next() // consume 'for'
	if !p.expect(token.LPAREN) {
		return &ast.CountedForStatement{}
	}

	if p.cur.Kind == token.IDENT && (p.peek.Kind == token.IN || p.peek.Kind == token.COMMA) {
		return p.parseRangeForStatement()
	}
	return p.parseCountedForStatement()
}

func (p *Parser) parseRangeForStatement() ast.Statement {
	stmt := &ast.RangeForStatement{}
	stmt.ItemName = p.cur.Lexeme
	p.next()
	if p.cur.Kind == token.COMMA {
		p.next()
		stmt.IndexName = stmt.ItemName
		if p.cur.Kind != token.IDENT {
			p.errorf("expected identifier after ','")
		}
		stmt.ItemName = p.cur.Lexeme
		p.next()
	}
	if !p.expect(token.IN) {
		return stmt
	}
	stmt.Iterable = p.parseExpression(LOWEST)
	p.next()
	if !p.expect(token.RPAREN) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

func (p *Parser) parseCountedForStatement() ast.Statement {
	stmt := &ast.CountedForStatement{}
	if p.cur.Kind != token.SEMICOLON {
		stmt.Init = p.parseStatement()
		p.next()
	}
	if !p.expect(token.SEMICOLON) {
		return stmt
	}
	if p.cur.Kind != token.SEMICOLON {
		stmt.Condition = p.parseExpression(LOWEST)
		p.next()
	}
	if !p.expect(token.SEMICOLON) {
		return stmt
	}
	if p.cur.Kind != token.RPAREN {
		stmt.Update = p.parseStatement()
		p.next()
	}
	if !p.expect(token.RPAREN) {
		return stmt
	}
	stmt.Body = p.parseBlockStatement()
	return stmt
}

// parseDeclStatement handles both `const` and `let`: the language treats
// both as immutable bindings (the lexer gives them distinct token kinds,
// which this parser handles alike), so both produce a Const assignment
// node.
func (p *Parser) parseDeclStatement() ast.Statement {
	isConst := true
	p.next() // consume 'const'/'let'
	if p.cur.Kind != token.IDENT {
		p.errorf("expected identifier in declaration, got %s", p.cur.Kind)
	}
	name := p.cur.Lexeme
	if !p.expectPeek(token.ASSIGN) {
		return &ast.ExpressionStatement{}
	}
	p.next() // first token of value expression
	value := p.parseExpression(LOWEST)
	return &ast.ExpressionStatement{Expression: &ast.AssignExpression{Name: name, Value: value, Const: isConst}}
}

// expectPeek asserts the peek token's kind and, if it matches, advances
// so cur is that token.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peek.Kind != k {
		p.errorf("expected %s, got %s", k, p.peek.Kind)
		return false
	}
	p.next()
	return true
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{}
	if p.peek.Kind == token.RBRACE || p.peek.Kind == token.EOF {
		return stmt
	}
	p.next()
	stmt.Value = p.parseExpression(LOWEST)
	return stmt
}

func (p *Parser) parseCaseStatement() ast.Statement {
	stmt := &ast.CaseStatement{}
	p.next() // consume 'case'
	if !p.expect(token.LPAREN) {
		return stmt
	}
	stmt.Scrutinee = p.parseExpression(LOWEST)
	p.next()
	if !p.expect(token.RPAREN) {
		return stmt
	}
	if !p.expect(token.LBRACE) {
		return stmt
	}
	for p.cur.Kind != token.RBRACE && p.cur.Kind != token.EOF {
		branch := p.parseCaseBranch()
		stmt.Branches = append(stmt.Branches, branch)
	}
	return stmt
}

func (p *Parser) parseCaseBranch() ast.CaseBranch {
	branch := ast.CaseBranch{}
	if p.cur.Kind == token.DEFAULT {
		branch.IsDefault = true
		p.next()
	} else {
		for {
			branch.Atoms = append(branch.Atoms, p.parseCaseAtom())
			if p.peek.Kind == token.COMMA {
				p.next()
				p.next()
				continue
			}
			break
		}
		p.next() // move to ':'
	}
	if !p.expect(token.COLON) {
		return branch
	}
	branch.Body = &ast.BlockStatement{}
	for p.cur.Kind != token.EOF && p.cur.Kind != token.RBRACE &&
		!(p.isCaseAtomStart() || p.cur.Kind == token.DEFAULT) {
		stmt := p.parseStatement()
		if stmt != nil {
			branch.Body.Statements = append(branch.Body.Statements, stmt)
		}
		if stmt != nil {
			if _, ok := stmt.(*ast.BreakStatement); ok {
				p.next()
				break
			}
		}
		p.next()
	}
	return branch
}

// isCaseAtomStart reports whether cur looks like the start of the next
// branch's atom list (a literal followed eventually by ':').
func (p *Parser) isCaseAtomStart() bool {
	switch p.cur.Kind {
	case token.INT, token.FLOAT, token.STRING, token.TRUE, token.FALSE, token.NULL:
		return p.looksLikeBranchHead()
	}
	return false
}

// looksLikeBranchHead inspects the token after the current literal to
// see whether it continues a branch head (',' '..' or ':'),
// distinguishing a new branch head from a literal used inside the
// previous branch's body.
func (p *Parser) looksLikeBranchHead() bool {
	// A branch head is: atom (',' atom)* ':'. We only need to check
	// whether the immediate peek is ':', ',' or '..' (range) — anything
	// else means this literal starts an expression statement instead.
	switch p.peek.Kind {
	case token.COLON, token.COMMA, token.DOT_DOT:
		return true
	default:
		return false
	}
}

func (p *Parser) parseCaseAtom() ast.CaseAtom {
	first := p.parseExpression(LOWEST)
	if p.peek.Kind == token.DOT_DOT {
		p.next() // move to '..'
		p.next() // move to start of high bound
		high := p.parseExpression(LOWEST)
		return ast.CaseAtom{IsRange: true, Low: first, High: high}
	}
	return ast.CaseAtom{Value: first}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression(LOWEST)

	switch p.peek.Kind {
	case token.ASSIGN:
		p.next() // '='
		p.next() // first token of rhs
		rhs := p.parseExpression(LOWEST)
		return &ast.ExpressionStatement{Expression: buildAssignment(p, expr, rhs)}
	case token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN, token.PERCENT_ASSIGN:
		op := compoundOp(p.peek.Kind)
		p.next()
		p.next()
		rhs := p.parseExpression(LOWEST)
		ident, ok := expr.(*ast.Identifier)
		if !ok {
			p.errorf("invalid assignment target for %s", op)
			return &ast.ExpressionStatement{Expression: expr}
		}
		return &ast.ExpressionStatement{Expression: &ast.CompoundAssignExpression{Operator: op, Name: ident.Name, Value: rhs}}
	}
	return &ast.ExpressionStatement{Expression: expr}
}

func compoundOp(k token.Kind) string {
	switch k {
	case token.PLUS_ASSIGN:
		return "+"
	case token.MINUS_ASSIGN:
		return "-"
	case token.STAR_ASSIGN:
		return "*"
	case token.SLASH_ASSIGN:
		return "/"
	case token.PERCENT_ASSIGN:
		return "%"
	}
	return "?"
}

// buildAssignment converts a parsed left-hand expression into the matching
// assignment node; any other left-hand form is a fatal syntax error, per
// the language's assignment-target restriction.
func buildAssignment(p *Parser, left, right ast.Expression) ast.Expression {
	switch t := left.(type) {
	case *ast.Identifier:
		return &ast.AssignExpression{Name: t.Name, Value: right}
	case *ast.IndexExpression:
		return &ast.IndexAssignExpression{Target: t, Value: right}
	case *ast.MemberExpression:
		return &ast.MemberAssignExpression{Target: t, Value: right}
	default:
		p.errorf("invalid assignment target")
		return left
	}
}
