// Package parser implements a recursive-descent, Pratt-style precedence
// parser that turns a token stream into an *ast.Program.
package parser

import (
	"fmt"

	"github.com/mrwan84/jeem/internal/ast"
	"github.com/mrwan84/jeem/internal/lexer"
	"github.com/mrwan84/jeem/internal/token"
)

// Error is a syntax error, carrying the position it occurred at.
type Error struct {
	Line    int
	Column  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: error: %s", e.Line, e.Message)
}

const (
	_ int = iota
	LOWEST
	TERNARY     // ?:
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALITY    // == !=
	COMPARISON  // < > <= >=
	ADDITIVE    // + -
	MULTIPLICATIVE // * / %
	EXPONENT    // ** (right assoc)
	PREFIX      // -x !x ++x --x
	POSTFIX     // x++ x--
	CALL        // foo(...) arr[i] obj.m
)

var precedences = map[token.Kind]int{
	token.QUESTION:   TERNARY,
	token.OR:         LOGIC_OR,
	token.AND:        LOGIC_AND,
	token.EQ:         EQUALITY,
	token.NOT_EQ:     EQUALITY,
	token.LT:         COMPARISON,
	token.GT:         COMPARISON,
	token.LE:         COMPARISON,
	token.GE:         COMPARISON,
	token.PLUS:       ADDITIVE,
	token.MINUS:      ADDITIVE,
	token.ASTERISK:   MULTIPLICATIVE,
	token.SLASH:      MULTIPLICATIVE,
	token.PERCENT:    MULTIPLICATIVE,
	token.POWER:      EXPONENT,
	token.LPAREN:     CALL,
	token.LBRACKET:   CALL,
	token.DOT:        CALL,
	token.INCREMENT:  POSTFIX,
	token.DECREMENT:  POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser turns tokens from a lexer.Lexer into an *ast.Program.
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  token.Token
	peek token.Token

	errs []error

	prefixFns map[token.Kind]prefixParseFn
	infixFns  map[token.Kind]infixParseFn
}

// New creates a Parser reading from l. file is used only for error messages.
func New(l *lexer.Lexer, file string) *Parser {
	p := &Parser{l: l, file: file}
	p.prefixFns = map[token.Kind]prefixParseFn{}
	p.infixFns = map[token.Kind]infixParseFn{}

	p.prefixFns[token.IDENT] = p.parseIdentifier
	p.prefixFns[token.INT] = p.parseIntegerLiteral
	p.prefixFns[token.FLOAT] = p.parseFloatLiteral
	p.prefixFns[token.STRING] = p.parseStringLiteral
	p.prefixFns[token.TEMPLATE] = p.parseTemplateLiteral
	p.prefixFns[token.TRUE] = p.parseBooleanLiteral
	p.prefixFns[token.FALSE] = p.parseBooleanLiteral
	p.prefixFns[token.NULL] = p.parseNullLiteral
	p.prefixFns[token.LPAREN] = p.parseParenOrArrow
	p.prefixFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixFns[token.LBRACE] = p.parseObjectLiteral
	p.prefixFns[token.FUNC] = p.parseFunctionLiteral
	p.prefixFns[token.NEW] = p.parseNewExpression
	p.prefixFns[token.THIS] = p.parseThisExpression
	p.prefixFns[token.SUPER] = p.parseSuperExpression
	p.prefixFns[token.MINUS] = p.parseUnaryExpression
	p.prefixFns[token.PLUS] = p.parseUnaryExpression
	p.prefixFns[token.BANG] = p.parseUnaryExpression
	p.prefixFns[token.INCREMENT] = p.parseUnaryExpression
	p.prefixFns[token.DECREMENT] = p.parseUnaryExpression

	p.infixFns[token.PLUS] = p.parseBinaryExpression
	p.infixFns[token.MINUS] = p.parseBinaryExpression
	p.infixFns[token.ASTERISK] = p.parseBinaryExpression
	p.infixFns[token.SLASH] = p.parseBinaryExpression
	p.infixFns[token.PERCENT] = p.parseBinaryExpression
	p.infixFns[token.POWER] = p.parseBinaryExpressionRightAssoc
	p.infixFns[token.EQ] = p.parseBinaryExpression
	p.infixFns[token.NOT_EQ] = p.parseBinaryExpression
	p.infixFns[token.LT] = p.parseBinaryExpression
	p.infixFns[token.GT] = p.parseBinaryExpression
	p.infixFns[token.LE] = p.parseBinaryExpression
	p.infixFns[token.GE] = p.parseBinaryExpression
	p.infixFns[token.AND] = p.parseBinaryExpression
	p.infixFns[token.OR] = p.parseBinaryExpression
	p.infixFns[token.QUESTION] = p.parseTernaryExpression
	p.infixFns[token.LPAREN] = p.parseCallExpression
	p.infixFns[token.LBRACKET] = p.parseIndexExpression
	p.infixFns[token.DOT] = p.parseMemberExpression
	p.infixFns[token.INCREMENT] = p.parsePostfixExpression
	p.infixFns[token.DECREMENT] = p.parsePostfixExpression

	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		p.errs = append(p.errs, err)
		tok = token.Token{Kind: token.EOF, Line: p.cur.Line}
	}
	p.peek = tok
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs = append(p.errs, &Error{Line: p.cur.Line, Column: p.cur.Column, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) expect(k token.Kind) bool {
	if p.cur.Kind == k {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s", k, p.cur.Kind)
	return false
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses the full token stream into a Program, recovering
// from any internal panic into a clean error (mirrors the teacher's
// processor.go panic/recover boundary around one parse call).
func (p *Parser) ParseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: internal parser error: %v", p.file, r)
		}
	}()

	prog = &ast.Program{}
	for p.cur.Kind != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.next()
	}
	if len(p.errs) > 0 {
		return prog, p.errs[0]
	}
	return prog, nil
}
