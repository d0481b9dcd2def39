// Package parser implements the syntactic analyzer for Finch's
// surface syntax: a small recursive-descent parser, grounded on the
// teacher's Parser layout (New, curToken/peekToken, per-construct
// parse methods, accumulated Errors), adapted from Monkey's Pratt
// expression grammar to Finch's three-tier Smalltalk message grammar
// (unary, binary, keyword) and statement-level declaration forms
// (let/global/self-field define, assign, undef).
package parser

import (
	"fmt"
	"strconv"

	"github.com/xbee/finch/ast"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/token"
)

var binaryOperators = map[token.Type]bool{
	token.PLUS: true, token.MINUS: true, token.STAR: true, token.SLASH: true,
	token.LT: true, token.GT: true, token.LTE: true, token.GTE: true,
	token.EQ: true, token.NOT_EQ: true,
}

// Parser turns a token stream into an *ast.Program. Parse errors are
// accumulated rather than raised, so a caller can report every error
// found in one pass.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token
	peek2Tok  token.Token

	errors []string
}

// New creates a Parser reading from l, primed with its first three
// tokens of lookahead.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	p.next()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.peek2Tok
	p.peek2Tok = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(t token.Type) bool {
	if p.curToken.Type != t {
		p.errorf("expected token %q, got %q (%q)", t, p.curToken.Type, p.curToken.Literal)
		return false
	}
	p.next()
	return true
}

// ParseProgram parses a full program: a sequence of statements
// separated by '.', with an optional trailing '.' before EOF.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		if p.curToken.Type == token.DOT {
			p.next()
			continue
		}
		if p.curToken.Type != token.EOF {
			p.errorf("expected '.' or end of input, got %q", p.curToken.Literal)
			p.next()
		}
	}
	return prog
}

// parseBody parses the statement sequence inside a block or method
// literal, stopping at ']'.
func (p *Parser) parseBody() []ast.Node {
	var stmts []ast.Node
	for p.curToken.Type != token.RBRACKET && p.curToken.Type != token.EOF {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.curToken.Type == token.DOT {
			p.next()
			continue
		}
		break
	}
	return stmts
}

func (p *Parser) parseStatement() ast.Node {
	switch p.curToken.Type {
	case token.LET:
		return p.parseLetDef()
	case token.UNDEF:
		return p.parseUndef()
	default:
		return p.parseAssignOrExpression()
	}
}

func (p *Parser) parseLetDef() ast.Node {
	p.next() // consume 'let'
	name := p.curToken.Literal
	if !p.expect(token.IDENT) {
		return nil
	}
	if !p.expect(token.DEFINE) {
		return nil
	}
	value := p.parseExpression()
	return &ast.LetDef{Name: name, Value: value}
}

func (p *Parser) parseUndef() ast.Node {
	p.next() // consume 'undef'
	switch p.curToken.Type {
	case token.GLOBAL:
		p.next()
		name := p.curToken.Literal
		p.expect(token.IDENT)
		return &ast.UndefGlobal{Name: name}
	case token.SELF:
		p.next()
		p.expect(token.DOT)
		name := p.curToken.Literal
		p.expect(token.IDENT)
		return &ast.UndefObject{Name: name}
	default:
		name := p.curToken.Literal
		p.expect(token.IDENT)
		return &ast.UndefLocal{Name: name}
	}
}

// parseAssignOrExpression parses a full expression and, if it is
// immediately followed by ':=', reinterprets it as the corresponding
// declaration form based on what kind of assignable target it was.
func (p *Parser) parseAssignOrExpression() ast.Node {
	expr := p.parseExpression()
	if p.curToken.Type != token.DEFINE {
		return expr
	}
	p.next() // consume ':='
	value := p.parseExpression()

	switch target := expr.(type) {
	case *ast.Identifier:
		return &ast.Assign{Name: target.Name, Value: value}
	case *ast.GlobalExpr:
		return &ast.GlobalDef{Name: target.Name, Value: value}
	case *ast.ObjectFieldExpr:
		return &ast.ObjectDef{Name: target.Name, Value: value}
	default:
		p.errorf("invalid assignment target: %s", expr.String())
		return expr
	}
}

// parseExpression parses a full keyword-message expression, the
// lowest (outermost) precedence tier.
func (p *Parser) parseExpression() ast.Node {
	return p.parseKeywordMessage()
}

// parseKeywordMessage parses a chain of keyword parts
// ("kw1: arg1 kw2: arg2 ...") sent to a binary-message-level receiver.
// A keyword part is an IDENT immediately followed by ':'.
func (p *Parser) parseKeywordMessage() ast.Node {
	receiver := p.parseBinaryMessage()

	if !(p.curToken.Type == token.IDENT && p.peekToken.Type == token.COLON) {
		return receiver
	}

	var selector string
	var args []ast.Node
	for p.curToken.Type == token.IDENT && p.peekToken.Type == token.COLON {
		selector += p.curToken.Literal + ":"
		p.next() // consume keyword part
		p.next() // consume ':'
		args = append(args, p.parseBinaryMessage())
	}
	return &ast.MessageSend{Receiver: receiver, Selector: selector, Args: args}
}

// parseBinaryMessage parses a left-associative chain of binary
// operator sends over unary-message-level operands.
func (p *Parser) parseBinaryMessage() ast.Node {
	left := p.parseUnaryMessage()
	for binaryOperators[p.curToken.Type] {
		selector := p.curToken.Literal
		p.next()
		right := p.parseUnaryMessage()
		left = &ast.MessageSend{Receiver: left, Selector: selector, Args: []ast.Node{right}}
	}
	return left
}

// parseUnaryMessage parses a left-associative chain of zero-argument
// unary sends over a primary expression: `receiver ident ident ...`.
// An IDENT immediately followed by ':' is a keyword part, not a unary
// selector, so it is left for parseKeywordMessage to consume.
func (p *Parser) parseUnaryMessage() ast.Node {
	left := p.parsePrimary()
	for p.curToken.Type == token.IDENT && p.peekToken.Type != token.COLON {
		selector := p.curToken.Literal
		p.next()
		left = &ast.MessageSend{Receiver: left, Selector: selector}
	}
	return left
}

func (p *Parser) parsePrimary() ast.Node {
	switch p.curToken.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		lit := &ast.StringLiteral{Value: p.curToken.Literal}
		p.next()
		return lit
	case token.SELF:
		p.next()
		if p.curToken.Type == token.DOT && p.peekToken.Type == token.IDENT {
			p.next() // consume '.'
			name := p.curToken.Literal
			p.next() // consume field name
			return &ast.ObjectFieldExpr{Name: name}
		}
		return &ast.SelfExpr{}
	case token.GLOBAL:
		p.next()
		name := p.curToken.Literal
		p.expect(token.IDENT)
		return &ast.GlobalExpr{Name: name}
	case token.IDENT:
		name := p.curToken.Literal
		p.next()
		return &ast.Identifier{Name: name}
	case token.LBRACKET:
		return p.parseBlockLiteral()
	case token.LBRACE:
		return p.parseArrayLiteral()
	case token.LPAREN:
		p.next()
		expr := p.parseExpression()
		p.expect(token.RPAREN)
		return expr
	default:
		p.errorf("unexpected token %q (%q)", p.curToken.Type, p.curToken.Literal)
		p.next()
		return &ast.Identifier{Name: ""}
	}
}

func (p *Parser) parseNumber() ast.Node {
	lit := p.curToken.Literal
	p.next()
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errorf("invalid number literal %q: %s", lit, err)
	}
	return &ast.NumberLiteral{Value: v}
}

// parseBlockLiteral parses `[ :p1 :p2 | stmt. stmt ]`, where the
// `|`-terminated parameter list is omitted entirely for a zero-param
// block: `[ stmt. stmt ]`.
func (p *Parser) parseBlockLiteral() ast.Node {
	p.expect(token.LBRACKET)

	var params []string
	if p.curToken.Type == token.COLON {
		for p.curToken.Type == token.COLON {
			p.next() // consume ':'
			params = append(params, p.curToken.Literal)
			p.expect(token.IDENT)
		}
		p.expect(token.PIPE)
	}

	body := p.parseBody()
	p.expect(token.RBRACKET)
	return &ast.BlockLiteral{Params: params, Body: body}
}

// parseArrayLiteral parses `{ expr, expr, ... }`.
func (p *Parser) parseArrayLiteral() ast.Node {
	p.expect(token.LBRACE)

	var elements []ast.Node
	if p.curToken.Type != token.RBRACE {
		elements = append(elements, p.parseExpression())
		for p.curToken.Type == token.COMMA {
			p.next()
			elements = append(elements, p.parseExpression())
		}
	}
	p.expect(token.RBRACE)
	return &ast.ArrayLiteral{Elements: elements}
}
