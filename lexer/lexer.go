// Package lexer implements the lexical analyzer for Finch's surface
// syntax: Smalltalk-style keyword messages over a prototype object
// model. It tokenizes one rune class at a time, grounded on the
// teacher's single-pass, allocation-conscious Lexer.
package lexer

import (
	"strings"

	"github.com/xbee/finch/token"
)

var (
	tokenPlus   = token.Token{Type: token.PLUS, Literal: "+"}
	tokenMinus  = token.Token{Type: token.MINUS, Literal: "-"}
	tokenSlash  = token.Token{Type: token.SLASH, Literal: "/"}
	tokenStar   = token.Token{Type: token.STAR, Literal: "*"}
	tokenLT     = token.Token{Type: token.LT, Literal: "<"}
	tokenLTE    = token.Token{Type: token.LTE, Literal: "<="}
	tokenGT     = token.Token{Type: token.GT, Literal: ">"}
	tokenGTE    = token.Token{Type: token.GTE, Literal: ">="}
	tokenEq     = token.Token{Type: token.EQ, Literal: "="}
	tokenDefine = token.Token{Type: token.DEFINE, Literal: ":="}
	tokenColon  = token.Token{Type: token.COLON, Literal: ":"}
	tokenDot    = token.Token{Type: token.DOT, Literal: "."}
	tokenComma  = token.Token{Type: token.COMMA, Literal: ","}
	tokenPipe   = token.Token{Type: token.PIPE, Literal: "|"}
	tokenLParen = token.Token{Type: token.LPAREN, Literal: "("}
	tokenRParen = token.Token{Type: token.RPAREN, Literal: ")"}
	tokenLBrack = token.Token{Type: token.LBRACKET, Literal: "["}
	tokenRBrack = token.Token{Type: token.RBRACKET, Literal: "]"}
	tokenLBrace = token.Token{Type: token.LBRACE, Literal: "{"}
	tokenRBrace = token.Token{Type: token.RBRACE, Literal: "}"}
	tokenEOF    = token.Token{Type: token.EOF, Literal: ""}
)

// Lexer turns Finch source text into a stream of Tokens.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte

	singleCharToken token.Token
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken consumes and returns the next token in the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	switch l.ch {
	case '+':
		l.readChar()
		return tokenPlus
	case '-':
		l.readChar()
		return tokenMinus
	case '*':
		l.readChar()
		return tokenStar
	case '/':
		l.readChar()
		return tokenSlash
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tokenLTE
		}
		l.readChar()
		return tokenLT
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tokenGTE
		}
		l.readChar()
		return tokenGT
	case '=':
		l.readChar()
		return tokenEq
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return token.Token{Type: token.NOT_EQ, Literal: "!="}
		}
		l.singleCharToken.Type = token.ILLEGAL
		l.singleCharToken.Literal = "!"
		l.readChar()
		return l.singleCharToken
	case ':':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return tokenDefine
		}
		l.readChar()
		return tokenColon
	case '.':
		l.readChar()
		return tokenDot
	case ',':
		l.readChar()
		return tokenComma
	case '|':
		l.readChar()
		return tokenPipe
	case '(':
		l.readChar()
		return tokenLParen
	case ')':
		l.readChar()
		return tokenRParen
	case '[':
		l.readChar()
		return tokenLBrack
	case ']':
		l.readChar()
		return tokenRBrack
	case '{':
		l.readChar()
		return tokenLBrace
	case '}':
		l.readChar()
		return tokenRBrace
	case '"':
		lit, ok := l.readString()
		if !ok {
			l.singleCharToken.Type = token.ILLEGAL
			l.singleCharToken.Literal = "unterminated string"
			return l.singleCharToken
		}
		tok := token.Token{Type: token.STRING, Literal: lit}
		l.readChar()
		return tok
	case 0:
		return tokenEOF
	default:
		if isLetter(l.ch) {
			literal := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(literal), Literal: literal}
		}
		if isDigit(l.ch) {
			return token.Token{Type: token.NUMBER, Literal: l.readNumber()}
		}
		l.singleCharToken.Type = token.ILLEGAL
		l.singleCharToken.Literal = string(l.ch)
		l.readChar()
		return l.singleCharToken
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '-'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads an integer or decimal literal such as 3 or 3.5. A
// '.' is only consumed as a fractional separator when followed by a
// digit, so that `3.` (end of statement) still lexes as NUMBER("3")
// followed by DOT.
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

func (l *Lexer) skipWhitespace() {
	for {
		if l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
			continue
		}
		if l.ch == '/' && l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		break
	}
}

// readString reads the content between two double quotes, interpreting
// backslash escapes, and reports whether the string was closed.
func (l *Lexer) readString() (string, bool) {
	var b strings.Builder
	l.readChar()

	for {
		if l.ch == '"' {
			return b.String(), true
		}
		if l.ch == 0 {
			return b.String(), false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.ch == 0 {
				return b.String(), false
			}
			switch l.ch {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte('\\')
				b.WriteByte(l.ch)
			}
		} else {
			b.WriteByte(l.ch)
		}
		l.readChar()
	}
}
