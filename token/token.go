// Package token defines the lexical token types produced by the Finch
// lexer and consumed by the parser.
//
// Finch's surface syntax is not part of the specification this module
// implements — the execution core treats the lexer, parser, and
// compiler as external collaborators reachable only through a
// Compile(environment, bodyAst) contract — but a runnable CLI and REPL
// need a concrete grammar, so this package and the lexer/parser/
// compiler packages give the core one, built the way the teacher's own
// token/lexer/parser pipeline is built.
package token

// Type represents the type of token.
type Type string

// Token represents a single token in the source code.
type Token struct {
	Type    Type
	Literal string
}

//nolint:revive
const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	IDENT  = "IDENT"  // foo, fooBar — also each colon-free part of a keyword selector
	NUMBER = "NUMBER" // 3, 3.5
	STRING = "STRING" // "..."

	// Binary message selectors, each its own token type so the parser
	// recognizes a binary message without needing a keyword lookahead.
	PLUS   = "+"
	MINUS  = "-"
	STAR   = "*"
	SLASH  = "/"
	LT     = "<"
	GT     = ">"
	LTE    = "<="
	GTE    = ">="
	EQ     = "="
	NOT_EQ = "!="

	DEFINE = ":=" // declares or reassigns a local, global, or self.field binding

	DOT      = "." // statement separator
	COLON    = ":" // keyword-part terminator
	COMMA    = "," // element separator in {array} literals
	PIPE     = "|" // block parameter list delimiter
	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"

	SELF   = "SELF"
	GLOBAL = "GLOBAL"
	LET    = "LET"
	UNDEF  = "UNDEF"
)

// keywords is a map of reserved words to their corresponding token types.
var keywords = map[string]Type{
	"self":   SELF,
	"global": GLOBAL,
	"let":    LET,
	"undef":  UNDEF,
}

// LookupIdent reports the keyword Type for literal if it names a
// reserved word, or IDENT otherwise.
func LookupIdent(literal string) Type {
	if tok, ok := keywords[literal]; ok {
		return tok
	}
	return IDENT
}
