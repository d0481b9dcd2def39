// Package ast defines the abstract syntax tree produced by the Finch
// parser and consumed by the compiler. Every node is either a
// statement-level declaration form (LetDef, GlobalDef, ObjectDef,
// Assign, UndefLocal/Global/Object) or an expression (Identifier,
// NumberLiteral, StringLiteral, SelfExpr, GlobalExpr, ObjectFieldExpr,
// BlockLiteral, ArrayLiteral, MessageSend); a Program is a flat
// sequence of either.
package ast

import (
	"strconv"
	"strings"
)

// Node is the base interface every AST node implements.
type Node interface {
	// String renders the node for debugging and disassembly, not for
	// round-tripping to valid source.
	String() string
}

// Program is the root node: a sequence of top-level statements, the
// same body shape a block or method has.
type Program struct {
	Statements []Node
}

func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.Statements {
		if i > 0 {
			b.WriteString(".\n")
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// Identifier reads a name from the current frame's Scope chain
// (compiles to LOAD_LOCAL).
type Identifier struct {
	Name string
}

func (i *Identifier) String() string { return i.Name }

// NumberLiteral is a literal numeric constant (compiles to
// NUMBER_LITERAL).
type NumberLiteral struct {
	Value float64
}

func (n *NumberLiteral) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// StringLiteral is a literal string constant (compiles to
// STRING_LITERAL).
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) String() string { return `"` + s.Value + `"` }

// SelfExpr reads the current receiver (compiles to LOAD_SELF).
type SelfExpr struct{}

func (*SelfExpr) String() string { return "self" }

// GlobalExpr reads Name from the global scope (compiles to
// LOAD_GLOBAL).
type GlobalExpr struct {
	Name string
}

func (g *GlobalExpr) String() string { return "global " + g.Name }

// ObjectFieldExpr reads Name from the current receiver's ObjectScope
// (compiles to LOAD_OBJECT).
type ObjectFieldExpr struct {
	Name string
}

func (o *ObjectFieldExpr) String() string { return "self." + o.Name }

// BlockLiteral is a block or method body: a parameter list and a
// sequence of statements (compiles to a CodeBlock referenced by
// BLOCK_LITERAL).
type BlockLiteral struct {
	Params []string
	Body   []Node
}

func (b *BlockLiteral) String() string {
	var out strings.Builder
	out.WriteByte('[')
	for _, p := range b.Params {
		out.WriteByte(':')
		out.WriteString(p)
		out.WriteByte(' ')
	}
	if len(b.Params) > 0 {
		out.WriteString("| ")
	}
	for i, s := range b.Body {
		if i > 0 {
			out.WriteString(". ")
		}
		out.WriteString(s.String())
	}
	out.WriteByte(']')
	return out.String()
}

// ArrayLiteral builds an Array from its Elements in source order
// (compiles to CREATE_ARRAY).
type ArrayLiteral struct {
	Elements []Node
}

func (a *ArrayLiteral) String() string {
	var out strings.Builder
	out.WriteByte('{')
	for i, e := range a.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(e.String())
	}
	out.WriteByte('}')
	return out.String()
}

// MessageSend sends Selector to Receiver with Args (compiles to
// MESSAGE_k, k == len(Args)). A unary or binary send has no colon in
// Selector; a keyword send's Selector is the concatenation of its
// keyword parts, e.g. "at:put:".
type MessageSend struct {
	Receiver Node
	Selector string
	Args     []Node
}

func (m *MessageSend) String() string {
	var out strings.Builder
	out.WriteString(m.Receiver.String())
	out.WriteByte(' ')
	out.WriteString(m.Selector)
	for _, a := range m.Args {
		out.WriteByte(' ')
		out.WriteString(a.String())
	}
	return out.String()
}

// LetDef declares Name fresh in the current frame's Scope, binding
// Value (compiles to DEF_LOCAL). Declaring is distinct from Assign: a
// later bare `name := expr` reassigns the binding LetDef created.
type LetDef struct {
	Name  string
	Value Node
}

func (l *LetDef) String() string { return "let " + l.Name + " := " + l.Value.String() }

// GlobalDef declares Name in the global scope, binding Value (compiles
// to DEF_GLOBAL).
type GlobalDef struct {
	Name  string
	Value Node
}

func (g *GlobalDef) String() string { return "global " + g.Name + " := " + g.Value.String() }

// ObjectDef declares Name in the current receiver's ObjectScope,
// binding Value (compiles to DEF_OBJECT). A Value that is a
// BlockLiteral installs a method; any other value installs a field —
// dispatch treats both identically.
type ObjectDef struct {
	Name  string
	Value Node
}

func (o *ObjectDef) String() string { return "self." + o.Name + " := " + o.Value.String() }

// Assign reassigns the nearest enclosing binding of Name reachable
// from the current scope (compiles to SET_LOCAL).
type Assign struct {
	Name  string
	Value Node
}

func (a *Assign) String() string { return a.Name + " := " + a.Value.String() }

// UndefLocal removes Name from the current frame's Scope chain
// (compiles to UNDEF_LOCAL).
type UndefLocal struct{ Name string }

func (u *UndefLocal) String() string { return "undef " + u.Name }

// UndefGlobal removes Name from the global scope (compiles to
// UNDEF_GLOBAL).
type UndefGlobal struct{ Name string }

func (u *UndefGlobal) String() string { return "undef global " + u.Name }

// UndefObject removes Name from the current receiver's ObjectScope
// (compiles to UNDEF_OBJECT).
type UndefObject struct{ Name string }

func (u *UndefObject) String() string { return "undef self." + u.Name }
