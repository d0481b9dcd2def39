// Package compiler lowers a Finch AST into bytecode. Grounded on the
// teacher's single-pass, stack-discipline Compiler (emit-as-you-walk,
// no separate optimization pass), simplified for Finch's runtime name
// resolution: where the teacher's Compiler carries a SymbolTable to
// assign local variables to numbered slots at compile time, Finch
// resolves every LOAD_LOCAL/SET_LOCAL by walking the live Scope chain
// at run time (see object.Scope), so no symbol table is needed here —
// the compiler only has to decide which of the three binding spaces
// (local/object/global) a name's declaring form names, which the
// parser has already made explicit in the AST.
package compiler

import (
	"fmt"

	"github.com/xbee/finch/ast"
	"github.com/xbee/finch/bytecode"
)

// compiler holds the tables shared across one Environment's lifetime
// and the instruction buffer for the CodeBlock currently being built.
// A fresh compiler is used for each CodeBlock; nested block literals
// recurse into Compile with the same shared tables.
type compiler struct {
	strings      *bytecode.StringTable
	blocks       *bytecode.BlockTable
	instructions []bytecode.Instruction
}

// Compile lowers a block or method body (its parameter names and
// statement sequence) into a CodeBlock, recursively compiling and
// publishing any nested block literals into blocks along the way. It
// does not itself publish the returned CodeBlock — the top-level
// caller (environment.Environment.CompileBlock) does that, so this
// package need not import environment.
func Compile(params []string, body []ast.Node, strings *bytecode.StringTable, blocks *bytecode.BlockTable) (*bytecode.CodeBlock, error) {
	c := &compiler{strings: strings, blocks: blocks}

	if len(body) == 0 {
		c.emit(bytecode.OpLoadGlobal, withID(c.intern("Nil")))
	}
	for i, stmt := range body {
		if err := c.compileNode(stmt); err != nil {
			return nil, err
		}
		if i < len(body)-1 {
			c.emit(bytecode.OpPop)
		}
	}
	c.emit(bytecode.OpEndBlock)

	return &bytecode.CodeBlock{Params: params, Code: c.instructions}, nil
}

func (c *compiler) intern(s string) int32 { return int32(c.strings.Intern(s)) }

// instOpt configures an emitted Instruction beyond its Opcode.
type instOpt func(*bytecode.Instruction)

func withID(id int32) instOpt   { return func(i *bytecode.Instruction) { i.ID = id } }
func withNum(n float64) instOpt { return func(i *bytecode.Instruction) { i.Number = n } }

func (c *compiler) emit(op bytecode.Opcode, opts ...instOpt) {
	inst := bytecode.Instruction{Op: op}
	for _, opt := range opts {
		opt(&inst)
	}
	c.instructions = append(c.instructions, inst)
}

func (c *compiler) compileNode(node ast.Node) error {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		c.emit(bytecode.OpNumberLiteral, withNum(n.Value))

	case *ast.StringLiteral:
		c.emit(bytecode.OpStringLiteral, withID(c.intern(n.Value)))

	case *ast.Identifier:
		c.emit(bytecode.OpLoadLocal, withID(c.intern(n.Name)))

	case *ast.SelfExpr:
		c.emit(bytecode.OpLoadSelf)

	case *ast.GlobalExpr:
		c.emit(bytecode.OpLoadGlobal, withID(c.intern(n.Name)))

	case *ast.ObjectFieldExpr:
		c.emit(bytecode.OpLoadObject, withID(c.intern(n.Name)))

	case *ast.BlockLiteral:
		nested, err := Compile(n.Params, n.Body, c.strings, c.blocks)
		if err != nil {
			return err
		}
		id := c.blocks.Add(nested)
		c.emit(bytecode.OpBlockLiteral, withID(int32(id)))

	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			if err := c.compileNode(el); err != nil {
				return err
			}
		}
		c.emit(bytecode.OpCreateArray, withID(int32(len(n.Elements))))

	case *ast.MessageSend:
		if err := c.compileNode(n.Receiver); err != nil {
			return err
		}
		for _, arg := range n.Args {
			if err := c.compileNode(arg); err != nil {
				return err
			}
		}
		if len(n.Args) > bytecode.MaxMessageArity {
			return fmt.Errorf("compiler: %q takes %d arguments, more than the maximum of %d", n.Selector, len(n.Args), bytecode.MaxMessageArity)
		}
		c.emit(bytecode.MessageOp(len(n.Args)), withID(c.intern(n.Selector)))

	case *ast.LetDef:
		if err := c.compileNode(n.Value); err != nil {
			return err
		}
		c.emit(bytecode.OpDefLocal, withID(c.intern(n.Name)))

	case *ast.GlobalDef:
		if err := c.compileNode(n.Value); err != nil {
			return err
		}
		c.emit(bytecode.OpDefGlobal, withID(c.intern(n.Name)))

	case *ast.ObjectDef:
		if err := c.compileNode(n.Value); err != nil {
			return err
		}
		c.emit(bytecode.OpDefObject, withID(c.intern(n.Name)))

	case *ast.Assign:
		if err := c.compileNode(n.Value); err != nil {
			return err
		}
		c.emit(bytecode.OpSetLocal, withID(c.intern(n.Name)))

	case *ast.UndefLocal:
		c.emit(bytecode.OpUndefLocal, withID(c.intern(n.Name)))

	case *ast.UndefGlobal:
		c.emit(bytecode.OpUndefGlobal, withID(c.intern(n.Name)))

	case *ast.UndefObject:
		c.emit(bytecode.OpUndefObject, withID(c.intern(n.Name)))

	default:
		return fmt.Errorf("compiler: unhandled AST node %T", node)
	}
	return nil
}
