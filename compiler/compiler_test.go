package compiler

import (
	"testing"

	"github.com/xbee/finch/bytecode"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/parser"
)

func compileSource(t *testing.T, input string) (*bytecode.CodeBlock, *bytecode.StringTable, *bytecode.BlockTable) {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	strings := bytecode.NewStringTable()
	blocks := bytecode.NewBlockTable()
	code, err := Compile(nil, program.Statements, strings, blocks)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return code, strings, blocks
}

func TestCompileNumberLiteral(t *testing.T) {
	code, _, _ := compileSource(t, "42.")

	// NUMBER_LITERAL, END_BLOCK — a single statement leaves its value on
	// the stack with no trailing POP.
	if len(code.Code) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(code.Code))
	}
	if code.Code[0].Op != bytecode.OpNumberLiteral {
		t.Errorf("expected NUMBER_LITERAL, got %s", code.Code[0].Op)
	}
	if code.Code[0].Number != 42 {
		t.Errorf("expected constant 42, got %v", code.Code[0].Number)
	}
	if code.Code[1].Op != bytecode.OpEndBlock {
		t.Errorf("expected END_BLOCK, got %s", code.Code[1].Op)
	}
}

func TestCompileEmptyBodyPushesNil(t *testing.T) {
	code, strings, _ := compileSource(t, "")

	if len(code.Code) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(code.Code))
	}
	if code.Code[0].Op != bytecode.OpLoadGlobal {
		t.Fatalf("expected LOAD_GLOBAL, got %s", code.Code[0].Op)
	}
	if strings.Find(int(code.Code[0].ID)) != "Nil" {
		t.Errorf("expected LOAD_GLOBAL(Nil), got %q", strings.Find(int(code.Code[0].ID)))
	}
}

func TestCompilePopsAllButLastStatement(t *testing.T) {
	code, _, _ := compileSource(t, "1. 2. 3.")

	// NUMBER 1, POP, NUMBER 2, POP, NUMBER 3, END_BLOCK
	if len(code.Code) != 6 {
		t.Fatalf("expected 6 instructions, got %d", len(code.Code))
	}
	wantOps := []bytecode.Opcode{
		bytecode.OpNumberLiteral, bytecode.OpPop,
		bytecode.OpNumberLiteral, bytecode.OpPop,
		bytecode.OpNumberLiteral, bytecode.OpEndBlock,
	}
	for i, want := range wantOps {
		if code.Code[i].Op != want {
			t.Errorf("instruction %d: expected %s, got %s", i, want, code.Code[i].Op)
		}
	}
}

func TestCompileLetDefLeavesValueOnStack(t *testing.T) {
	code, strings, _ := compileSource(t, "let x := 5.")

	if len(code.Code) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(code.Code))
	}
	if code.Code[1].Op != bytecode.OpDefLocal {
		t.Fatalf("expected DEF_LOCAL, got %s", code.Code[1].Op)
	}
	if strings.Find(int(code.Code[1].ID)) != "x" {
		t.Errorf("expected DEF_LOCAL(x), got %q", strings.Find(int(code.Code[1].ID)))
	}
	if code.Code[2].Op != bytecode.OpEndBlock {
		t.Errorf("expected END_BLOCK as the final instruction (DEF_LOCAL does not pop), got %s", code.Code[2].Op)
	}
}

func TestCompileKeywordMessage(t *testing.T) {
	code, strings, _ := compileSource(t, "array at: 1 put: 2.")

	var messageInst *bytecode.Instruction
	for i := range code.Code {
		if code.Code[i].Op.IsMessage() {
			messageInst = &code.Code[i]
		}
	}
	if messageInst == nil {
		t.Fatal("expected a MESSAGE_k instruction")
	}
	if messageInst.Op.Arity() != 2 {
		t.Errorf("expected arity 2, got %d", messageInst.Op.Arity())
	}
	if strings.Find(int(messageInst.ID)) != "at:put:" {
		t.Errorf("expected selector %q, got %q", "at:put:", strings.Find(int(messageInst.ID)))
	}
}

func TestCompileNestedBlockLiteralPublishesToBlockTable(t *testing.T) {
	code, _, blocks := compileSource(t, "[:x | x].")

	if code.Code[0].Op != bytecode.OpBlockLiteral {
		t.Fatalf("expected BLOCK_LITERAL, got %s", code.Code[0].Op)
	}
	nested := blocks.Find(int(code.Code[0].ID))
	if len(nested.Params) != 1 || nested.Params[0] != "x" {
		t.Errorf("expected nested block params [x], got %v", nested.Params)
	}
}

func TestCompileTooManyArgumentsIsAnError(t *testing.T) {
	p := parser.New(lexer.New(
		"obj kw0: 1 kw1: 2 kw2: 3 kw3: 4 kw4: 5 kw5: 6 kw6: 7 kw7: 8 kw8: 9 kw9: 10 kw10: 11.",
	))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	_, err := Compile(nil, program.Statements, bytecode.NewStringTable(), bytecode.NewBlockTable())
	if err == nil {
		t.Fatal("expected an error for a send exceeding the maximum arity")
	}
}
