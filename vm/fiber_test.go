package vm

import (
	"testing"

	"github.com/xbee/finch/bytecode"
	"github.com/xbee/finch/environment"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/object"
	"github.com/xbee/finch/parser"
)

// testHost is a minimal object.Host that records what was reported.
type testHost struct {
	errors []string
}

func (h *testHost) Output(string)             {}
func (h *testHost) Error(message string)      { h.errors = append(h.errors, message) }
func (h *testHost) LoadModule(string) (string, bool) { return "", false }

// testScheduler collects spawned fibers without running them, enough
// for tests that only need spawn: to not crash.
type testScheduler struct {
	spawned []*Fiber
}

func (s *testScheduler) Enqueue(f *Fiber) { s.spawned = append(s.spawned, f) }

func run(t *testing.T, source string) (object.Value, *testHost) {
	t.Helper()
	env := environment.New()
	host := &testHost{}
	sched := &testScheduler{}

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	id, err := env.CompileBlock(nil, program.Statements)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	block := &object.Block{Code: env.Blocks.Find(id), Closure: object.NewScope(env.Globals), Self: env.Nil}

	f := New(env, host, sched, block)
	return f.Execute(), host
}

// runEnv is like run but also returns the Environment, for tests that
// need to inspect shared state (e.g. the Nil singleton) afterward.
func runEnv(t *testing.T, source string) (object.Value, *testHost, *environment.Environment) {
	t.Helper()
	env := environment.New()
	host := &testHost{}
	sched := &testScheduler{}

	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}

	id, err := env.CompileBlock(nil, program.Statements)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	block := &object.Block{Code: env.Blocks.Find(id), Closure: object.NewScope(env.Globals), Self: env.Nil}

	f := New(env, host, sched, block)
	return f.Execute(), host, env
}

func TestExecuteNumberLiteral(t *testing.T) {
	result, _ := run(t, "42.")
	n, ok := result.(*object.Number)
	if !ok || n.Value != 42 {
		t.Fatalf("expected Number(42), got %#v", result)
	}
}

func TestExecuteArithmetic(t *testing.T) {
	result, _ := run(t, "2 + 3 * 4.")
	n := result.(*object.Number)
	// binary messages are left-associative with no precedence, so this
	// is (2 + 3) * 4, not 2 + (3 * 4).
	if n.Value != 20 {
		t.Errorf("expected 20, got %v", n.Value)
	}
}

func TestExecuteLetAndReassign(t *testing.T) {
	result, _ := run(t, "let x := 1. x := x + 1. x.")
	n := result.(*object.Number)
	if n.Value != 2 {
		t.Errorf("expected 2, got %v", n.Value)
	}
}

func TestExecuteIfThenElse(t *testing.T) {
	result, _ := run(t, "Environment if: True then: [1] else: [2].")
	n := result.(*object.Number)
	if n.Value != 1 {
		t.Errorf("expected 1, got %v", n.Value)
	}
}

func TestExecuteIfThenElseWithComputedCondition(t *testing.T) {
	result, _ := run(t, "Environment if: 1 = 1 then: [10] else: [20].")
	n := result.(*object.Number)
	if n.Value != 10 {
		t.Errorf("expected 10, got %v", n.Value)
	}
}

func TestExecuteWhileDo(t *testing.T) {
	result, _ := run(t, `
		let i := 0.
		Environment while: [i < 5] do: [i := i + 1].
		i.
	`)
	n := result.(*object.Number)
	if n.Value != 5 {
		t.Errorf("expected 5, got %v", n.Value)
	}
}

func TestExecuteBlockValue(t *testing.T) {
	result, _ := run(t, "[:x :y | x + y] value: 3 value: 4.")
	n := result.(*object.Number)
	if n.Value != 7 {
		t.Errorf("expected 7, got %v", n.Value)
	}
}

func TestExecuteObjectCopyAndField(t *testing.T) {
	result, _ := run(t, `
		let point := Object copy.
		point add-field: "x" value: 10.
		point add-field: "y" value: 20.
		point x + point y.
	`)
	n := result.(*object.Number)
	if n.Value != 30 {
		t.Errorf("expected 30, got %v", n.Value)
	}
}

func TestExecuteObjectMethod(t *testing.T) {
	result, _ := run(t, `
		let point := Object copy.
		point add-field: "x" value: 10.
		point add-method: "double:" body: [:n | self.x + self.x].
		point double: 0.
	`)
	n := result.(*object.Number)
	if n.Value != 20 {
		t.Errorf("expected 20, got %v", n.Value)
	}
}

func TestExecuteArrayPrimitives(t *testing.T) {
	result, _ := run(t, `
		let a := {1, 2, 3}.
		a add: 4.
		a at: 3.
	`)
	n := result.(*object.Number)
	if n.Value != 4 {
		t.Errorf("expected 4, got %v", n.Value)
	}
}

func TestExecuteStringConcatenation(t *testing.T) {
	result, _ := run(t, `"foo" append: "bar".`)
	s := result.(*object.String)
	if s.Value != "foobar" {
		t.Errorf("expected %q, got %q", "foobar", s.Value)
	}
}

func TestDoesNotUnderstandReportsErrorAndReturnsNil(t *testing.T) {
	result, host := run(t, "42 wobble.")
	if result != nil {
		if _, ok := result.(*object.DynamicObject); !ok {
			t.Fatalf("expected a DynamicObject (Nil), got %#v", result)
		}
	}
	if len(host.errors) == 0 {
		t.Fatal("expected an error to be reported for an unhandled selector")
	}
}

func TestTopLevelSelfFieldAssignmentIsAnError(t *testing.T) {
	// At the top level self == Nil, which must not be writable as if it
	// were an ordinary object: a `self.x :=` landing in the shared Nil
	// singleton's fields would corrupt every fiber's notion of Nil.
	result, host, env := runEnv(t, "self.x := 5.")
	n, ok := result.(*object.Number)
	if !ok || n.Value != 5 {
		t.Fatalf("expected DEF_OBJECT to still leave its value on the stack, got %#v", result)
	}
	if len(host.errors) == 0 {
		t.Fatal("expected an error reporting that self has no field scope")
	}
	if _, found := env.Nil.Fields.LookUpLocal("x"); found {
		t.Fatal("expected the Nil singleton to not have gained a field x")
	}
}

func TestTopLevelSelfFieldReadIsAnError(t *testing.T) {
	result, host := run(t, "self.x.")
	if _, ok := result.(*object.DynamicObject); !ok {
		t.Fatalf("expected Nil back for an unreadable field, got %#v", result)
	}
	if len(host.errors) == 0 {
		t.Fatal("expected an error reporting that self has no field scope")
	}
}

func TestTopLevelSelfFieldUndefIsAnError(t *testing.T) {
	_, host := run(t, "undef self.x.")
	if len(host.errors) == 0 {
		t.Fatal("expected an error reporting that self has no field scope")
	}
}

func TestFatalOpcodeErrorDropsOnlyThatFiberWithoutPanicking(t *testing.T) {
	env := environment.New()
	host := &testHost{}
	sched := &testScheduler{}

	code := &bytecode.CodeBlock{Code: []bytecode.Instruction{{Op: bytecode.Opcode(255)}}}
	block := &object.Block{Code: code, Closure: object.NewScope(env.Globals), Self: env.Nil}

	f := New(env, host, sched, block)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Execute must recover from a fatal opcode error itself, got panic: %v", r)
		}
	}()

	result := f.Execute()
	if result != nil {
		t.Fatalf("expected no result from a fiber that hit a fatal error, got %#v", result)
	}
	if !f.IsDone() {
		t.Fatal("expected the fiber to be dropped (done) after a fatal error")
	}
	if len(host.errors) == 0 {
		t.Fatal("expected the fatal error to be reported through the host")
	}
}

func TestOperandStackUnderflowDropsFiberWithoutPanicking(t *testing.T) {
	env := environment.New()
	host := &testHost{}
	sched := &testScheduler{}

	// A bare POP with nothing pushed first underflows the operand stack.
	code := &bytecode.CodeBlock{Code: []bytecode.Instruction{{Op: bytecode.OpPop}}}
	block := &object.Block{Code: code, Closure: object.NewScope(env.Globals), Self: env.Nil}

	f := New(env, host, sched, block)

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Execute must recover from a stack underflow itself, got panic: %v", r)
		}
	}()

	f.Execute()
	if !f.IsDone() {
		t.Fatal("expected the fiber to be dropped (done) after a stack underflow")
	}
	if len(host.errors) == 0 {
		t.Fatal("expected the underflow to be reported through the host")
	}
}

func TestRecursionViaTailCallDoesNotGrowFrameStack(t *testing.T) {
	// Defines a self-recursive counting method, steps the fiber by hand
	// while recording the deepest call stack seen, and checks that it
	// stays bounded, proving Tail's TCO fold actually collapses
	// tail-recursive frames.
	env := environment.New()
	p := parser.New(lexer.New(`
		let counter := Object copy.
		counter add-field: "n" value: 0.
		counter add-method: "countTo:" body: [:limit |
			Environment if: self.n = limit then: [self.n] else: [
				self.n := self.n + 1.
				self countTo: limit
			]
		].
		counter countTo: 2000.
	`))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors: %v", errs)
	}
	id, err := env.CompileBlock(nil, program.Statements)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	block := &object.Block{Code: env.Blocks.Find(id), Closure: object.NewScope(env.Globals), Self: env.Nil}
	f := New(env, &testHost{}, &testScheduler{}, block)

	maxFrames := 0
	for len(f.frames) > 0 {
		f.step()
		if len(f.frames) > maxFrames {
			maxFrames = len(f.frames)
		}
	}
	result := f.popOperand()

	n := result.(*object.Number)
	if n.Value != 2000 {
		t.Errorf("expected 2000, got %v", n.Value)
	}
	if maxFrames > 10 {
		t.Errorf("expected the call stack to stay bounded, peaked at %d frames", maxFrames)
	}
}
