// Package interpreter ties together the lexer, parser, compiler,
// environment, and vm packages into one running Finch program: it owns
// the Environment, the host, and the ready queue of fibers, and runs
// them to completion with simple round-robin cooperative scheduling.
//
// Grounded on the specification's Interpreter module (the scheduling
// loop described in spec.md's Concurrency and Interpreter sections) and
// on the teacher's top-level VM.Run / compiler.Compile wiring in
// main.go, adapted from the teacher's single linear compile-then-run
// pipeline to a multi-fiber ready queue.
package interpreter

import (
	"fmt"

	"github.com/xbee/finch/environment"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/object"
	"github.com/xbee/finch/parser"
	"github.com/xbee/finch/vm"
)

// Interpreter owns one running Finch program's Environment and the
// ready queue of fibers still runnable. It implements vm.Scheduler so
// that a Fiber's `spawn:` primitive can enqueue new fibers directly.
type Interpreter struct {
	Env  *environment.Environment
	host object.Host

	ready []*vm.Fiber
}

// New creates an Interpreter with a fresh Environment using host for
// write:/write-line:/load:.
func New(host object.Host) *Interpreter {
	return &Interpreter{Env: environment.New(), host: host}
}

// Enqueue implements vm.Scheduler.
func (in *Interpreter) Enqueue(f *vm.Fiber) {
	in.ready = append(in.ready, f)
}

// Run compiles source as a fresh top-level block, runs it to
// completion on its own fiber, and then drains any fibers it spawned.
// It returns the top-level fiber's result, or an error if source fails
// to parse.
func (in *Interpreter) Run(source string) (object.Value, error) {
	block, err := in.compile(source)
	if err != nil {
		return nil, err
	}

	main := vm.New(in.Env, in.host, in, block)
	in.ready = append(in.ready, main)

	var result object.Value
	for len(in.ready) > 0 {
		f := in.ready[0]
		in.ready = in.ready[1:]

		r := f.Execute()
		if !f.IsDone() {
			in.ready = append(in.ready, f)
			continue
		}
		if f == main {
			result = r
		}
	}
	return result, nil
}

// compile lexes and parses source into a top-level Block, sharing this
// Interpreter's Environment tables.
func (in *Interpreter) compile(source string) (*object.Block, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, fmt.Errorf("parse error: %s", errs[0])
	}

	id, err := in.Env.CompileBlock(nil, program.Statements)
	if err != nil {
		return nil, err
	}
	return &object.Block{Code: in.Env.Blocks.Find(id), Closure: object.NewScope(in.Env.Globals), Self: in.Env.Nil}, nil
}

