// Package vm implements the Finch bytecode virtual machine: the Fiber
// execution loop, call-frame management with tail-call folding, and
// message dispatch over the prototype chain. Grounded on the original
// Fiber::Execute/CallMethod/CallBlock (see original_source's
// Interpreter/Fiber.cpp) and, for doc style, on the teacher's VM.Run
// switch-per-opcode loop.
package vm

import (
	"fmt"

	"github.com/xbee/finch/bytecode"
	"github.com/xbee/finch/environment"
	"github.com/xbee/finch/lexer"
	"github.com/xbee/finch/object"
	"github.com/xbee/finch/parser"
)

// Scheduler is the minimal surface Fiber needs from whatever owns the
// ready queue. Declaring it here — rather than importing package
// interpreter directly — is what lets vm.Fiber.Spawn enqueue new work
// without vm depending on interpreter (interpreter already depends on
// vm the other way).
type Scheduler interface {
	Enqueue(f *Fiber)
}

// CallFrame is one activation on a Fiber's call stack: the CodeBlock
// being run, the address of the next instruction to fetch, and the
// Scope bindings execute against.
type CallFrame struct {
	Code    *bytecode.CodeBlock
	Address int
	Scope   *object.Scope
}

// Fiber is one cooperative execution context: an operand stack, a
// call-frame stack, and a parallel receiver ("self") stack, one entry
// per call frame.
type Fiber struct {
	env       *environment.Environment
	host      object.Host
	scheduler Scheduler

	operands  []object.Value
	frames    []CallFrame
	receivers []object.Value

	running bool
}

// New creates a Fiber that will run block when Execute is first
// called. Its initial receiver is Nil, matching a fiber started
// outside of any method.
func New(env *environment.Environment, host object.Host, scheduler Scheduler, block *object.Block) *Fiber {
	f := &Fiber{env: env, host: host, scheduler: scheduler}
	f.frames = append(f.frames, CallFrame{Code: block.Code, Address: 0, Scope: block.Closure})
	f.receivers = append(f.receivers, env.Nil)
	return f
}

// ClassName implements object.Value: a Fiber is itself a first-class
// value, handed back to scripts by `current` and `spawn:`.
func (*Fiber) ClassName() string { return "Fiber" }

// Display implements object.Value.
func (*Fiber) Display() string { return "a Fiber" }

// IsDone reports whether the fiber's call stack has fully drained.
func (f *Fiber) IsDone() bool { return len(f.frames) == 0 }

// Execute runs the fiber until its call stack drains or it yields. It
// returns the fiber's final result if the stack drained, or nil if it
// yielded with more work left to do.
//
// An InvalidOpcode or an operand-stack underflow is the one class of
// fatal error a fiber can suffer (spec.md §7); recover here reports it
// through the host and forcibly drains this fiber's frames so the
// scheduler sees it as done and drops it from the ready queue, rather
// than letting the panic unwind across fibers and crash the process.
func (f *Fiber) Execute() (result object.Value) {
	defer func() {
		if r := recover(); r != nil {
			f.Error(fmt.Sprintf("fatal: %v", r))
			f.frames = nil
			f.operands = nil
			f.receivers = nil
			result = nil
		}
	}()

	f.running = true
	for f.running && len(f.frames) > 0 {
		f.step()
	}
	if f.IsDone() {
		return f.popOperand()
	}
	return nil
}

func (f *Fiber) pushOperand(v object.Value) {
	f.operands = append(f.operands, v)
}

func (f *Fiber) popOperand() object.Value {
	n := len(f.operands)
	if n == 0 {
		panic("operand stack underflow")
	}
	v := f.operands[n-1]
	f.operands = f.operands[:n-1]
	return v
}

func (f *Fiber) peekOperand() object.Value {
	if len(f.operands) == 0 {
		panic("operand stack underflow")
	}
	return f.operands[len(f.operands)-1]
}

func (f *Fiber) currentScope() *object.Scope {
	return f.frames[len(f.frames)-1].Scope
}

// selfObject returns the current frame's receiver as a DynamicObject
// with a field scope to operate on, or false if self has none. The Nil
// singleton is itself a *object.DynamicObject (so it would otherwise
// pass a bare type-assertion) but is excluded here deliberately: DEF_
// OBJECT/LOAD_OBJECT/UNDEF_OBJECT against self == Nil is documented as
// an error, not a silent write into the shared Nil object's fields.
func (f *Fiber) selfObject() (*object.DynamicObject, bool) {
	if f.Self() == f.env.Nil {
		return nil, false
	}
	dyn, ok := f.Self().(*object.DynamicObject)
	return dyn, ok
}

func (f *Fiber) step() {
	frame := &f.frames[len(f.frames)-1]
	inst := frame.Code.Code[frame.Address]
	frame.Address++

	switch {
	case inst.Op == bytecode.OpNothing:

	case inst.Op == bytecode.OpNumberLiteral:
		f.pushOperand(&object.Number{Value: inst.Number})

	case inst.Op == bytecode.OpStringLiteral:
		f.pushOperand(&object.String{Value: f.env.Strings.Find(int(inst.ID))})

	case inst.Op == bytecode.OpBlockLiteral:
		code := f.env.Blocks.Find(int(inst.ID))
		f.pushOperand(&object.Block{Code: code, Closure: frame.Scope, Self: f.Self()})

	case inst.Op == bytecode.OpCreateArray:
		n := int(inst.ID)
		elements := make([]object.Value, n)
		for i := n - 1; i >= 0; i-- {
			elements[i] = f.popOperand()
		}
		f.pushOperand(&object.Array{Elements: elements})

	case inst.Op == bytecode.OpPop:
		f.popOperand()

	case inst.Op == bytecode.OpDup:
		f.pushOperand(f.peekOperand())

	case inst.Op == bytecode.OpDefGlobal:
		f.env.Globals.Define(f.env.Strings.Find(int(inst.ID)), f.peekOperand())

	case inst.Op == bytecode.OpDefObject:
		name := f.env.Strings.Find(int(inst.ID))
		if dyn, ok := f.selfObject(); ok {
			dyn.Fields.Define(name, f.peekOperand())
		} else {
			f.Error(fmt.Sprintf("cannot define field %q: self has no field scope", name))
		}

	case inst.Op == bytecode.OpDefLocal:
		f.currentScope().Define(f.env.Strings.Find(int(inst.ID)), f.peekOperand())

	case inst.Op == bytecode.OpUndefGlobal:
		f.env.Globals.Undefine(f.env.Strings.Find(int(inst.ID)))
		f.pushOperand(f.env.Nil)

	case inst.Op == bytecode.OpUndefObject:
		name := f.env.Strings.Find(int(inst.ID))
		if dyn, ok := f.selfObject(); ok {
			dyn.Fields.Undefine(name)
		} else {
			f.Error(fmt.Sprintf("cannot undefine field %q: self has no field scope", name))
		}
		f.pushOperand(f.env.Nil)

	case inst.Op == bytecode.OpUndefLocal:
		f.currentScope().Undefine(f.env.Strings.Find(int(inst.ID)))
		f.pushOperand(f.env.Nil)

	case inst.Op == bytecode.OpSetLocal:
		name := f.env.Strings.Find(int(inst.ID))
		if !f.currentScope().Set(name, f.peekOperand()) {
			f.Error(fmt.Sprintf("undefined name %q", name))
		}

	case inst.Op == bytecode.OpLoadGlobal:
		v, ok := f.env.Globals.LookUp(f.env.Strings.Find(int(inst.ID)))
		if !ok {
			v = f.env.Nil
		}
		f.pushOperand(v)

	case inst.Op == bytecode.OpLoadObject:
		name := f.env.Strings.Find(int(inst.ID))
		var v object.Value = f.env.Nil
		dyn, ok := f.selfObject()
		if !ok {
			f.Error(fmt.Sprintf("cannot read field %q: self has no field scope", name))
		} else if found, ok := dyn.Fields.LookUpLocal(name); ok {
			v = found
		}
		f.pushOperand(v)

	case inst.Op == bytecode.OpLoadLocal:
		v, ok := f.currentScope().LookUp(f.env.Strings.Find(int(inst.ID)))
		if !ok {
			v = f.env.Nil
		}
		f.pushOperand(v)

	case inst.Op == bytecode.OpLoadSelf:
		f.pushOperand(f.Self())

	case inst.Op.IsMessage():
		n := inst.Op.Arity()
		args := make([]object.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = f.popOperand()
		}
		receiver := f.popOperand()
		selector := f.env.Strings.Find(int(inst.ID))
		Dispatch(f, receiver, selector, args)

	case inst.Op == bytecode.OpEndBlock:
		f.frames = f.frames[:len(f.frames)-1]
		f.receivers = f.receivers[:len(f.receivers)-1]

	default:
		panic(fmt.Sprintf("vm: unknown opcode %s", inst.Op))
	}
}

// Self returns the current frame's receiver.
func (f *Fiber) Self() object.Value {
	return f.receivers[len(f.receivers)-1]
}

func (f *Fiber) pushFrame(self object.Value, method *object.Block, args []object.Value) {
	scope := object.NewScope(method.Closure)
	params := method.Params()
	for i, p := range params {
		if i < len(args) {
			scope.Define(p, args[i])
		} else {
			scope.Define(p, f.env.Nil)
		}
	}
	f.frames = append(f.frames, CallFrame{Code: method.Code, Address: 0, Scope: scope})
	f.receivers = append(f.receivers, self)
}

// Tail implements object.Caller: it folds the current frame away first
// if it is one instruction away from OP_END_BLOCK, then pushes the new
// frame, so a message send in tail position runs in constant call-stack
// depth no matter how deep the recursion.
func (f *Fiber) Tail(self object.Value, method *object.Block, args []object.Value) {
	if n := len(f.frames); n > 0 {
		top := f.frames[n-1]
		if top.Address < len(top.Code.Code) && top.Code.Code[top.Address].Op == bytecode.OpEndBlock {
			f.frames = f.frames[:n-1]
			f.receivers = f.receivers[:len(f.receivers)-1]
		}
	}
	f.pushFrame(self, method, args)
}

// Call implements object.Caller: it pushes a frame without folding the
// caller away, then single-steps until that frame (and anything it
// tail-calls) has fully unwound, returning the resulting value
// synchronously. Used only where a primitive must inspect an
// intermediate result, such as while:do:'s repeated condition check —
// its own bounded recursion never threatens the tail-call depth
// guarantee because it never accumulates across loop iterations.
func (f *Fiber) Call(self object.Value, method *object.Block, args []object.Value) object.Value {
	depth := len(f.frames)
	f.pushFrame(self, method, args)
	for len(f.frames) > depth {
		f.step()
	}
	return f.popOperand()
}

// Nil, True, False, Bool implement object.Caller.
func (f *Fiber) Nil() object.Value        { return f.env.Nil }
func (f *Fiber) True() object.Value       { return f.env.True }
func (f *Fiber) False() object.Value      { return f.env.False }
func (f *Fiber) Bool(v bool) object.Value {
	if v {
		return f.env.True
	}
	return f.env.False
}

// Error implements object.Caller by forwarding to the host.
func (f *Fiber) Error(message string) {
	f.host.Error(message)
}

// Yield implements object.Caller: it clears the running flag, which
// unwinds Execute's loop back to whatever scheduler called it.
func (f *Fiber) Yield() {
	f.running = false
}

// Spawn implements object.Caller: it creates a fiber sharing this
// fiber's Environment and host, enqueues it on the shared scheduler,
// and returns it as a Value handle.
func (f *Fiber) Spawn(block *object.Block) object.Value {
	child := New(f.env, f.host, f.scheduler, block)
	f.scheduler.Enqueue(child)
	return child
}

// CurrentFiber implements object.Caller.
func (f *Fiber) CurrentFiber() object.Value { return f }

// Host implements object.Caller.
func (f *Fiber) Host() object.Host { return f.host }

// Load implements object.Caller: it resolves path through the host,
// compiles the returned source as a fresh top-level block sharing this
// fiber's Environment tables, and runs it synchronously to completion
// exactly as Call does, returning Nil and reporting an error if path
// cannot be resolved or fails to compile.
func (f *Fiber) Load(path string) object.Value {
	source, found := f.host.LoadModule(path)
	if !found {
		f.Error(fmt.Sprintf("cannot load %q: not found", path))
		return f.env.Nil
	}

	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		f.Error(fmt.Sprintf("cannot load %q: %s", path, errs[0]))
		return f.env.Nil
	}

	id, err := f.env.CompileBlock(nil, program.Statements)
	if err != nil {
		f.Error(fmt.Sprintf("cannot load %q: %s", path, err))
		return f.env.Nil
	}

	block := &object.Block{Code: f.env.Blocks.Find(id), Closure: object.NewScope(f.env.Globals), Self: f.env.Nil}
	return f.Call(f.env.Nil, block, nil)
}
