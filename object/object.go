// Package object defines the runtime value model for Finch: the
// universal Value type and its concrete variants (Number, String,
// Array, DynamicObject, Block), the lexical/object Scope chain shared
// by both, and the small interfaces (Caller, Host, PrimitiveFunc) that
// let host-registered primitives act on a Fiber without this package
// importing the vm or environment packages.
//
// Every Value has at most one prototype parent (resolved outside this
// package: environment.PrototypeOf maps a primitive variant to its class
// prototype, and package vm's dispatch walks the chain), dispatch always terminates because the chain is finite
// and acyclic, and Nil/True/False are referentially unique
// DynamicObject singletons owned by one Environment.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xbee/finch/bytecode"
)

// Value is the universal runtime value. Every concrete type in this
// package, and *vm.Fiber from the vm package, implements it.
type Value interface {
	// ClassName names the value's kind for error messages and the
	// default Display of a DynamicObject ("a Foo").
	ClassName() string

	// Display renders the value the way write:/write-line: show it:
	// strings render as their raw content, not a quoted debug form.
	Display() string
}

// Number is an immutable IEEE-754 double value.
type Number struct {
	Value float64
}

// ClassName implements Value.
func (*Number) ClassName() string { return "Number" }

// Display implements Value. Integral values print without a
// fractional part so that `write-line: 1 + 2` prints "3", not "3.0".
func (n *Number) Display() string {
	if n.Value == float64(int64(n.Value)) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// String is an immutable character sequence.
type String struct {
	Value string
}

// ClassName implements Value.
func (*String) ClassName() string { return "String" }

// Display implements Value.
func (s *String) Display() string { return s.Value }

// Array is an ordered, mutable-length sequence of Values.
type Array struct {
	Elements []Value
}

// ClassName implements Value.
func (*Array) ClassName() string { return "Array" }

// Display implements Value.
func (a *Array) Display() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, e := range a.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Display())
	}
	b.WriteByte(']')
	return b.String()
}

// PrimitiveFunc implements a single host-registered primitive method.
// It reports its result in two ways: if ok is true, value is the
// message send's final result and the caller should push it onto the
// operand stack. If ok is false, the primitive has already asked the
// Caller to invoke a block (via Tail or Call); the eventual result is
// either already on the shared operand stack (Tail: the pushed frame
// will leave it there) or was already returned synchronously (Call),
// and value is ignored.
type PrimitiveFunc func(caller Caller, receiver Value, args []Value) (value Value, ok bool)

// DynamicObject is a prototype-delegated value with its own ObjectScope
// (Fields) and, for root prototypes such as Number or Object, a table
// of host-registered primitive methods consulted before ObjectScope.
type DynamicObject struct {
	// Proto is the prototype parent, or nil only for the root Object
	// prototype.
	Proto Value

	// Fields is this object's own field/method bindings. Fields and
	// methods are the same kind of binding — whichever a dispatch finds
	// bound, a Block value is invoked and anything else is returned
	// directly.
	Fields *Scope

	// Primitives holds host-registered primitive methods for this
	// object when it acts as a class-level prototype (Object, Number,
	// String, Array, Block, Fiber, Environment). nil on ordinary
	// instances created via `copy`.
	Primitives map[string]PrimitiveFunc

	// name labels the prototype for diagnostics and Display; empty for
	// plain copies.
	name string
}

// NewDynamicObject creates a DynamicObject with the given prototype
// parent and an empty field scope.
func NewDynamicObject(proto Value, name string) *DynamicObject {
	return &DynamicObject{Proto: proto, Fields: NewScope(nil), name: name}
}

// ClassName implements Value.
func (d *DynamicObject) ClassName() string {
	if d.name != "" {
		return d.name
	}
	return "Object"
}

// Display implements Value.
func (d *DynamicObject) Display() string {
	return fmt.Sprintf("a %s", d.ClassName())
}

// RegisterPrimitive attaches a host primitive under name, allocating
// the Primitives table on first use.
func (d *DynamicObject) RegisterPrimitive(name string, fn PrimitiveFunc) {
	if d.Primitives == nil {
		d.Primitives = make(map[string]PrimitiveFunc)
	}
	d.Primitives[name] = fn
}

// Block is a first-class closure: a compiled CodeBlock paired with the
// lexical Scope and receiver ("self") captured at the BLOCK_LITERAL
// site that created it.
type Block struct {
	Code    *bytecode.CodeBlock
	Closure *Scope
	Self    Value
}

// Params returns the block's declared parameter names.
func (b *Block) Params() []string { return b.Code.Params }

// ClassName implements Value.
func (*Block) ClassName() string { return "Block" }

// Display implements Value.
func (*Block) Display() string { return "a Block" }

// Caller is the minimal surface a PrimitiveFunc needs from the Fiber
// executing it. Declaring it here (rather than depending on package vm
// directly) is what lets package primitives depend only on package
// object.
type Caller interface {
	// Nil, True, False return this environment's singletons.
	Nil() Value
	True() Value
	False() Value
	// Bool returns True or False for v.
	Bool(v bool) Value

	// Error reports a non-fatal runtime error through the host.
	Error(message string)

	// Tail invokes method with the given self/args by pushing a call
	// frame (applying tail-call folding exactly as a MESSAGE_k send
	// would). It does not return a value: the result will appear on
	// the shared operand stack once the pushed frame ends.
	Tail(self Value, method *Block, args []Value)

	// Call invokes method synchronously: it pushes a frame, single
	// steps the fiber until that frame (and anything it tail-calls)
	// has ended, and returns the resulting value directly. Used only
	// by primitives that must inspect an intermediate result, such as
	// while:do:'s repeated condition evaluation.
	Call(self Value, method *Block, args []Value) Value

	// Yield clears this fiber's running flag, returning control to the
	// scheduler.
	Yield()

	// Spawn creates a new fiber running block, enqueues it on the
	// scheduler, and returns a Value handle to it.
	Spawn(block *Block) Value

	// CurrentFiber returns a Value handle to the fiber executing this
	// primitive, for Fiber's `current` class-side method.
	CurrentFiber() Value

	// Host returns the host callback surface, for write:/write-line:.
	Host() Host

	// Load resolves path through the Host, compiles it as a fresh
	// top-level block, and runs it to completion synchronously (like
	// Call), returning its result. It reports a HostError through Error
	// and returns Nil if path cannot be resolved or fails to compile.
	Load(path string) Value
}

// Host is the external collaborator that displays output, reports
// errors, and loads source files on behalf of the running program.
type Host interface {
	Output(text string)
	Error(message string)
	LoadModule(path string) (source string, found bool)
}
