// Package environment assembles one Finch program's global state: the
// global Scope, the StringTable and BlockTable shared by every fiber,
// and the root prototype objects (Object, Block, Number, String, Array,
// Nil, True, False, Environment, Fiber) with their host primitives
// registered.
//
// Grounded on Environment::Environment in the original implementation,
// which builds exactly this set of prototypes in exactly this order
// (Object, Block, Number, String, Nil, True, False, Environment); Array
// and Fiber are supplemented here because the specification's data
// model and concurrency model name them as first-class citizens the
// original's single-file constructor predates.
package environment

import (
	"github.com/xbee/finch/ast"
	"github.com/xbee/finch/bytecode"
	"github.com/xbee/finch/compiler"
	"github.com/xbee/finch/object"
	"github.com/xbee/finch/primitives"
)

// Environment owns every piece of state one running Finch program
// shares across all of its fibers.
type Environment struct {
	Globals *object.Scope

	Strings *bytecode.StringTable
	Blocks  *bytecode.BlockTable

	ObjectProto      *object.DynamicObject
	BlockProto       *object.DynamicObject
	NumberProto      *object.DynamicObject
	StringProto      *object.DynamicObject
	ArrayProto       *object.DynamicObject
	EnvironmentProto *object.DynamicObject
	FiberProto       *object.DynamicObject

	Nil   *object.DynamicObject
	True  *object.DynamicObject
	False *object.DynamicObject
}

// New builds a fresh Environment with every root prototype defined in
// the global scope and every primitive method registered on it, ready
// to compile and run fiber top-level code against.
func New() *Environment {
	env := &Environment{
		Globals: object.NewScope(nil),
		Strings: bytecode.NewStringTable(),
		Blocks:  bytecode.NewBlockTable(),
	}

	env.ObjectProto = object.NewDynamicObject(nil, "Object")
	env.Globals.Define("Object", env.ObjectProto)
	for name, fn := range primitives.Objects() {
		env.ObjectProto.RegisterPrimitive(name, fn)
	}

	env.BlockProto = object.NewDynamicObject(env.ObjectProto, "Block")
	env.Globals.Define("Block", env.BlockProto)
	for name, fn := range primitives.Blocks() {
		env.BlockProto.RegisterPrimitive(name, fn)
	}

	env.NumberProto = object.NewDynamicObject(env.ObjectProto, "Number")
	env.Globals.Define("Number", env.NumberProto)
	for name, fn := range primitives.Numbers() {
		env.NumberProto.RegisterPrimitive(name, fn)
	}

	env.StringProto = object.NewDynamicObject(env.ObjectProto, "String")
	env.Globals.Define("String", env.StringProto)
	for name, fn := range primitives.Strings() {
		env.StringProto.RegisterPrimitive(name, fn)
	}

	env.ArrayProto = object.NewDynamicObject(env.ObjectProto, "Array")
	env.Globals.Define("Array", env.ArrayProto)
	for name, fn := range primitives.Arrays() {
		env.ArrayProto.RegisterPrimitive(name, fn)
	}

	env.Nil = object.NewDynamicObject(env.ObjectProto, "Nil")
	env.Globals.Define("Nil", env.Nil)

	env.True = object.NewDynamicObject(env.ObjectProto, "True")
	env.Globals.Define("True", env.True)

	env.False = object.NewDynamicObject(env.ObjectProto, "False")
	env.Globals.Define("False", env.False)

	env.EnvironmentProto = object.NewDynamicObject(env.ObjectProto, "Environment")
	env.Globals.Define("Environment", env.EnvironmentProto)
	for name, fn := range primitives.Environment() {
		env.EnvironmentProto.RegisterPrimitive(name, fn)
	}

	env.FiberProto = object.NewDynamicObject(env.ObjectProto, "Fiber")
	env.Globals.Define("Fiber", env.FiberProto)
	for name, fn := range primitives.Fibers() {
		env.FiberProto.RegisterPrimitive(name, fn)
	}

	return env
}

// PrototypeOf maps a primitive Value variant to its class prototype, or
// nil for a DynamicObject (whose own Proto field already names its
// prototype) or an unrecognized Value. The vm package's dispatch loop
// uses this as the first step up the prototype chain for Number,
// String, Array, and Block receivers.
func (env *Environment) PrototypeOf(v object.Value) object.Value {
	switch v.(type) {
	case *object.Number:
		return env.NumberProto
	case *object.String:
		return env.StringProto
	case *object.Array:
		return env.ArrayProto
	case *object.Block:
		return env.BlockProto
	default:
		return nil
	}
}

// CompileBlock compiles a top-level statement sequence into a
// CodeBlock and publishes it into the shared BlockTable, returning its
// id. This orchestration method — rather than a bare BlockTable method
// — is what lets bytecode.BlockTable stay ignorant of the compiler
// package: only environment imports both.
func (env *Environment) CompileBlock(params []string, body []ast.Node) (int, error) {
	code, err := compiler.Compile(params, body, env.Strings, env.Blocks)
	if err != nil {
		return 0, err
	}
	return env.Blocks.Add(code), nil
}
