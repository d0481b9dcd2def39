// Package primitives implements every host-registered primitive method
// Finch's Environment attaches to its root prototypes at construction
// time (Object, Block, Number, String, Array, Environment, Fiber). Each
// primitive is an object.PrimitiveFunc: a plain function of the
// receiver and arguments that depends only on package object, never on
// the vm or environment packages, so the table built here can be wired
// in by environment.New without an import cycle.
//
// This mirrors the teacher's object/builtins.go + evaluator/builtins.go
// split — a flat name-to-function table assembled once — generalized
// from Monkey's single global builtin namespace to Finch's
// per-prototype primitive tables (registered the way
// Environment::Environment registers them in the original C++, one
// RegisterPrimitive call per prototype per method name).
package primitives

import (
	"fmt"

	"github.com/xbee/finch/object"
)

func typeMismatch(caller object.Caller, receiver object.Value, selector, wantClass string) (object.Value, bool) {
	caller.Error(fmt.Sprintf("%s %s: argument is not a %s", receiver.ClassName(), selector, wantClass))
	return caller.Nil(), true
}

func arityMismatch(caller object.Caller, selector string, want, got int) (object.Value, bool) {
	caller.Error(fmt.Sprintf("%s: expected %d argument(s), got %d", selector, want, got))
	return caller.Nil(), true
}

func numberArg(caller object.Caller, args []object.Value, i int) (*object.Number, bool) {
	if i >= len(args) || args[i] == nil {
		return nil, false
	}
	n, ok := args[i].(*object.Number)
	return n, ok
}

// Numbers returns the primitive table registered on the Number
// prototype: abs, neg, +, -, *, /, =, !=, <, >, <=, >=.
func Numbers() map[string]object.PrimitiveFunc {
	binary := func(selector string, fn func(a, b float64) float64) object.PrimitiveFunc {
		return func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Number)
			if len(args) != 1 {
				return arityMismatch(caller, selector, 1, len(args))
			}
			other, ok := numberArg(caller, args, 0)
			if !ok {
				return typeMismatch(caller, receiver, selector, "Number")
			}
			return &object.Number{Value: fn(self.Value, other.Value)}, true
		}
	}
	compare := func(selector string, fn func(a, b float64) bool) object.PrimitiveFunc {
		return func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Number)
			if len(args) != 1 {
				return arityMismatch(caller, selector, 1, len(args))
			}
			other, ok := numberArg(caller, args, 0)
			if !ok {
				return typeMismatch(caller, receiver, selector, "Number")
			}
			return caller.Bool(fn(self.Value, other.Value)), true
		}
	}

	return map[string]object.PrimitiveFunc{
		"abs": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Number)
			v := self.Value
			if v < 0 {
				v = -v
			}
			return &object.Number{Value: v}, true
		},
		"neg": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Number)
			return &object.Number{Value: -self.Value}, true
		},
		"+":  binary("+", func(a, b float64) float64 { return a + b }),
		"-":  binary("-", func(a, b float64) float64 { return a - b }),
		"*":  binary("*", func(a, b float64) float64 { return a * b }),
		"/":  binary("/", func(a, b float64) float64 { return a / b }),
		"=":  compare("=", func(a, b float64) bool { return a == b }),
		"!=": compare("!=", func(a, b float64) bool { return a != b }),
		"<":  compare("<", func(a, b float64) bool { return a < b }),
		">":  compare(">", func(a, b float64) bool { return a > b }),
		"<=": compare("<=", func(a, b float64) bool { return a <= b }),
		">=": compare(">=", func(a, b float64) bool { return a >= b }),
	}
}
