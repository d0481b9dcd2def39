package primitives

import (
	"strings"

	"github.com/xbee/finch/bytecode"
	"github.com/xbee/finch/object"
)

// valueSelector returns the Smalltalk-style invocation selector for a
// block called with n arguments: "value" for zero, "value:" for one,
// "value:value:" for two, and so on up to bytecode.MaxMessageArity.
func valueSelector(n int) string {
	if n == 0 {
		return "value"
	}
	return strings.Repeat("value:", n)
}

// Blocks returns the primitive table registered on the Block prototype:
// the value/value:/value:value:... family, one entry per arity up to
// bytecode.MaxMessageArity, each a direct tail-call into the block body
// so that a user method ending `block value` or `block value: x` stays
// eligible for the same tail-call folding a direct method send gets.
func Blocks() map[string]object.PrimitiveFunc {
	table := make(map[string]object.PrimitiveFunc, bytecode.MaxMessageArity+1)
	for arity := 0; arity <= bytecode.MaxMessageArity; arity++ {
		selector := valueSelector(arity)
		wantArity := arity
		table[selector] = func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			block := receiver.(*object.Block)
			if len(args) != wantArity {
				return arityMismatch(caller, selector, wantArity, len(args))
			}
			caller.Tail(block.Self, block, args)
			return nil, false
		}
	}
	return table
}
