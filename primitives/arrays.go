package primitives

import "github.com/xbee/finch/object"

func indexArg(caller object.Caller, receiver object.Value, args []object.Value, i int) (int, bool) {
	n, ok := numberArg(caller, args, i)
	if !ok {
		return 0, false
	}
	return int(n.Value), true
}

func blockArg(args []object.Value, i int) (*object.Block, bool) {
	if i >= len(args) || args[i] == nil {
		return nil, false
	}
	b, ok := args[i].(*object.Block)
	return b, ok
}

// Arrays returns the primitive table registered on the Array prototype.
// Only `length` belongs to the execution core; at:, at:put:, add: and
// each: are supplemented here because an Array with no way to read,
// write, grow, or iterate its elements cannot express the sample
// programs the specification's own scenarios describe.
func Arrays() map[string]object.PrimitiveFunc {
	return map[string]object.PrimitiveFunc{
		"length": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Array)
			return &object.Number{Value: float64(len(self.Elements))}, true
		},
		"at:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Array)
			if len(args) != 1 {
				return arityMismatch(caller, "at:", 1, len(args))
			}
			idx, ok := indexArg(caller, receiver, args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "at:", "Number")
			}
			if idx < 0 || idx >= len(self.Elements) {
				caller.Error("at:: index out of bounds")
				return caller.Nil(), true
			}
			return self.Elements[idx], true
		},
		"at:put:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Array)
			if len(args) != 2 {
				return arityMismatch(caller, "at:put:", 2, len(args))
			}
			idx, ok := indexArg(caller, receiver, args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "at:put:", "Number")
			}
			if idx < 0 || idx >= len(self.Elements) {
				caller.Error("at:put:: index out of bounds")
				return caller.Nil(), true
			}
			self.Elements[idx] = args[1]
			return receiver, true
		},
		"add:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Array)
			if len(args) != 1 {
				return arityMismatch(caller, "add:", 1, len(args))
			}
			self.Elements = append(self.Elements, args[0])
			return receiver, true
		},
		"each:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.Array)
			if len(args) != 1 {
				return arityMismatch(caller, "each:", 1, len(args))
			}
			block, ok := blockArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "each:", "Block")
			}
			for _, elem := range self.Elements {
				caller.Call(block.Self, block, []object.Value{elem})
			}
			return receiver, true
		},
	}
}
