package primitives

import "github.com/xbee/finch/object"

func isTrue(caller object.Caller, v object.Value) bool {
	return v == caller.True()
}

// Environment returns the primitive table registered on the Environment
// singleton: if:then:, if:then:else:, while:do:, write:, write-line:,
// and load:, exactly the set Environment::Environment registers on
// itself in the original implementation.
func Environment() map[string]object.PrimitiveFunc {
	return map[string]object.PrimitiveFunc{
		"if:then:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 2 {
				return arityMismatch(caller, "if:then:", 2, len(args))
			}
			then, ok := blockArg(args, 1)
			if !ok {
				return typeMismatch(caller, receiver, "if:then:", "Block")
			}
			if !isTrue(caller, args[0]) {
				return caller.Nil(), true
			}
			caller.Tail(then.Self, then, nil)
			return nil, false
		},
		"if:then:else:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 3 {
				return arityMismatch(caller, "if:then:else:", 3, len(args))
			}
			then, ok := blockArg(args, 1)
			if !ok {
				return typeMismatch(caller, receiver, "if:then:else:", "Block")
			}
			els, ok := blockArg(args, 2)
			if !ok {
				return typeMismatch(caller, receiver, "if:then:else:", "Block")
			}
			branch := els
			if isTrue(caller, args[0]) {
				branch = then
			}
			caller.Tail(branch.Self, branch, nil)
			return nil, false
		},
		"while:do:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 2 {
				return arityMismatch(caller, "while:do:", 2, len(args))
			}
			cond, ok := blockArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "while:do:", "Block")
			}
			body, ok := blockArg(args, 1)
			if !ok {
				return typeMismatch(caller, receiver, "while:do:", "Block")
			}
			for isTrue(caller, caller.Call(cond.Self, cond, nil)) {
				caller.Call(body.Self, body, nil)
			}
			return caller.Nil(), true
		},
		"write:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 1 {
				return arityMismatch(caller, "write:", 1, len(args))
			}
			caller.Host().Output(args[0].Display())
			return receiver, true
		},
		"write-line:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 1 {
				return arityMismatch(caller, "write-line:", 1, len(args))
			}
			caller.Host().Output(args[0].Display() + "\n")
			return receiver, true
		},
		"load:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 1 {
				return arityMismatch(caller, "load:", 1, len(args))
			}
			path, ok := stringArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "load:", "String")
			}
			return caller.Load(path.Value), true
		},
	}
}
