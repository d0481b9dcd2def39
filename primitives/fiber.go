package primitives

import "github.com/xbee/finch/object"

// Fibers returns the primitive table registered on the Fiber prototype:
// spawn:, current, and yield, the cooperative-scheduling surface the
// specification's concurrency model requires (a fiber starts another
// fiber, asks which fiber it is, and voluntarily suspends itself).
func Fibers() map[string]object.PrimitiveFunc {
	return map[string]object.PrimitiveFunc{
		"spawn:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 1 {
				return arityMismatch(caller, "spawn:", 1, len(args))
			}
			block, ok := blockArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "spawn:", "Block")
			}
			return caller.Spawn(block), true
		},
		"current": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			return caller.CurrentFiber(), true
		},
		"yield": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			caller.Yield()
			return caller.Nil(), true
		},
	}
}
