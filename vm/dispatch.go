package vm

import "github.com/xbee/finch/object"

// Dispatch implements the message send algorithm against f: consult the
// receiver's primitive variant table first, then walk the prototype
// chain checking each DynamicObject's own primitive table and then its
// ObjectScope, constructing a call frame for a bound method or
// returning a bound field directly, and finally reporting an error and
// pushing Nil if the chain is exhausted without a match.
//
// A *vm.Fiber receiver is handled as a special case here, rather than
// in environment.Environment.PrototypeOf, precisely because Fiber is
// defined in this package: environment cannot name it without
// importing vm, which already imports environment.
func Dispatch(f *Fiber, receiver object.Value, selector string, args []object.Value) {
	cur := receiver

	if _, ok := cur.(*Fiber); ok {
		if tryPrimitive(f, f.env.FiberProto, receiver, selector, args) {
			return
		}
		cur = f.env.FiberProto
	} else if _, isDynamic := cur.(*object.DynamicObject); !isDynamic {
		// Step 1: the receiver is a primitive variant (Number, String,
		// Array, or Block) with no ObjectScope of its own — only its
		// class prototype's primitive table applies.
		proto := f.env.PrototypeOf(cur)
		if tryPrimitive(f, proto, receiver, selector, args) {
			return
		}
		cur = proto
	}

	// Step 2 and 3: walk the DynamicObject chain, consulting each
	// level's primitive table and then its ObjectScope before moving to
	// its Proto.
	for cur != nil {
		dyn, ok := cur.(*object.DynamicObject)
		if !ok {
			break
		}

		if tryPrimitive(f, dyn, receiver, selector, args) {
			return
		}

		if v, ok := dyn.Fields.LookUpLocal(selector); ok {
			if method, ok := v.(*object.Block); ok {
				f.Tail(receiver, method, args)
			} else {
				f.pushOperand(v)
			}
			return
		}

		cur = dyn.Proto
	}

	// Step 4: the chain is exhausted.
	f.Error("does not understand " + selector)
	f.pushOperand(f.env.Nil)
}

// tryPrimitive consults proto's primitive table (if proto is a
// DynamicObject with one) for selector, invoking it against receiver
// and reporting whether it handled the send.
func tryPrimitive(f *Fiber, proto object.Value, receiver object.Value, selector string, args []object.Value) bool {
	dyn, ok := proto.(*object.DynamicObject)
	if !ok || dyn.Primitives == nil {
		return false
	}
	fn, ok := dyn.Primitives[selector]
	if !ok {
		return false
	}
	if v, ok := fn(f, receiver, args); ok {
		f.pushOperand(v)
	}
	return true
}
