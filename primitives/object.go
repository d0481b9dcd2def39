package primitives

import "github.com/xbee/finch/object"

// Objects returns the primitive table registered on the root Object
// prototype: copy, add-field:value:, add-method:body:. These three are
// exactly the set Environment::Environment registers on Object in the
// original implementation — every other object capability (dispatch,
// prototype delegation) lives in the vm package, not here.
func Objects() map[string]object.PrimitiveFunc {
	return map[string]object.PrimitiveFunc{
		"copy": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			return &object.DynamicObject{Proto: receiver, Fields: object.NewScope(nil)}, true
		},
		"add-field:value:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 2 {
				return arityMismatch(caller, "add-field:value:", 2, len(args))
			}
			name, ok := stringArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "add-field:value:", "String")
			}
			self, ok := receiver.(*object.DynamicObject)
			if !ok {
				caller.Error("add-field:value:: receiver has no field scope")
				return caller.Nil(), true
			}
			self.Fields.Define(name.Value, args[1])
			return receiver, true
		},
		"add-method:body:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			if len(args) != 2 {
				return arityMismatch(caller, "add-method:body:", 2, len(args))
			}
			name, ok := stringArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "add-method:body:", "String")
			}
			body, ok := blockArg(args, 1)
			if !ok {
				return typeMismatch(caller, receiver, "add-method:body:", "Block")
			}
			self, ok := receiver.(*object.DynamicObject)
			if !ok {
				caller.Error("add-method:body:: receiver has no field scope")
				return caller.Nil(), true
			}
			self.Fields.Define(name.Value, body)
			return receiver, true
		},
	}
}
