package primitives

import "github.com/xbee/finch/object"

func stringArg(args []object.Value, i int) (*object.String, bool) {
	if i >= len(args) || args[i] == nil {
		return nil, false
	}
	s, ok := args[i].(*object.String)
	return s, ok
}

// Strings returns the primitive table registered on the String
// prototype. Supplemented beyond the minimal arithmetic the original
// Environment.cpp registers for Number: `append:` (concatenation),
// `length`, and `=` are the natural String counterparts a complete
// implementation needs, and every String literal would otherwise have
// no way to compare or join with another.
func Strings() map[string]object.PrimitiveFunc {
	return map[string]object.PrimitiveFunc{
		"append:": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.String)
			if len(args) != 1 {
				return arityMismatch(caller, "append:", 1, len(args))
			}
			other, ok := stringArg(args, 0)
			if !ok {
				return typeMismatch(caller, receiver, "append:", "String")
			}
			return &object.String{Value: self.Value + other.Value}, true
		},
		"length": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.String)
			return &object.Number{Value: float64(len([]rune(self.Value)))}, true
		},
		"=": func(caller object.Caller, receiver object.Value, args []object.Value) (object.Value, bool) {
			self := receiver.(*object.String)
			if len(args) != 1 {
				return arityMismatch(caller, "=", 1, len(args))
			}
			other, ok := stringArg(args, 0)
			if !ok {
				return caller.False(), true
			}
			return caller.Bool(self.Value == other.Value), true
		},
	}
}
