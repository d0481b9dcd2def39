package environment

import (
	"testing"

	"github.com/xbee/finch/object"
)

func TestNewDefinesEveryRootPrototype(t *testing.T) {
	env := New()

	names := []string{"Object", "Block", "Number", "String", "Array", "Nil", "True", "False", "Environment", "Fiber"}
	for _, name := range names {
		if _, ok := env.Globals.LookUp(name); !ok {
			t.Errorf("expected %q to be defined in Globals", name)
		}
	}
}

func TestEveryNonObjectPrototypeChainsToObject(t *testing.T) {
	env := New()

	protos := map[string]*object.DynamicObject{
		"Block":       env.BlockProto,
		"Number":      env.NumberProto,
		"String":      env.StringProto,
		"Array":       env.ArrayProto,
		"Nil":         env.Nil,
		"True":        env.True,
		"False":       env.False,
		"Environment": env.EnvironmentProto,
		"Fiber":       env.FiberProto,
	}
	for name, proto := range protos {
		if proto.Proto != env.ObjectProto {
			t.Errorf("expected %s's Proto to be ObjectProto", name)
		}
	}
	if env.ObjectProto.Proto != nil {
		t.Error("expected ObjectProto's Proto to be nil, it is the root")
	}
}

func TestNumberPrototypeHasArithmeticPrimitives(t *testing.T) {
	env := New()
	for _, selector := range []string{"+", "-", "*", "/", "=", "!=", "<", ">", "<=", ">=", "abs", "neg"} {
		if _, ok := env.NumberProto.Primitives[selector]; !ok {
			t.Errorf("expected Number to understand %q", selector)
		}
	}
}

func TestObjectPrototypeHasCopyAndFieldPrimitives(t *testing.T) {
	env := New()
	for _, selector := range []string{"copy", "add-field:value:", "add-method:body:"} {
		if _, ok := env.ObjectProto.Primitives[selector]; !ok {
			t.Errorf("expected Object to understand %q", selector)
		}
	}
}

func TestEnvironmentPrototypeHasControlFlowPrimitives(t *testing.T) {
	env := New()
	for _, selector := range []string{"if:then:", "if:then:else:", "while:do:", "write:", "write-line:", "load:"} {
		if _, ok := env.EnvironmentProto.Primitives[selector]; !ok {
			t.Errorf("expected Environment to understand %q", selector)
		}
	}
}

func TestPrototypeOfMapsPrimitiveVariants(t *testing.T) {
	env := New()

	cases := []struct {
		value object.Value
		want  object.Value
	}{
		{&object.Number{Value: 1}, env.NumberProto},
		{&object.String{Value: "x"}, env.StringProto},
		{&object.Array{}, env.ArrayProto},
		{&object.Block{}, env.BlockProto},
	}
	for _, c := range cases {
		if got := env.PrototypeOf(c.value); got != c.want {
			t.Errorf("PrototypeOf(%T) = %v, want %v", c.value, got, c.want)
		}
	}
}

func TestPrototypeOfReturnsNilForDynamicObject(t *testing.T) {
	env := New()
	if got := env.PrototypeOf(env.Nil); got != nil {
		t.Errorf("expected nil for a DynamicObject receiver, got %v", got)
	}
}

func TestCompileBlockPublishesToSharedBlockTable(t *testing.T) {
	env := New()
	id, err := env.CompileBlock(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.Blocks.Find(id) == nil {
		t.Fatal("expected the compiled block to be retrievable from the shared BlockTable")
	}
}
