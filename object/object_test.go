package object

import (
	"testing"

	"github.com/xbee/finch/bytecode"
)

func TestNumberDisplayIntegral(t *testing.T) {
	n := &Number{Value: 3}
	if got := n.Display(); got != "3" {
		t.Errorf("expected %q, got %q", "3", got)
	}
}

func TestNumberDisplayFractional(t *testing.T) {
	n := &Number{Value: 3.5}
	if got := n.Display(); got != "3.5" {
		t.Errorf("expected %q, got %q", "3.5", got)
	}
}

func TestStringDisplayIsRawContent(t *testing.T) {
	s := &String{Value: "hello"}
	if got := s.Display(); got != "hello" {
		t.Errorf("expected %q, got %q", "hello", got)
	}
}

func TestArrayDisplay(t *testing.T) {
	a := &Array{Elements: []Value{&Number{Value: 1}, &String{Value: "x"}}}
	if got := a.Display(); got != "[1, x]" {
		t.Errorf("expected %q, got %q", "[1, x]", got)
	}
}

func TestDynamicObjectDisplay(t *testing.T) {
	proto := NewDynamicObject(nil, "Object")
	copy := NewDynamicObject(proto, "")
	if got := copy.Display(); got != "a Object" {
		t.Errorf("expected %q, got %q", "a Object", got)
	}
	if got := proto.Display(); got != "a Object" {
		t.Errorf("expected %q, got %q", "a Object", got)
	}
}

func TestRegisterPrimitiveAllocatesOnFirstUse(t *testing.T) {
	d := NewDynamicObject(nil, "Number")
	called := false
	d.RegisterPrimitive("abs", func(Caller, Value, []Value) (Value, bool) {
		called = true
		return nil, true
	})

	fn, ok := d.Primitives["abs"]
	if !ok {
		t.Fatal("expected abs to be registered")
	}
	fn(nil, nil, nil)
	if !called {
		t.Fatal("expected the registered primitive to be invoked")
	}
}

func TestBlockParams(t *testing.T) {
	b := &Block{Code: &bytecode.CodeBlock{Params: []string{"x", "y"}}}
	if got := b.Params(); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("expected [x y], got %v", got)
	}
}
