package naslregister

import (
	"testing"

	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

func TestLookup_InnermostFrameWins(t *testing.T) {
	r := RootInitial(map[string]naslvalue.Value{"x": naslvalue.Num(1)})
	r.CreateChild(map[string]ContextType{"x": Val(naslvalue.Num(2))})

	ct, ok := r.Lookup("x")
	if !ok || ct.Value.Number != 2 {
		t.Fatalf("expected innermost binding 2, got %+v, ok=%v", ct, ok)
	}

	r.DropLast()
	ct, ok = r.Lookup("x")
	if !ok || ct.Value.Number != 1 {
		t.Fatalf("expected root binding 1 after DropLast, got %+v, ok=%v", ct, ok)
	}
}

func TestDropLast_NeverPopsRoot(t *testing.T) {
	r := RootInitial(nil)
	r.DropLast()
	if r.Depth() != 1 {
		t.Fatalf("expected depth 1 after DropLast on root-only register, got %d", r.Depth())
	}
}

func TestInsertGlobal_VisibleFromChildFrame(t *testing.T) {
	r := RootInitial(nil)
	r.CreateChild(nil)
	r.InsertGlobal("g", Val(naslvalue.Num(42)))

	ct, ok := r.Lookup("g")
	if !ok || ct.Value.Number != 42 {
		t.Fatalf("expected global binding visible from child frame, got %+v, ok=%v", ct, ok)
	}

	r.DropLast()
	ct, ok = r.Lookup("g")
	if !ok || ct.Value.Number != 42 {
		t.Fatalf("expected global binding to survive DropLast, got %+v, ok=%v", ct, ok)
	}
}

func TestCallFrame_SharesGlobalsNotLocals(t *testing.T) {
	r := RootInitial(map[string]naslvalue.Value{"g": naslvalue.Num(1)})
	r.CreateChild(map[string]ContextType{"caller_local": Val(naslvalue.Num(99))})

	call := r.CallFrame(map[string]ContextType{"p": Val(naslvalue.Num(7))})

	if ct, ok := call.Lookup("g"); !ok || ct.Value.Number != 1 {
		t.Fatalf("expected call frame to see globals, got %+v, ok=%v", ct, ok)
	}
	if _, ok := call.Lookup("caller_local"); ok {
		t.Fatal("call frame must not see caller's local bindings")
	}
	if ct, ok := call.Lookup("p"); !ok || ct.Value.Number != 7 {
		t.Fatalf("expected call frame's own parameter binding, got %+v, ok=%v", ct, ok)
	}
}

func TestClone_DivergesIndependently(t *testing.T) {
	r := RootInitial(map[string]naslvalue.Value{"x": naslvalue.Num(1)})
	clone := r.Clone()

	clone.Insert("x", Val(naslvalue.Num(2)))

	orig, _ := r.Lookup("x")
	cloned, _ := clone.Lookup("x")
	if orig.Value.Number != 1 {
		t.Fatalf("mutating clone must not affect original, got %d", orig.Value.Number)
	}
	if cloned.Value.Number != 2 {
		t.Fatalf("expected clone's own mutation to stick, got %d", cloned.Value.Number)
	}
}

func TestClone_ArrayBindingDivergesIndependently(t *testing.T) {
	r := RootInitial(map[string]naslvalue.Value{
		"a": naslvalue.Arr([]naslvalue.Value{naslvalue.Num(1), naslvalue.Num(2)}),
	})
	clone := r.Clone()

	cloned, _ := clone.Lookup("a")
	cloned.Value.Array[0] = naslvalue.Num(99)

	orig, _ := r.Lookup("a")
	if orig.Value.Array[0].Number != 1 {
		t.Fatalf("mutating clone's array in place must not affect original, got %+v", orig.Value.Array)
	}
}

func TestClone_DictBindingDivergesIndependently(t *testing.T) {
	r := RootInitial(map[string]naslvalue.Value{
		"d": naslvalue.DictOf(map[string]naslvalue.Value{"k": naslvalue.Num(1)}),
	})
	clone := r.Clone()

	cloned, _ := clone.Lookup("d")
	cloned.Value.Dict["k"] = naslvalue.Num(99)

	orig, _ := r.Lookup("d")
	if orig.Value.Dict["k"].Number != 1 {
		t.Fatalf("mutating clone's dict in place must not affect original, got %+v", orig.Value.Dict)
	}
}

func TestAnonArgs_DefaultsToEmptyArray(t *testing.T) {
	r := RootInitial(nil)
	v := r.AnonArgs()
	if v.Kind != naslvalue.KindArray || len(v.Array) != 0 {
		t.Fatalf("expected empty array, got %+v", v)
	}
}
