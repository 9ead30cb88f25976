package naslstdlib

import (
	"testing"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

func registerWithAnonArgs(args ...naslvalue.Value) *naslregister.Register {
	return naslregister.RootInitial(map[string]naslvalue.Value{
		naslregister.AnonArgsKey: naslvalue.Arr(args),
	})
}

func TestStrlen(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("hello"))
	v, err := strlenFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 5 {
		t.Errorf("strlen(\"hello\") = %d, want 5", v.Number)
	}
}

func TestToUpperToLower(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("MiXeD"))
	up, err := toupperFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if up.Str != "MIXED" {
		t.Errorf("toupper = %q", up.Str)
	}

	down, err := tolowerFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if down.Str != "mixed" {
		t.Errorf("tolower = %q", down.Str)
	}
}

func TestStrstr_FoundAndNotFound(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("hello world"), naslvalue.Str("world"))
	v, err := strstrFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "world" {
		t.Errorf("strstr found = %q, want %q", v.Str, "world")
	}

	reg2 := registerWithAnonArgs(naslvalue.Str("hello"), naslvalue.Str("xyz"))
	v2, err := strstrFn(reg2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v2.Str != "" {
		t.Errorf("strstr not found = %q, want empty", v2.Str)
	}
}

func TestSubstr_ClampsOutOfRangeEnd(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("abcdef"), naslvalue.Num(2), naslvalue.Num(100))
	v, err := substrFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "cdef" {
		t.Errorf("substr = %q, want %q", v.Str, "cdef")
	}
}

func TestSubstr_StartPastEndReturnsEmpty(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("abc"), naslvalue.Num(10))
	v, err := substrFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "" {
		t.Errorf("substr = %q, want empty", v.Str)
	}
}

func TestConcatFn(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("a"), naslvalue.Num(1), naslvalue.Str("b"))
	v, err := concatFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "a1b" {
		t.Errorf("string(...) = %q, want %q", v.Str, "a1b")
	}
}

func TestRawStringFn(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Num(0x41), naslvalue.Num(0x42))
	v, err := rawStringFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindData || v.Str != "AB" {
		t.Errorf("raw_string(...) = %+v, want Data(\"AB\")", v)
	}
}
