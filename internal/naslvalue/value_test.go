package naslvalue

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null, false},
		{"true bool", Bool(true), true},
		{"false bool", Bool(false), false},
		{"zero number", Num(0), false},
		{"nonzero number", Num(-1), true},
		{"empty string", Str(""), false},
		{"zero string", Str("0"), false},
		{"nonempty string", Str("0x"), true},
		{"empty array", Arr(nil), false},
		{"nonempty array", Arr([]Value{Num(1)}), true},
		{"empty dict", DictOf(map[string]Value{}), false},
		{"nonempty dict", DictOf(map[string]Value{"a": Num(1)}), true},
		{"exit code zero", ExitWith(0), false},
		{"exit code nonzero", ExitWith(1), true},
		{"fork is always truthy", Fork([]Value{Num(0)}), true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.v.Truthy(); got != c.want {
				t.Errorf("Truthy() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null, "undef"},
		{Arr(nil), "array"},
		{DictOf(nil), "array"},
		{Data("x"), "data"},
		{Str("x"), "string"},
		{Num(1), "int"},
		{Bool(true), "int"},
	}

	for _, c := range cases {
		if got := c.v.TypeName(); got != c.want {
			t.Errorf("TypeName(%v) = %s, want %s", c.v, got, c.want)
		}
	}
}

func TestStringRendering(t *testing.T) {
	if got := ReturnWith(Num(5)).String(); got != "return(5)" {
		t.Errorf("ReturnWith(Num(5)).String() = %q", got)
	}
	if got := ExitWith(2).String(); got != "exit(2)" {
		t.Errorf("ExitWith(2).String() = %q", got)
	}
	if got := Fork([]Value{Num(1), Num(2)}).String(); got != "fork(2)" {
		t.Errorf("Fork(...).String() = %q", got)
	}
}
