package naslstdlib

import (
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// positional returns the i'th positional argument, or Null if too few
// were given — SL scripts routinely call built-ins with optional
// trailing arguments.
func positional(reg *naslregister.Register, i int) naslvalue.Value {
	args := reg.AnonArgs()
	if i < 0 || i >= len(args.Array) {
		return naslvalue.Null
	}
	return args.Array[i]
}

// named looks up a named argument (the `key:value` call form).
func named(reg *naslregister.Register, key string) (naslvalue.Value, bool) {
	ct, ok := reg.Lookup(key)
	if !ok || ct.Kind != naslregister.ContextValue {
		return naslvalue.Null, false
	}
	return ct.Value, true
}

// arg resolves an argument that may be passed positionally or by
// name, positional taking precedence — the convention most NASL
// built-ins follow for their first argument.
func arg(reg *naslregister.Register, key string, positionalIndex int) naslvalue.Value {
	if v := positional(reg, positionalIndex); v.Kind != naslvalue.KindNull {
		return v
	}
	if v, ok := named(reg, key); ok {
		return v
	}
	return naslvalue.Null
}

func requireString(name string, v naslvalue.Value) (string, error) {
	switch v.Kind {
	case naslvalue.KindString, naslvalue.KindData:
		return v.Str, nil
	case naslvalue.KindNull:
		return "", &naslerr.FunctionError{Name: name, Kind: naslerr.MissingPositionalArguments, Message: "expected a string argument"}
	default:
		return v.String(), nil
	}
}
