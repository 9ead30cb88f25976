package naslstdlib

import (
	"strings"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// StringModule implements SL's string built-ins. Grounded on the
// teacher's String namespace (internal/compiler/stdlib/registry.go's
// length/upcase/downcase/trim/contains entries and their
// pkg/runtime/stdlib.go implementations), renamed to SL's actual
// built-in names and widened to operate on Value rather than Go
// string so Data values participate the same way String ones do.
func StringModule() Module {
	return Module{Name: "string", Functions: map[string]Executor{
		"strlen":  strlenFn,
		"toupper": toupperFn,
		"tolower": tolowerFn,
		"strstr":  strstrFn,
		"substr":  substrFn,
		"split":   splitFn,
		"string":  concatFn,
		"raw_string": rawStringFn,
	}}
}

func strlenFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("strlen", arg(reg, "s", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Num(int64(len(s))), nil
}

func toupperFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("toupper", arg(reg, "s", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Str(strings.ToUpper(s)), nil
}

func tolowerFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("tolower", arg(reg, "s", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Str(strings.ToLower(s)), nil
}

// strstr returns the remainder of s starting at the first occurrence
// of needle, or "" if needle is absent (SL never returns NULL here).
func strstrFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("strstr", arg(reg, "a", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	needle, err := requireString("strstr", arg(reg, "b", 1))
	if err != nil {
		return naslvalue.Null, err
	}
	i := strings.Index(s, needle)
	if i < 0 {
		return naslvalue.Str(""), nil
	}
	return naslvalue.Str(s[i:]), nil
}

// substr(s, start, [end]) mirrors SL's inclusive-end slicing, clamped
// to the string's bounds rather than erroring on an out-of-range end.
func substrFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("substr", arg(reg, "s", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	start := int(positional(reg, 1).Number)
	end := len(s) - 1
	if v := positional(reg, 2); v.Kind == naslvalue.KindNumber {
		end = int(v.Number)
	}
	if start < 0 {
		start = 0
	}
	if end >= len(s) {
		end = len(s) - 1
	}
	if start > end || start >= len(s) {
		return naslvalue.Str(""), nil
	}
	return naslvalue.Str(s[start : end+1]), nil
}

func splitFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	s, err := requireString("split", arg(reg, "buffer", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	sep := "\n"
	if v, ok := named(reg, "sep"); ok {
		sep, _ = requireString("split", v)
	}
	parts := strings.Split(s, sep)
	keepBlank := true
	if v, ok := named(reg, "keep"); ok {
		keepBlank = v.Truthy()
	}
	out := make([]naslvalue.Value, 0, len(parts))
	for _, p := range parts {
		if p == "" && !keepBlank {
			continue
		}
		out = append(out, naslvalue.Str(p))
	}
	return naslvalue.Arr(out), nil
}

// concatFn implements the `string(...)` built-in: every positional
// argument is stringified and concatenated, the same coercion
// resolveOperator applies to `+` with a string operand.
func concatFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	args := reg.AnonArgs()
	var b strings.Builder
	for _, v := range args.Array {
		b.WriteString(v.String())
	}
	return naslvalue.Str(b.String()), nil
}

// rawStringFn builds a Data value from numeric byte-code arguments,
// the counterpart NASL scripts use to construct binary protocol
// payloads a step at a time.
func rawStringFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	args := reg.AnonArgs()
	buf := make([]byte, 0, len(args.Array))
	for _, v := range args.Array {
		buf = append(buf, byte(v.Number))
	}
	return naslvalue.Data(string(buf)), nil
}
