package naslstdlib

import (
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// KBModule implements SL's knowledge-base built-ins against the
// Storage collaborator (spec §6). get_kb_item is the one place the
// standard library itself produces a Fork value: multiple values
// stored under the same name are handed to the caller one at a time
// across cooperative-fork siblings (spec §5), matching the legacy
// scanner's "multivalued KB item" semantics.
func KBModule() Module {
	return Module{Name: "kb", Functions: map[string]Executor{
		"set_kb_item":     setKBItem,
		"replace_kb_item": replaceKBItem,
		"get_kb_item":     getKBItem,
		"get_kb_list":     getKBList,
	}}
}

func setKBItem(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	name, value, err := kbField(reg)
	if err != nil {
		return naslvalue.Null, err
	}
	if err := ctx.Storage.Dispatch(ctx.Key, naslregister.Field{Name: name, Value: value}); err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Null, nil
}

func replaceKBItem(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	name, value, err := kbField(reg)
	if err != nil {
		return naslvalue.Null, err
	}
	if err := ctx.Storage.DispatchReplace(ctx.Key, naslregister.Field{Name: name, Value: value}); err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Null, nil
}

func getKBItem(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	name, err := requireString("get_kb_item", arg(reg, "name", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	fields, err := ctx.Storage.Retrieve(ctx.Key, naslregister.Retrieve{Kind: naslregister.RetrieveKB, Name: name})
	if err != nil {
		return naslvalue.Null, err
	}
	switch len(fields) {
	case 0:
		return naslvalue.Null, nil
	case 1:
		return fields[0].Value, nil
	default:
		vs := make([]naslvalue.Value, len(fields))
		for i, f := range fields {
			vs[i] = f.Value
		}
		return naslvalue.Fork(vs), nil
	}
}

func getKBList(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	name, err := requireString("get_kb_list", arg(reg, "name", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	fields, err := ctx.Storage.Retrieve(ctx.Key, naslregister.Retrieve{Kind: naslregister.RetrieveKB, Name: name})
	if err != nil {
		return naslvalue.Null, err
	}
	vs := make([]naslvalue.Value, len(fields))
	for i, f := range fields {
		vs[i] = f.Value
	}
	return naslvalue.Arr(vs), nil
}

func kbField(reg *naslregister.Register) (string, naslvalue.Value, error) {
	name, err := requireString("set_kb_item", arg(reg, "name", 0))
	if err != nil {
		return "", naslvalue.Null, err
	}
	value := arg(reg, "value", 1)
	if value.Kind == naslvalue.KindNull {
		return "", naslvalue.Null, &naslerr.FunctionError{Name: "set_kb_item", Kind: naslerr.MissingPositionalArguments, Message: "expected a value argument"}
	}
	return name, value, nil
}
