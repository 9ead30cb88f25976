package naslstdlib

import (
	"fmt"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// MiscModule implements the NVT description built-ins (script_oid,
// script_name, script_tag, ...) plus a handful of general-purpose
// functions (typeof, display) every plugin relies on. The description
// built-ins all funnel into Storage.CacheNVTField (spec §6): the feed
// updater runs the description block of every plugin once up front
// and reads the cached fields back out, rather than parsing comments.
func MiscModule() Module {
	return Module{Name: "misc", Functions: map[string]Executor{
		"script_oid":               scriptField("oid"),
		"script_name":              scriptField("name"),
		"script_version":           scriptField("version"),
		"script_copyright":         scriptField("copyright"),
		"script_family":            scriptField("family"),
		"script_category":          scriptCategory,
		"script_dependencies":      scriptDependencies,
		"script_require_ports":     scriptVariadicField("require_ports"),
		"script_require_keys":      scriptVariadicField("require_keys"),
		"script_exclude_keys":      scriptVariadicField("exclude_keys"),
		"script_mandatory_keys":    scriptVariadicField("mandatory_keys"),
		"script_tag":               scriptTag,
		"typeof":                   typeofFn,
		"display":                  displayFn,
	}}
}

// scriptField returns an Executor caching a single positional
// argument under fieldName.
func scriptField(fieldName string) Executor {
	return func(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
		v := positional(reg, 0)
		if err := ctx.Storage.CacheNVTField(ctx.Key, naslregister.Field{Name: fieldName, Value: v}); err != nil {
			return naslvalue.Null, err
		}
		return naslvalue.Null, nil
	}
}

// scriptVariadicField caches every positional argument as one array
// field, for the built-ins that accept a variable port/key list.
func scriptVariadicField(fieldName string) Executor {
	return func(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
		args := reg.AnonArgs()
		if err := ctx.Storage.CacheNVTField(ctx.Key, naslregister.Field{Name: fieldName, Value: args}); err != nil {
			return naslvalue.Null, err
		}
		return naslvalue.Null, nil
	}
}

func scriptCategory(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	v := positional(reg, 0)
	if err := ctx.Storage.CacheNVTField(ctx.Key, naslregister.Field{Name: "category", Value: v}); err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Null, nil
}

func scriptDependencies(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	args := reg.AnonArgs()
	if err := ctx.Storage.CacheNVTField(ctx.Key, naslregister.Field{Name: "dependencies", Value: args}); err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Null, nil
}

// scriptTag stores a name:value tag pair (solution, summary, impact,
// ...), SL's catch-all NVT metadata built-in.
func scriptTag(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	name, err := requireString("script_tag", arg(reg, "name", 0))
	if err != nil {
		return naslvalue.Null, err
	}
	value := arg(reg, "value", 1)
	if err := ctx.Storage.CacheNVTField(ctx.Key, naslregister.Field{Name: "tag:" + name, Value: value}); err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Null, nil
}

func typeofFn(reg *naslregister.Register, _ *naslregister.Context) (naslvalue.Value, error) {
	return naslvalue.Str(positional(reg, 0).TypeName()), nil
}

func displayFn(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	args := reg.AnonArgs()
	parts := make([]interface{}, len(args.Array))
	for i, v := range args.Array {
		parts[i] = v.String()
	}
	ctx.Logger.Infof("%s", fmt.Sprint(parts...))
	return naslvalue.Null, nil
}
