// Package naslstdlib implements the standard-function registry the
// interpreter dispatches unresolved calls to (spec §4.4): a flat
// name→executor map composed from per-concern modules, following the
// teacher's namespace→function-list registry shape
// (internal/compiler/stdlib/registry.go) and its runtime counterpart's
// one-function-per-builtin layout (pkg/runtime/stdlib.go), reshaped to
// SL's single flat namespace and `(*Register, *Context) (Value, error)`
// call convention.
package naslstdlib

import (
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// Executor is the shape every standard function implements: it reads
// its arguments out of reg (positional via AnonArgsKey, named by their
// own key) and may use ctx's Storage/Loader/Logger collaborators.
type Executor func(reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error)

// Module is a named group of executors, mirroring the teacher
// registry's per-namespace function lists.
type Module struct {
	Name      string
	Functions map[string]Executor
}

// Registry is the flat name→Executor map SL resolves calls against.
// SL itself has one global function namespace, unlike the teacher's
// String/Time/Array/Hash/UUID namespaces — modules here exist only to
// organize the source, not to scope names at lookup time.
type Registry struct {
	fns map[string]Executor
}

// New composes a Registry from modules in order; the first module
// claiming a name wins, per spec: modules are consulted in
// registration order and later claims of the same name are ignored
// rather than erroring.
func New(modules ...Module) *Registry {
	r := &Registry{fns: make(map[string]Executor)}
	for _, m := range modules {
		for name, fn := range m.Functions {
			if _, exists := r.fns[name]; exists {
				continue
			}
			r.fns[name] = fn
		}
	}
	return r
}

// Default builds the registry wired with every built-in module.
func Default() *Registry {
	return New(StringModule(), KBModule(), MiscModule())
}

// Defined implements naslregister.FunctionRegistry.
func (r *Registry) Defined(name string) bool {
	_, ok := r.fns[name]
	return ok
}

// Execute implements naslregister.FunctionRegistry.
func (r *Registry) Execute(name string, reg *naslregister.Register, ctx *naslregister.Context) (naslvalue.Value, error) {
	fn, ok := r.fns[name]
	if !ok {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "call to undefined standard function " + name}
	}
	return fn(reg, ctx)
}
