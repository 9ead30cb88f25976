package naslinterp

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// resolveCall evaluates a Call's arguments, dispatches to either a
// user-defined function (registered by a prior FunctionDeclaration) or
// the standard-function registry, and handles the cooperative-forking
// contract (spec §4.3.1/§5): a Fork(vs) result yields vs[0] here and
// spawns one sibling Interpreter per remaining value, each primed to
// emit its value when it reaches this exact statement again.
func (in *Interpreter) resolveCall(stmt naslast.Statement) (naslvalue.Value, error) {
	positional, named, err := in.evalArgs(stmt.Args)
	if err != nil {
		return naslvalue.Null, err
	}

	name := stmt.Tok.Lexeme

	var result naslvalue.Value
	if fn, ok := in.register.Lookup(name); ok && fn.Kind == naslregister.ContextFunction {
		result, err = in.invokeUserFunction(fn, positional, named)
	} else if in.ctx.Functions != nil && in.ctx.Functions.Defined(name) {
		bindings := callBindings(nil, positional, named)
		callReg := in.register.CallFrame(bindings)
		result, err = in.ctx.Functions.Execute(name, callReg, in.ctx)
	} else {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "call to undefined function " + name}
	}
	if err != nil {
		return naslvalue.Null, err
	}

	if result.Kind == naslvalue.KindFork {
		return in.spawnFork(result.ForkValues), nil
	}
	return result, nil
}

// invokeUserFunction runs a user-defined function body in a fresh
// Register sharing only the global frame (spec §9: functions close
// over nothing). A Return unwraps to its payload; an Exit propagates
// unchanged so it reaches the top-level driver; anything else yields
// Null, matching a function falling off the end of its body.
func (in *Interpreter) invokeUserFunction(fn naslregister.ContextType, positional []naslvalue.Value, named map[string]naslvalue.Value) (naslvalue.Value, error) {
	bindings := callBindings(fn.Params, positional, named)
	callReg := in.register.CallFrame(bindings)
	callInterp := New(callReg, in.ctx)

	v, err := callInterp.resolve(fn.Body)
	if err != nil {
		return naslvalue.Null, err
	}
	switch v.Kind {
	case naslvalue.KindReturn:
		if v.Inner != nil {
			return *v.Inner, nil
		}
		return naslvalue.Null, nil
	case naslvalue.KindExit:
		return v, nil
	default:
		return naslvalue.Null, nil
	}
}

// callBindings builds the frame a call body or stdlib executor
// resolves its arguments from: positional arguments land in
// AnonArgsKey, named arguments are bound under their own name, and
// (for user functions only) positional arguments also fill the
// declared parameter list left to right.
func callBindings(params []string, positional []naslvalue.Value, named map[string]naslvalue.Value) map[string]naslregister.ContextType {
	bindings := make(map[string]naslregister.ContextType, len(named)+len(params)+1)
	bindings[naslregister.AnonArgsKey] = naslregister.Val(naslvalue.Arr(positional))
	for k, v := range named {
		bindings[k] = naslregister.Val(v)
	}
	for i, p := range params {
		if i < len(positional) {
			bindings[p] = naslregister.Val(positional[i])
		} else if _, ok := bindings[p]; !ok {
			bindings[p] = naslregister.Val(naslvalue.Null)
		}
	}
	return bindings
}

// evalArgs resolves a Call's flattened argument list into positional
// values and named values, per spec §4.3's NamedParameter split.
func (in *Interpreter) evalArgs(args []naslast.Statement) ([]naslvalue.Value, map[string]naslvalue.Value, error) {
	var positional []naslvalue.Value
	named := make(map[string]naslvalue.Value)
	for _, a := range args {
		if a.Kind == naslast.KindNamedParameter {
			v, err := in.resolve(*a.Expr)
			if err != nil {
				return nil, nil, err
			}
			named[a.Tok.Lexeme] = v
			continue
		}
		v, err := in.resolve(a)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, v)
	}
	return positional, named, nil
}

// spawnFork records the fork point at the interpreter's current
// position, appends one sibling Interpreter per value past the first,
// and returns the first value for this interpreter to continue with.
func (in *Interpreter) spawnFork(vs []naslvalue.Value) naslvalue.Value {
	if len(vs) == 0 {
		return naslvalue.Null
	}
	if len(vs) == 1 {
		return vs[0]
	}
	forkPos := in.pos.clone()
	for _, v := range vs[1:] {
		sibling := New(in.register.Clone(), in.ctx)
		sibling.skip = &forkResume{pos: forkPos, value: v}
		in.forked = append(in.forked, sibling)
	}
	return vs[0]
}
