package naslinterp

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// isUnwind reports whether v must propagate straight through the loop
// to its caller without further iteration (Exit/Return); Break and
// Continue are handled by the loop itself and never propagate past
// it.
func isUnwind(v naslvalue.Value) bool {
	return v.Kind == naslvalue.KindExit || v.Kind == naslvalue.KindReturn
}

func (in *Interpreter) resolveFor(stmt naslast.Statement) (naslvalue.Value, error) {
	if _, err := in.resolve(*stmt.Init); err != nil {
		return naslvalue.Null, err
	}
	for {
		cond, err := in.resolve(*stmt.Cond)
		if err != nil {
			return naslvalue.Null, err
		}
		if !cond.Truthy() {
			return naslvalue.Null, nil
		}
		v, err := in.resolve(*stmt.Body)
		if err != nil {
			return naslvalue.Null, err
		}
		if isUnwind(v) {
			return v, nil
		}
		if v.Kind == naslvalue.KindBreak {
			return naslvalue.Null, nil
		}
		if _, err := in.resolve(*stmt.Step); err != nil {
			return naslvalue.Null, err
		}
	}
}

func (in *Interpreter) resolveWhile(stmt naslast.Statement) (naslvalue.Value, error) {
	for {
		cond, err := in.resolve(*stmt.Cond)
		if err != nil {
			return naslvalue.Null, err
		}
		if !cond.Truthy() {
			return naslvalue.Null, nil
		}
		v, err := in.resolve(*stmt.Body)
		if err != nil {
			return naslvalue.Null, err
		}
		if isUnwind(v) {
			return v, nil
		}
		if v.Kind == naslvalue.KindBreak {
			return naslvalue.Null, nil
		}
	}
}

func (in *Interpreter) resolveRepeat(stmt naslast.Statement) (naslvalue.Value, error) {
	for {
		v, err := in.resolve(*stmt.Body)
		if err != nil {
			return naslvalue.Null, err
		}
		if isUnwind(v) {
			return v, nil
		}
		if v.Kind == naslvalue.KindBreak {
			return naslvalue.Null, nil
		}
		cond, err := in.resolve(*stmt.Cond)
		if err != nil {
			return naslvalue.Null, err
		}
		if cond.Truthy() {
			return naslvalue.Null, nil
		}
	}
}

// resolveForEach evaluates iter to an array and iterates its elements
// binding the loop variable in a fresh frame. Iterating a non-array
// value is an open question spec §9 resolves explicitly: zero
// iterations plus a warning log, not an error.
func (in *Interpreter) resolveForEach(stmt naslast.Statement) (naslvalue.Value, error) {
	iterVal, err := in.resolve(*stmt.Iter)
	if err != nil {
		return naslvalue.Null, err
	}
	var elems []naslvalue.Value
	switch iterVal.Kind {
	case naslvalue.KindArray:
		elems = iterVal.Array
	case naslvalue.KindDict:
		for _, v := range iterVal.Dict {
			elems = append(elems, v)
		}
	default:
		in.ctx.Logger.Warnf("foreach over non-array value at %s, treating as zero iterations", stmt.Tok.Lexeme)
		return naslvalue.Null, nil
	}

	for _, elem := range elems {
		in.register.CreateChild(map[string]naslregister.ContextType{
			stmt.Tok.Lexeme: naslregister.Val(elem),
		})
		v, err := in.resolve(*stmt.Body)
		in.register.DropLast()
		if err != nil {
			return naslvalue.Null, err
		}
		if isUnwind(v) {
			return v, nil
		}
		if v.Kind == naslvalue.KindBreak {
			return naslvalue.Null, nil
		}
	}
	return naslvalue.Null, nil
}
