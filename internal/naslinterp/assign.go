package naslinterp

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// resolveAssign handles every `=`/`+=`/.../`++`/`--` form. Lhs is
// always a Variable or Array statement naming a binding; Rhs is
// either the user's right-hand expression (OrderNormal) or the same
// statement as Lhs (OrderReturnAssign/OrderPreAssign, the postfix/
// prefix-inc/dec rewrites parser.go builds) — in that case the delta
// is fixed (+1/-1) rather than re-resolved from Rhs, since Rhs aliases
// Lhs and resolving it would read the binding's current value as the
// delta. OrderReturnAssign yields the value *before* the update
// (postfix); OrderPreAssign yields the value *after* it (prefix).
func (in *Interpreter) resolveAssign(stmt naslast.Statement) (naslvalue.Value, error) {
	name, index, err := in.lvalueOf(*stmt.Lhs)
	if err != nil {
		return naslvalue.Null, err
	}

	current := in.currentBinding(name, index)

	var delta naslvalue.Value
	if stmt.Order == naslast.OrderReturnAssign || stmt.Order == naslast.OrderPreAssign {
		delta = naslvalue.Num(1)
	} else {
		delta, err = in.resolve(*stmt.Rhs)
		if err != nil {
			return naslvalue.Null, err
		}
	}

	updated, err := applyAssignOp(stmt.Op, current, delta)
	if err != nil {
		return naslvalue.Null, err
	}

	if err := in.storeBinding(name, index, updated); err != nil {
		return naslvalue.Null, err
	}

	if stmt.Order == naslast.OrderReturnAssign {
		return current, nil
	}
	return updated, nil
}

// lvalueOf destructures an assignment target into its binding name
// and an optional array/dict index (nil for a bare Variable). For
// Array(None) — the append idiom `a[] = x` — the index is one past the
// end of the existing array, or 0 when the binding is not an array.
func (in *Interpreter) lvalueOf(stmt naslast.Statement) (string, *naslvalue.Value, error) {
	switch stmt.Kind {
	case naslast.KindVariable:
		return stmt.Tok.Lexeme, nil, nil
	case naslast.KindArray:
		if stmt.Index == nil {
			next := naslvalue.Num(0)
			if ct, ok := in.register.Lookup(stmt.Tok.Lexeme); ok && ct.Kind == naslregister.ContextValue && ct.Value.Kind == naslvalue.KindArray {
				next = naslvalue.Num(int64(len(ct.Value.Array)))
			}
			return stmt.Tok.Lexeme, &next, nil
		}
		idx, err := in.resolve(*stmt.Index)
		if err != nil {
			return "", nil, err
		}
		return stmt.Tok.Lexeme, &idx, nil
	default:
		return "", nil, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "assignment target must be a variable or array element"}
	}
}

func (in *Interpreter) currentBinding(name string, index *naslvalue.Value) naslvalue.Value {
	ct, ok := in.register.Lookup(name)
	if !ok || ct.Kind != naslregister.ContextValue {
		return naslvalue.Null
	}
	if index == nil {
		return ct.Value
	}
	switch ct.Value.Kind {
	case naslvalue.KindArray:
		i := int(index.Number)
		if i < 0 || i >= len(ct.Value.Array) {
			return naslvalue.Null
		}
		return ct.Value.Array[i]
	case naslvalue.KindDict:
		return ct.Value.Dict[index.String()]
	default:
		return naslvalue.Null
	}
}

// storeBinding writes v back to name, materializing an array/dict
// container on first use and growing an array to fit an integer
// index (spec §4.3's array-assignment invariant). A nil index rebinds
// the whole value; `a[] = x` arrives here with the append index
// lvalueOf computed.
func (in *Interpreter) storeBinding(name string, index *naslvalue.Value, v naslvalue.Value) error {
	ct, ok := in.register.Lookup(name)
	if !ok {
		ct = naslregister.Val(naslvalue.Null)
	}
	if ct.Kind != naslregister.ContextValue {
		return &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "cannot assign to a function binding"}
	}

	if index == nil {
		in.register.Insert(name, naslregister.Val(v))
		return nil
	}

	container := ct.Value
	if isNumericIndex(*index) {
		if container.Kind != naslvalue.KindArray {
			container = naslvalue.Arr(nil)
		}
		i := int(index.Number)
		for i >= len(container.Array) {
			container.Array = append(container.Array, naslvalue.Null)
		}
		container.Array[i] = v
	} else {
		if container.Kind != naslvalue.KindDict {
			container = naslvalue.DictOf(map[string]naslvalue.Value{})
		}
		if container.Dict == nil {
			container.Dict = map[string]naslvalue.Value{}
		}
		container.Dict[index.String()] = v
	}
	in.register.Insert(name, naslregister.Val(container))
	return nil
}

func isNumericIndex(v naslvalue.Value) bool {
	return v.Kind == naslvalue.KindNumber
}

func applyAssignOp(op naslast.AssignOp, current, delta naslvalue.Value) (naslvalue.Value, error) {
	switch op {
	case naslast.OpSet:
		return delta, nil
	case naslast.OpAddSet:
		if isStringy(current) || isStringy(delta) {
			return naslvalue.Str(current.String() + delta.String()), nil
		}
		return naslvalue.Num(current.Number + delta.Number), nil
	case naslast.OpSubSet:
		return naslvalue.Num(current.Number - delta.Number), nil
	case naslast.OpMulSet:
		return naslvalue.Num(current.Number * delta.Number), nil
	case naslast.OpDivSet:
		if delta.Number == 0 {
			return naslvalue.Num(0), nil
		}
		return naslvalue.Num(current.Number / delta.Number), nil
	case naslast.OpModSet:
		if delta.Number == 0 {
			return naslvalue.Num(0), nil
		}
		return naslvalue.Num(current.Number % delta.Number), nil
	case naslast.OpShlSet:
		return naslvalue.Num(current.Number << uint(delta.Number)), nil
	case naslast.OpShrSet:
		return naslvalue.Num(current.Number >> uint(delta.Number)), nil
	case naslast.OpUShrSet:
		return naslvalue.Num(int64(uint64(current.Number) >> uint(delta.Number))), nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "unknown assignment operator"}
	}
}
