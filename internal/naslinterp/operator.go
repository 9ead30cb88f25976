package naslinterp

import (
	"regexp"
	"strings"

	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/nasltoken"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// resolveOperator evaluates unary and binary operators (spec §4.3:
// arithmetic truncates toward zero, division/modulo by zero yield 0
// plus a warning rather than a panic, string `+` concatenates, `&&`/
// `||` short-circuit on SL truthiness, `=~`/`!~` are regex match
// tests).
func (in *Interpreter) resolveOperator(stmt naslast.Statement) (naslvalue.Value, error) {
	if len(stmt.Operands) == 1 {
		return in.resolveUnary(stmt)
	}

	cat := stmt.OperatorTok.Category
	if cat == nasltoken.CategoryAndAnd || cat == nasltoken.CategoryOrOr {
		return in.resolveShortCircuit(stmt)
	}

	lhs, err := in.resolve(stmt.Operands[0])
	if err != nil {
		return naslvalue.Null, err
	}
	rhs, err := in.resolve(stmt.Operands[1])
	if err != nil {
		return naslvalue.Null, err
	}

	switch cat {
	case nasltoken.CategoryPlus:
		if lhs.Kind == naslvalue.KindString || lhs.Kind == naslvalue.KindData ||
			rhs.Kind == naslvalue.KindString || rhs.Kind == naslvalue.KindData {
			return naslvalue.Str(lhs.String() + rhs.String()), nil
		}
		return naslvalue.Num(lhs.Number + rhs.Number), nil
	case nasltoken.CategoryMinus:
		return naslvalue.Num(lhs.Number - rhs.Number), nil
	case nasltoken.CategoryStar:
		return naslvalue.Num(lhs.Number * rhs.Number), nil
	case nasltoken.CategorySlash:
		if rhs.Number == 0 {
			in.ctx.Logger.Warnf("division by zero, yielding 0")
			return naslvalue.Num(0), nil
		}
		return naslvalue.Num(lhs.Number / rhs.Number), nil
	case nasltoken.CategoryPercent:
		if rhs.Number == 0 {
			in.ctx.Logger.Warnf("modulo by zero, yielding 0")
			return naslvalue.Num(0), nil
		}
		return naslvalue.Num(lhs.Number % rhs.Number), nil
	case nasltoken.CategoryAmp:
		return naslvalue.Num(lhs.Number & rhs.Number), nil
	case nasltoken.CategoryPipe:
		return naslvalue.Num(lhs.Number | rhs.Number), nil
	case nasltoken.CategoryCaret:
		return naslvalue.Num(lhs.Number ^ rhs.Number), nil
	case nasltoken.CategoryShl:
		return naslvalue.Num(lhs.Number << uint(rhs.Number)), nil
	case nasltoken.CategoryShr:
		return naslvalue.Num(lhs.Number >> uint(rhs.Number)), nil
	case nasltoken.CategoryUShr:
		return naslvalue.Num(int64(uint64(lhs.Number) >> uint(rhs.Number))), nil
	case nasltoken.CategoryEq:
		return naslvalue.Bool(valuesEqual(lhs, rhs)), nil
	case nasltoken.CategoryNeq:
		return naslvalue.Bool(!valuesEqual(lhs, rhs)), nil
	case nasltoken.CategoryLt:
		return naslvalue.Bool(lhs.Number < rhs.Number), nil
	case nasltoken.CategoryLe:
		return naslvalue.Bool(lhs.Number <= rhs.Number), nil
	case nasltoken.CategoryGt:
		return naslvalue.Bool(lhs.Number > rhs.Number), nil
	case nasltoken.CategoryGe:
		return naslvalue.Bool(lhs.Number >= rhs.Number), nil
	case nasltoken.CategoryMatch:
		return regexMatch(lhs, rhs)
	case nasltoken.CategoryNotMatch:
		v, err := regexMatch(lhs, rhs)
		if err != nil {
			return naslvalue.Null, err
		}
		return naslvalue.Bool(!v.Boolean), nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "unknown binary operator " + cat.String()}
	}
}

func (in *Interpreter) resolveUnary(stmt naslast.Statement) (naslvalue.Value, error) {
	v, err := in.resolve(stmt.Operands[0])
	if err != nil {
		return naslvalue.Null, err
	}
	switch stmt.OperatorTok.Category {
	case nasltoken.CategoryMinus:
		return naslvalue.Num(-v.Number), nil
	case nasltoken.CategoryBang:
		return naslvalue.Bool(!v.Truthy()), nil
	case nasltoken.CategoryTilde:
		return naslvalue.Num(^v.Number), nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "unknown unary operator " + stmt.OperatorTok.Category.String()}
	}
}

// resolveShortCircuit implements && and || without evaluating the
// right operand unless SL truthiness demands it.
func (in *Interpreter) resolveShortCircuit(stmt naslast.Statement) (naslvalue.Value, error) {
	lhs, err := in.resolve(stmt.Operands[0])
	if err != nil {
		return naslvalue.Null, err
	}
	if stmt.OperatorTok.Category == nasltoken.CategoryAndAnd {
		if !lhs.Truthy() {
			return naslvalue.Bool(false), nil
		}
		rhs, err := in.resolve(stmt.Operands[1])
		if err != nil {
			return naslvalue.Null, err
		}
		return naslvalue.Bool(rhs.Truthy()), nil
	}
	if lhs.Truthy() {
		return naslvalue.Bool(true), nil
	}
	rhs, err := in.resolve(stmt.Operands[1])
	if err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.Bool(rhs.Truthy()), nil
}

func valuesEqual(a, b naslvalue.Value) bool {
	if a.Kind == naslvalue.KindNull || b.Kind == naslvalue.KindNull {
		return a.Kind == b.Kind
	}
	if isStringy(a) || isStringy(b) {
		return a.String() == b.String()
	}
	return a.Number == b.Number
}

func isStringy(v naslvalue.Value) bool {
	return v.Kind == naslvalue.KindString || v.Kind == naslvalue.KindData
}

// regexMatch implements =~/!~: rhs is compiled as a regular
// expression and tested against lhs's string form.
func regexMatch(lhs, rhs naslvalue.Value) (naslvalue.Value, error) {
	pattern := rhs.String()
	re, err := regexp.Compile(pattern)
	if err != nil {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.WrongArgumentKind, Message: "invalid regular expression: " + err.Error()}
	}
	return naslvalue.Bool(re.MatchString(strings.TrimRight(lhs.String(), "\x00"))), nil
}
