package naslparser

import "github.com/nasl-runtime/naslrun/internal/nasltoken"

// bindingPower is the (left, right) binding-power pair an infix/
// postfix operator binds at. Pratt-parsing climbs by comparing the
// caller's minimum binding power against an operator's left power;
// right-associative operators (assignment) use a right power lower
// than their left power so the same precedence level recurses on the
// right-hand side.
type bindingPower struct {
	left  int
	right int
}

// infixPower returns the operator's binding power and whether cat is
// an infix/postfix operator at all. Higher binds tighter.
func infixPower(cat nasltoken.Category) (bindingPower, bool) {
	switch cat {
	case nasltoken.CategoryAssign, nasltoken.CategoryPlusAssign, nasltoken.CategoryMinusAssign,
		nasltoken.CategoryStarAssign, nasltoken.CategorySlashAssign, nasltoken.CategoryPercentAssign,
		nasltoken.CategoryShlAssign, nasltoken.CategoryShrAssign, nasltoken.CategoryUShrAssign:
		return bindingPower{2, 1}, true // right-associative
	case nasltoken.CategoryOrOr:
		return bindingPower{3, 4}, true
	case nasltoken.CategoryAndAnd:
		return bindingPower{5, 6}, true
	case nasltoken.CategoryPipe:
		return bindingPower{7, 8}, true
	case nasltoken.CategoryCaret:
		return bindingPower{9, 10}, true
	case nasltoken.CategoryAmp:
		return bindingPower{11, 12}, true
	case nasltoken.CategoryEq, nasltoken.CategoryNeq, nasltoken.CategoryMatch, nasltoken.CategoryNotMatch:
		return bindingPower{13, 14}, true
	case nasltoken.CategoryLt, nasltoken.CategoryLe, nasltoken.CategoryGt, nasltoken.CategoryGe:
		return bindingPower{15, 16}, true
	case nasltoken.CategoryShl, nasltoken.CategoryShr, nasltoken.CategoryUShr:
		return bindingPower{17, 18}, true
	case nasltoken.CategoryPlus, nasltoken.CategoryMinus:
		return bindingPower{19, 20}, true
	case nasltoken.CategoryStar, nasltoken.CategorySlash, nasltoken.CategoryPercent:
		return bindingPower{21, 22}, true
	case nasltoken.CategoryColon: // NamedParameter rewrite: ident : expr
		return bindingPower{23, 24}, true
	case nasltoken.CategoryLParen: // call
		return bindingPower{27, 0}, true
	case nasltoken.CategoryLBracket: // index
		return bindingPower{27, 0}, true
	case nasltoken.CategoryIncr, nasltoken.CategoryDecr: // postfix
		return bindingPower{27, 0}, true
	case nasltoken.CategoryComma: // parameter-list flattening, lowest of all
		return bindingPower{1, 0}, true
	default:
		return bindingPower{}, false
	}
}

// prefixPower is the binding power unary prefix operators parse their
// operand at.
const prefixPower = 25
