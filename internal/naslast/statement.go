// Package naslast defines the tagged Statement variant covering every
// SL construct, following the closed-tag-set shape spec §3 requires
// rather than the teacher's per-construct Node hierarchy
// (internal/compiler/ast) — SL's grammar is uniform enough that one
// struct with a Kind discriminator is a better fit, but the byte-range
// and depth-first find(predicate) conventions below are carried over
// from that file.
package naslast

import "github.com/nasl-runtime/naslrun/internal/nasltoken"

// Kind discriminates the Statement tagged variant.
type Kind int

const (
	KindPrimitive Kind = iota
	KindVariable
	KindArray
	KindParameter
	KindNamedParameter
	KindCall
	KindInclude
	KindExit
	KindReturn
	KindAssign
	KindOperator
	KindIf
	KindFor
	KindWhile
	KindRepeat
	KindForEach
	KindFunctionDeclaration
	KindBlock
	KindDeclare
	KindAttackCategory
	KindContinue
	KindBreak
	KindNoOp
	KindEoF
)

// AssignOp enumerates the assignment operators Assign carries.
type AssignOp int

const (
	OpSet AssignOp = iota
	OpAddSet
	OpSubSet
	OpMulSet
	OpDivSet
	OpModSet
	OpShlSet
	OpShrSet
	OpUShrSet
)

// AssignOrder distinguishes pre- and post-increment/decrement so the
// interpreter knows which value to yield (spec §4.3 "ReturnAssign").
type AssignOrder int

const (
	OrderNormal AssignOrder = iota
	OrderReturnAssign            // post-++/-- : yield old value, store new
	OrderPreAssign                // pre-++/--  : yield new value, store new
)

// Statement is the tagged variant covering every SL construct. Only
// the fields relevant to Kind are populated; this mirrors spec §3's
// single tagged-variant requirement instead of per-construct types.
type Statement struct {
	Kind  Kind
	Start nasltoken.Token // the statement's first consumed token
	End   nasltoken.Token // the statement's last consumed token

	// Primitive / Variable / AttackCategory / Declare kind token /
	// NamedParameter name / Assign lhs name all reuse Tok.
	Tok nasltoken.Token

	// Generic children slot: Block.Stmts, Parameter.Items,
	// FunctionDeclaration.Params (as Variable statements), Declare.Names.
	Children []Statement

	// Array: Index is nil for a bare lookup (`Array(None)` in spec).
	Index *Statement

	// Call: Callee name token is Tok; Args holds the flattened argument
	// statements; ClosePar is the recorded closing-paren token (spec §3's
	// invariant: "every Call/Include/Exit/FunctionDeclaration carries
	// a parenthesis token").
	ClosePar nasltoken.Token
	Args     []Statement

	// Include / Exit: Expr is the evaluated argument expression;
	// OpenTok is the keyword token.
	OpenTok nasltoken.Token
	Expr    *Statement

	// Return: Expr above is reused.

	// Assign: Op/Order above; Lhs/Rhs below.
	Op    AssignOp
	Order AssignOrder
	Lhs   *Statement
	Rhs   *Statement

	// Operator: OperatorTok names the operator; Operands are the
	// operator's arguments (1 for unary, 2 for binary).
	OperatorTok nasltoken.Token
	Operands    []Statement

	// If: Cond/Then/Else.
	Cond *Statement
	Then *Statement
	Else *Statement

	// For: Init/Cond/Step/Body. While/Repeat reuse Cond/Body.
	// ForEach: Tok is the loop variable token; Iter/Body.
	Init *Statement
	Step *Statement
	Body *Statement
	Iter *Statement

	// FunctionDeclaration: Tok is the name token, Children are
	// parameter-name statements, Body is the block.

	// Declare: Tok is the kind token (local_var/global_var), Children
	// are the declared name statements.
}

// Range returns the statement's half-open byte range [start,end) — a
// read of its first and last consumed tokens, per spec §4.2.
func (s Statement) Range() (int, int) {
	return s.Start.Span.Start, s.End.Span.End
}

// Find returns every descendant statement (including s itself) for
// which predicate returns true, visited depth-first pre-order.
func (s Statement) Find(predicate func(Statement) bool) []Statement {
	var out []Statement
	s.walk(&out, predicate)
	return out
}

func (s Statement) walk(out *[]Statement, predicate func(Statement) bool) {
	if predicate(s) {
		*out = append(*out, s)
	}
	for _, c := range s.Children {
		c.walk(out, predicate)
	}
	for _, c := range s.Args {
		c.walk(out, predicate)
	}
	for _, c := range s.Operands {
		c.walk(out, predicate)
	}
	if s.Index != nil {
		s.Index.walk(out, predicate)
	}
	if s.Expr != nil {
		s.Expr.walk(out, predicate)
	}
	if s.Lhs != nil {
		s.Lhs.walk(out, predicate)
	}
	if s.Rhs != nil {
		s.Rhs.walk(out, predicate)
	}
	if s.Cond != nil {
		s.Cond.walk(out, predicate)
	}
	if s.Then != nil {
		s.Then.walk(out, predicate)
	}
	if s.Else != nil {
		s.Else.walk(out, predicate)
	}
	if s.Init != nil {
		s.Init.walk(out, predicate)
	}
	if s.Step != nil {
		s.Step.walk(out, predicate)
	}
	if s.Body != nil {
		s.Body.walk(out, predicate)
	}
	if s.Iter != nil {
		s.Iter.walk(out, predicate)
	}
}

// CalleeName returns the identifier naming a Call/Include/Exit/
// FunctionDeclaration statement. Include and Exit have a fixed
// reserved name so the rewriter's matcher can treat them uniformly
// with ordinary calls (spec §4.5's matching table).
func (s Statement) CalleeName() string {
	switch s.Kind {
	case KindCall, KindFunctionDeclaration:
		return s.Tok.Lexeme
	case KindInclude:
		return "include"
	case KindExit:
		return "exit"
	default:
		return ""
	}
}
