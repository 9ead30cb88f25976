// Package naslinterp implements the tree-walking interpreter: resolve,
// retry_resolve, retry_resolve_next, next_interpreter, and cooperative
// forking (spec §4.3/§4.3.1). It is grounded almost one-to-one on
// original_source's nasl-interpreter/src/interpreter.rs and
// fork_interpreter.rs, re-expressed in Go idiom (methods on a struct,
// explicit error returns, no async/await — spec §5 is explicit that
// the interpreter itself is synchronous).
package naslinterp

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/nasltoken"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// forkResume records, for one sibling interpreter, the exact position
// at which it must stop skipping and emit its pre-set fork value.
type forkResume struct {
	pos   position
	value naslvalue.Value
}

// Interpreter resolves a statement tree against a Register and
// Context, per spec §4.3's public contract.
type Interpreter struct {
	register *naslregister.Register
	ctx      *naslregister.Context

	pos position

	skip *forkResume

	forked      []*Interpreter
	forkedIndex int
}

// New constructs an Interpreter. register is used directly (not
// copied) — callers that need isolation should Clone it first.
func New(register *naslregister.Register, ctx *naslregister.Context) *Interpreter {
	return &Interpreter{register: register, ctx: ctx, pos: newPosition(0)}
}

// Register borrows the live register.
func (in *Interpreter) Register() *naslregister.Register { return in.register }

// seedPosition resets the cursor so the next RetryResolveNext call
// lands on top-level statement index i. CodeInterpreter uses this to
// fold a freshly spawned fork sibling into the statement rotation at
// the exact top-level statement during which it was spawned.
func (in *Interpreter) seedPosition(i int) { in.pos = newPosition(i) }

// NextInterpreter returns the next sibling interpreter that must run
// the same statement the caller just resolved, if the statement
// produced a fork. When the rotation is exhausted it returns nil and
// resets the rotation index, signalling the driver to advance to the
// next statement — mirroring Rust's next_interpreter exactly.
func (in *Interpreter) NextInterpreter() *Interpreter {
	if in.forkedIndex >= len(in.forked) {
		if in.forkedIndex > 0 {
			in.forkedIndex = 0
			in.forked = nil
		}
		return nil
	}
	result := in.forked[in.forkedIndex]
	in.forkedIndex++
	return result
}

// RetryResolveNext advances the cursor ordinal first, then delegates
// to RetryResolve — used when driving a stream of top-level
// statements (spec §4.3).
func (in *Interpreter) RetryResolveNext(stmt naslast.Statement, maxAttempts int) (naslvalue.Value, error) {
	if len(in.pos.index) > 0 {
		in.pos.bumpLast()
	}
	return in.RetryResolve(stmt, maxAttempts)
}

// RetryResolve resolves stmt, retrying on the retriable error set
// (spec §7) up to maxAttempts times.
func (in *Interpreter) RetryResolve(stmt naslast.Statement, maxAttempts int) (naslvalue.Value, error) {
	v, err := in.resolve(stmt)
	if err == nil {
		return v, nil
	}
	if maxAttempts > 0 && naslerr.Retriable(err) {
		return in.RetryResolveNext(stmt, maxAttempts-1)
	}
	return v, err
}

// resolve is the internal recursion unit: it interprets one statement
// and returns its value.
func (in *Interpreter) resolve(stmt naslast.Statement) (naslvalue.Value, error) {
	in.pos.up()
	defer in.pos.down()

	if in.ctx.Cancelled() {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Cancelled, Message: "context cancelled"}
	}

	if in.skip != nil {
		if in.pos.equal(in.skip.pos) {
			v := in.skip.value
			in.skip = nil
			return v, nil
		}
		// Only statements on the path down to the fork position are
		// descended into; every other statement yields Null.
		if len(in.pos.index) >= len(in.skip.pos.index) ||
			!in.pos.equal(position{index: in.skip.pos.index[:len(in.pos.index)]}) {
			return naslvalue.Null, nil
		}
	}

	v, err := in.dispatch(stmt)
	if err != nil {
		if ie, ok := err.(*naslerr.InterpretError); ok {
			return v, ie.WithOrigin(stmt.String())
		}
		return v, err
	}
	return v, nil
}

func (in *Interpreter) dispatch(stmt naslast.Statement) (naslvalue.Value, error) {
	switch stmt.Kind {
	case naslast.KindPrimitive:
		return in.resolvePrimitive(stmt)
	case naslast.KindVariable:
		return in.resolveVariable(stmt)
	case naslast.KindArray:
		return in.resolveArray(stmt)
	case naslast.KindParameter:
		return in.resolveParameter(stmt)
	case naslast.KindNamedParameter:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "named parameter should not be resolved directly"}
	case naslast.KindCall:
		return in.resolveCall(stmt)
	case naslast.KindInclude:
		return in.resolveInclude(stmt)
	case naslast.KindExit:
		return in.resolveExit(stmt)
	case naslast.KindReturn:
		return in.resolveReturn(stmt)
	case naslast.KindAssign:
		return in.resolveAssign(stmt)
	case naslast.KindOperator:
		return in.resolveOperator(stmt)
	case naslast.KindIf:
		return in.resolveIf(stmt)
	case naslast.KindFor:
		return in.resolveFor(stmt)
	case naslast.KindWhile:
		return in.resolveWhile(stmt)
	case naslast.KindRepeat:
		return in.resolveRepeat(stmt)
	case naslast.KindForEach:
		return in.resolveForEach(stmt)
	case naslast.KindFunctionDeclaration:
		return in.resolveFunctionDeclaration(stmt)
	case naslast.KindBlock:
		return in.resolveBlock(stmt)
	case naslast.KindDeclare:
		return in.resolveDeclare(stmt)
	case naslast.KindAttackCategory:
		return in.resolveAttackCategory(stmt)
	case naslast.KindContinue:
		return naslvalue.ContinueValue, nil
	case naslast.KindBreak:
		return naslvalue.BreakValue, nil
	case naslast.KindNoOp, naslast.KindEoF:
		return naslvalue.Null, nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "unknown statement kind"}
	}
}

func (in *Interpreter) resolvePrimitive(stmt naslast.Statement) (naslvalue.Value, error) {
	return primitiveFromToken(stmt.Tok)
}

func (in *Interpreter) resolveVariable(stmt naslast.Statement) (naslvalue.Value, error) {
	ct, ok := in.register.Lookup(stmt.Tok.Lexeme)
	if !ok {
		return naslvalue.Null, nil
	}
	if ct.Kind == naslregister.ContextFunction {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "variable lookup resolved to a function binding"}
	}
	return ct.Value, nil
}

func (in *Interpreter) resolveArray(stmt naslast.Statement) (naslvalue.Value, error) {
	ct, ok := in.register.Lookup(stmt.Tok.Lexeme)
	if !ok {
		ct = naslregister.Val(naslvalue.Null)
	}
	if ct.Kind == naslregister.ContextFunction {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "array lookup resolved to a function binding"}
	}
	if stmt.Index == nil {
		return ct.Value, nil
	}
	idxVal, err := in.resolve(*stmt.Index)
	if err != nil {
		return naslvalue.Null, err
	}
	switch ct.Value.Kind {
	case naslvalue.KindArray:
		i := int(idxVal.Number)
		if i < 0 || i >= len(ct.Value.Array) {
			return naslvalue.Null, nil
		}
		return ct.Value.Array[i], nil
	case naslvalue.KindDict:
		v, ok := ct.Value.Dict[idxVal.String()]
		if !ok {
			return naslvalue.Null, nil
		}
		return v, nil
	case naslvalue.KindNull:
		return naslvalue.Null, nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "index into non-array/dict value"}
	}
}

func (in *Interpreter) resolveParameter(stmt naslast.Statement) (naslvalue.Value, error) {
	result := make([]naslvalue.Value, 0, len(stmt.Children))
	for _, c := range stmt.Children {
		v, err := in.resolve(c)
		if err != nil {
			return naslvalue.Null, err
		}
		result = append(result, v)
	}
	return naslvalue.Arr(result), nil
}

func (in *Interpreter) resolveInclude(stmt naslast.Statement) (naslvalue.Value, error) {
	pathVal, err := in.resolve(*stmt.Expr)
	if err != nil {
		return naslvalue.Null, err
	}
	if pathVal.Kind != naslvalue.KindString {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "include expects a string path"}
	}
	src, err := in.ctx.Loader.Load(pathVal.Str)
	if err != nil {
		return naslvalue.Null, err
	}
	included, err := parseSource(src)
	if err != nil {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.IncludeSyntaxError, Message: err.Error()}
	}
	child := New(in.register, in.ctx)
	for _, s := range included {
		if _, err := child.resolve(s); err != nil {
			return naslvalue.Null, err
		}
	}
	return naslvalue.Null, nil
}

func (in *Interpreter) resolveExit(stmt naslast.Statement) (naslvalue.Value, error) {
	v, err := in.resolve(*stmt.Expr)
	if err != nil {
		return naslvalue.Null, err
	}
	if v.Kind != naslvalue.KindNumber {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.UnsupportedOn, Message: "exit expects a numeric value"}
	}
	return naslvalue.ExitWith(v.Number), nil
}

func (in *Interpreter) resolveReturn(stmt naslast.Statement) (naslvalue.Value, error) {
	if stmt.Expr == nil {
		return naslvalue.ReturnWith(naslvalue.Null), nil
	}
	v, err := in.resolve(*stmt.Expr)
	if err != nil {
		return naslvalue.Null, err
	}
	return naslvalue.ReturnWith(v), nil
}

func (in *Interpreter) resolveIf(stmt naslast.Statement) (naslvalue.Value, error) {
	cond, err := in.resolve(*stmt.Cond)
	if err != nil {
		return naslvalue.Null, err
	}
	if cond.Truthy() {
		return in.resolve(*stmt.Then)
	}
	if stmt.Else != nil {
		return in.resolve(*stmt.Else)
	}
	return naslvalue.Null, nil
}

func (in *Interpreter) resolveBlock(stmt naslast.Statement) (naslvalue.Value, error) {
	in.register.CreateChild(nil)
	for _, c := range stmt.Children {
		v, err := in.resolve(c)
		if err != nil {
			in.register.DropLast()
			return naslvalue.Null, err
		}
		switch v.Kind {
		case naslvalue.KindExit, naslvalue.KindReturn, naslvalue.KindBreak, naslvalue.KindContinue:
			in.register.DropLast()
			return v, nil
		}
	}
	in.register.DropLast()
	return naslvalue.Null, nil
}

func (in *Interpreter) resolveDeclare(stmt naslast.Statement) (naslvalue.Value, error) {
	for _, name := range stmt.Children {
		if stmt.Tok.Category == nasltoken.CategoryGlobalVar {
			in.register.InsertGlobal(name.Tok.Lexeme, naslregister.Val(naslvalue.Null))
		} else {
			in.register.InsertLocal(name.Tok.Lexeme, naslregister.Val(naslvalue.Null))
		}
	}
	return naslvalue.Null, nil
}

func (in *Interpreter) resolveFunctionDeclaration(stmt naslast.Statement) (naslvalue.Value, error) {
	params := make([]string, 0, len(stmt.Children))
	for _, p := range stmt.Children {
		params = append(params, p.Tok.Lexeme)
	}
	in.register.Insert(stmt.Tok.Lexeme, naslregister.Func(params, *stmt.Body))
	return naslvalue.Null, nil
}

func (in *Interpreter) resolveAttackCategory(stmt naslast.Statement) (naslvalue.Value, error) {
	code, ok := attackCategoryCode(stmt.Tok.Lexeme)
	if !ok {
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.Unreachable, Message: "AttackCategory token carries an unknown ACT_* name"}
	}
	return naslvalue.AttackCategory(int64(code)), nil
}
