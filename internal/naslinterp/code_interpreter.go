package naslinterp

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// CodeInterpreter drives a parsed statement stream against a root
// Interpreter to completion, folding cooperative-fork siblings into
// the rotation as they appear (spec §4.3.1, grounded on
// original_source's fork_interpreter.rs). Each Next call resolves one
// top-level statement against one live interpreter and returns its
// value; callers drain it in a loop until ok is false.
type CodeInterpreter struct {
	statements   []naslast.Statement
	interpreters []*Interpreter
	halted       []bool
	stmtIdx      int
	liveIdx      int
	maxRetries   int
	done         bool
	pending      []pendingResult

	// ExitCode is set once a resolved statement yields Exit; the
	// driver stops scheduling further statements once it is non-nil.
	ExitCode *int64
}

type pendingResult struct {
	stmt naslast.Statement
	v    naslvalue.Value
	err  error
}

// NewCodeInterpreter builds a driver seeded with root as the only live
// interpreter.
func NewCodeInterpreter(root *Interpreter, statements []naslast.Statement, maxRetries int) *CodeInterpreter {
	return &CodeInterpreter{
		statements:   statements,
		interpreters: []*Interpreter{root},
		halted:       []bool{false},
		maxRetries:   maxRetries,
	}
}

// Next resolves the next (statement, interpreter) pair in rotation.
// ok is false once every live interpreter has finished every statement
// or the script has exited.
func (c *CodeInterpreter) Next() (stmt naslast.Statement, v naslvalue.Value, err error, ok bool) {
	if len(c.pending) > 0 {
		p := c.pending[0]
		c.pending = c.pending[1:]
		return p.stmt, p.v, p.err, true
	}

	for {
		if c.done || c.stmtIdx >= len(c.statements) {
			c.done = true
			return naslast.Statement{}, naslvalue.Null, nil, false
		}
		if c.liveIdx >= len(c.interpreters) {
			c.liveIdx = 0
			c.stmtIdx++
			continue
		}
		if c.halted[c.liveIdx] {
			c.liveIdx++
			continue
		}

		interp := c.interpreters[c.liveIdx]
		current := c.statements[c.stmtIdx]

		v, err := interp.RetryResolveNext(current, c.maxRetries)
		c.absorbForks(interp, current)
		c.applyControl(c.liveIdx, v)
		c.liveIdx++
		return current, v, err, true
	}
}

// absorbForks drains every sibling interpreter spawned while resolving
// current, seeds each one's cursor so it replays current from the top
// (in skip mode, up to its preset fork point), and folds it into the
// rotation. Appended after the live interpreters, each sibling gets its
// turn on current later in the same pass, then on every statement from
// here on.
func (c *CodeInterpreter) absorbForks(interp *Interpreter, current naslast.Statement) {
	for sib := interp.NextInterpreter(); sib != nil; sib = interp.NextInterpreter() {
		sib.seedPosition(c.stmtIdx)
		c.interpreters = append(c.interpreters, sib)
		c.halted = append(c.halted, false)
	}
}

// applyControl interprets a resolved value's control-flow meaning: a
// top-level Return halts just that interpreter (the decided resolution
// of spec §9's Open Question: a top-level return ends that
// interpreter's stream, not the whole script); an Exit halts the whole
// driver.
func (c *CodeInterpreter) applyControl(idx int, v naslvalue.Value) {
	switch v.Kind {
	case naslvalue.KindReturn:
		c.halted[idx] = true
	case naslvalue.KindExit:
		code := v.Number
		c.ExitCode = &code
		c.done = true
	}
}
