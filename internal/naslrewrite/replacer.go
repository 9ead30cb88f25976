package naslrewrite

import (
	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslparser"
)

// splitOffset records that every position at or after pos in the
// original (pre-edit) buffer shifted by delta bytes once mapped onto
// the current, possibly already-edited, code buffer.
type splitOffset struct {
	pos   int
	delta int64
}

// codeReplacer applies one ReplaceCommand's matches against a single
// copy of the source, tracking the cumulative offset each edit
// introduces so later edits (found against the *original*, unedited
// statement positions) still land correctly. Grounded on
// transpile/mod.rs's CodeReplacer.
type codeReplacer struct {
	offsets []splitOffset
	code    string
	changed bool
}

// rangeWithOffset translates an original-buffer byte range into the
// corresponding range in the current, possibly shifted, code buffer.
func (c *codeReplacer) rangeWithOffset(start, end int) (int, int) {
	var offset int64
	for _, o := range c.offsets {
		if o.pos < start {
			offset += o.delta
		}
	}
	return int(int64(start) + offset), int(int64(end) + offset)
}

// replaceRangeWithOffset replaces the text at an original-buffer
// position with new, after translating that position through the
// offsets accumulated so far.
func (c *codeReplacer) replaceRangeWithOffset(newText string, start, end int) {
	ns, ne := c.rangeWithOffset(start, end)
	c.replaceRange(ns, ne, newText, start, end)
}

// replaceRange splices newText into [start,end) of the current buffer
// and records the resulting length delta so future translations stay
// correct. The asymmetric recording point (shrink records at the new,
// post-edit start; growth records at the original, pre-edit start) is
// the exact rule transpile/mod.rs's replace_range uses: it keeps a
// shrink from swallowing text that appears before it and a growth from
// displacing text that appears at or after the edit's original start.
func (c *codeReplacer) replaceRange(start, end int, newText string, origStart, origEnd int) {
	c.code = c.code[:start] + newText + c.code[end:]
	c.changed = true
	delta := int64(len(newText)) - int64(origEnd-origStart)
	switch {
	case delta < 0:
		c.offsets = append(c.offsets, splitOffset{pos: start, delta: delta})
	case delta > 0:
		c.offsets = append(c.offsets, splitOffset{pos: origStart, delta: delta})
	}
}

// replaceAsString applies r to the statement s matched within the
// current buffer.
func (c *codeReplacer) replaceAsString(s naslast.Statement, r Replace) error {
	switch r.Kind {
	case ReplaceRemove:
		start, end := s.Range()
		c.replaceRangeWithOffset("", start, end)
		return nil
	case ReplaceName:
		switch s.Kind {
		case naslast.KindFunctionDeclaration, naslast.KindCall:
			c.replaceRangeWithOffset(r.Name, s.Tok.Span.Start, s.Tok.Span.End)
			return nil
		case naslast.KindExit, naslast.KindInclude:
			// the keyword token itself names the callee for these two
			// kinds; they carry it in Start rather than Tok.
			c.replaceRangeWithOffset(r.Name, s.Start.Span.Start, s.Start.Span.End)
			return nil
		default:
			return &UnsupportedError{With: r}
		}
	case ReplaceParameter:
		return c.replaceParameter(s, r.Parameter)
	default:
		return &UnsupportedError{With: r}
	}
}

func (c *codeReplacer) replaceParameter(s naslast.Statement, op ParameterOperation) error {
	params, ok := paramListOf(s)
	if !ok {
		return &UnsupportedError{With: ParameterReplacement(op)}
	}
	switch op.Kind {
	case ParamPush:
		c.pushParameter(s, op.Param)
	case ParamAdd:
		c.addParameter(s, op.Index, op.Param)
	case ParamRemove:
		c.removeIndexedParameter(params, op.Index)
	case ParamRemoveNamed:
		c.removeNamedParameter(s, op.Name)
	case ParamRename:
		c.renameParameter(s, op.Name, op.New)
	case ParamRemoveAll:
		if len(params) > 0 {
			start, _ := params[0].Range()
			_, end := params[len(params)-1].Range()
			c.replaceRangeWithOffset("", start, end)
		}
	}
	return nil
}

// paramListOf returns the flat parameter-statement list of a callable
// statement, and whether Parameter ops are even supported on its kind.
func paramListOf(s naslast.Statement) ([]naslast.Statement, bool) {
	switch s.Kind {
	case naslast.KindFunctionDeclaration:
		return s.Children, true
	case naslast.KindCall:
		return s.Args, true
	case naslast.KindExit, naslast.KindInclude:
		return nil, false
	default:
		return nil, false
	}
}

// findNamedParameter returns the parameter statement (Variable or
// NamedParameter) inside s whose name is wanted, or ok=false.
func findNamedParameter(s naslast.Statement, wanted string) (naslast.Statement, bool) {
	params, ok := paramListOf(s)
	if !ok {
		return naslast.Statement{}, false
	}
	for _, p := range params {
		if (p.Kind == naslast.KindVariable || p.Kind == naslast.KindNamedParameter) && p.Tok.Lexeme == wanted {
			return p, true
		}
	}
	return naslast.Statement{}, false
}

// ReplaceAll applies every command in order against code, reparsing
// only when the previous command actually changed the buffer.
// Grounded on transpile/mod.rs's CodeReplacer::replace.
func ReplaceAll(code string, commands []ReplaceCommand) (string, error) {
	var cached []naslast.Statement
	for _, cmd := range commands {
		replacer := &codeReplacer{code: code}
		if cached == nil {
			stmts, _ := naslparser.New([]byte(code)).All()
			cached = stmts
		}
		for _, top := range cached {
			for _, s := range top.Find(func(st naslast.Statement) bool { return matches(cmd.Find, st, code) }) {
				if err := replacer.replaceAsString(s, cmd.With); err != nil {
					return "", err
				}
			}
		}
		if replacer.changed {
			cached = nil
			code = replacer.code
		}
	}
	return code, nil
}
