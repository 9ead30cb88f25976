package naslrewrite

import (
	"fmt"
	"unicode"

	"github.com/nasl-runtime/naslrun/internal/naslast"
)

// pushParameter appends p to the end of s's parameter list, just
// before the closing paren. Grounded on transpile/mod.rs's
// push_parameter.
func (c *codeReplacer) pushParameter(s naslast.Statement, p Parameter) {
	params, _ := paramListOf(s)
	isOnly := len(params) == 0
	var newText string
	switch s.Kind {
	case naslast.KindFunctionDeclaration:
		if !p.Named {
			return // anon parameters make no sense on a declaration
		}
		if isOnly {
			newText = p.Name
		} else {
			newText = ", " + p.Name
		}
	case naslast.KindCall:
		if isOnly {
			if p.Named {
				newText = fmt.Sprintf("%s: %s", p.Name, p.Value)
			} else {
				newText = p.Value
			}
		} else {
			if p.Named {
				newText = fmt.Sprintf(", %s: %s", p.Name, p.Value)
			} else {
				newText = ", " + p.Value
			}
		}
	default:
		return
	}
	closePos := s.ClosePar.Span
	ns, ne := c.rangeWithOffset(closePos.Start, closePos.End)
	before := c.code[ns:ne]
	c.replaceRange(ns, ne, newText+before, closePos.Start, closePos.End)
}

// asToken returns the statement's own single identifying token span,
// when it has one (Variable, Primitive, or a NamedParameter's name);
// the unknown-index insertion path is used otherwise. Mirrors
// transpile/mod.rs's Statement::as_token — a NamedParameter counts
// here because inserting before it only needs to replace its name
// token, not its whole "name: value" span.
func asToken(s naslast.Statement) (int, int, bool) {
	switch s.Kind {
	case naslast.KindVariable, naslast.KindPrimitive, naslast.KindNamedParameter:
		return s.Tok.Span.Start, s.Tok.Span.End, true
	default:
		return 0, 0, false
	}
}

// addParameter inserts p at index i of s's parameter list, silently
// no-op'ing if i is past the end of the list (can't leave a gap), and silently
// dropping Anon parameters targeted at a FunctionDeclaration (a
// declaration has no anonymous-parameter slots). Grounded on
// transpile/mod.rs's add_parameter.
func (c *codeReplacer) addParameter(s naslast.Statement, i int, p Parameter) {
	params, ok := paramListOf(s)
	if !ok {
		return
	}
	if i > len(params) && i != 0 {
		return
	}
	isCall := s.Kind == naslast.KindCall

	var newText string
	var known, ok2 bool
	var pos, posEnd int
	if i < len(params) {
		if start, end, isTok := asToken(params[i]); isTok {
			known = true
			pos, posEnd = start, end
			newText, ok2 = knownIndexText(isCall, p)
		}
	}
	if !known {
		// no simple token to splice in front of at i (either i is past
		// the end, or params[i] has no single-token form): fall back to
		// inserting just before the closing paren, same as an append.
		empty := len(params) == 0
		pos, posEnd = s.ClosePar.Span.Start, s.ClosePar.Span.End
		newText, ok2 = unknownIndexText(isCall, empty, p)
	}
	if !ok2 {
		return
	}

	ns, ne := c.rangeWithOffset(pos, posEnd)
	before := c.code[ns:ne]
	c.replaceRange(ns, ne, newText+before, pos, posEnd)
}

func knownIndexText(isCall bool, p Parameter) (string, bool) {
	switch {
	case isCall && p.Named:
		return fmt.Sprintf("%s: %s, ", p.Name, p.Value), true
	case isCall && !p.Named:
		return p.Value + ", ", true
	case !isCall && p.Named:
		return p.Name + ", ", true
	default: // declaration + anon: not representable, no-op
		return "", false
	}
}

func unknownIndexText(isCall, empty bool, p Parameter) (string, bool) {
	switch {
	case isCall && empty && p.Named:
		return fmt.Sprintf("%s: %s", p.Name, p.Value), true
	case isCall && !empty && p.Named:
		return fmt.Sprintf(", %s: %s", p.Name, p.Value), true
	case isCall && !empty && !p.Named:
		return ", " + p.Value, true
	case isCall && empty && !p.Named:
		return p.Value, true
	case !isCall && empty && p.Named:
		return p.Name, true
	case !isCall && !empty && p.Named:
		return ", " + p.Name, true
	default: // declaration + anon, any fill state
		return "", false
	}
}

// removeParameter deletes the single parameter statement p, eating a
// following comma (or a preceding comma if p was the last parameter)
// so the remaining list doesn't end up with a dangling separator.
// Grounded on transpile/mod.rs's remove_parameter.
func (c *codeReplacer) removeParameter(p naslast.Statement) {
	start, end := p.Range()
	ns, ne := c.rangeWithOffset(start, end)

	trailing := 0
	last := rune(0)
	for _, ch := range c.code[ne:] {
		if unicode.IsSpace(ch) || ch == ',' || ch == ')' {
			trailing++
			last = ch
			continue
		}
		break
	}

	var newStart, newEnd int
	if last == ')' {
		leading := 0
		lastLeading := rune(0)
		runes := []rune(c.code[:ns])
		for i := len(runes) - 1; i >= 0; i-- {
			ch := runes[i]
			if unicode.IsSpace(ch) || ch == ',' || ch == '(' {
				leading++
				lastLeading = ch
				continue
			}
			break
		}
		isOnlyParameter := lastLeading == '('
		if isOnlyParameter {
			newStart, newEnd = ns, ne
		} else {
			newStart, newEnd = ns-leading, ne
		}
	} else {
		newStart, newEnd = ns, ne+trailing
	}

	c.replaceRange(newStart, newEnd, "", newStart, newEnd)
}

func (c *codeReplacer) removeIndexedParameter(params []naslast.Statement, i int) {
	if i < 0 || i >= len(params) {
		return
	}
	c.removeParameter(params[i])
}

func (c *codeReplacer) removeNamedParameter(s naslast.Statement, wanted string) {
	if p, ok := findNamedParameter(s, wanted); ok {
		c.removeParameter(p)
	}
}

// renameParameter splices just the name token of the named parameter
// found within s, leaving its value untouched. Grounded on
// transpile/mod.rs's rename_parameter.
func (c *codeReplacer) renameParameter(s naslast.Statement, previous, newName string) {
	p, ok := findNamedParameter(s, previous)
	if !ok {
		return
	}
	c.replaceRangeWithOffset(newName, p.Tok.Span.Start, p.Tok.Span.End)
}
