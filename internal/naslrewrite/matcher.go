package naslrewrite

import "github.com/nasl-runtime/naslrun/internal/naslast"

// matches reports whether s is one of the callable kinds a
// ReplaceCommand can target and satisfies f's name/parameter
// constraints. source is the buffer s was parsed from, needed to read
// a named parameter's literal value text for NameValue matching.
// Grounded on transpile/mod.rs's FunctionNameMatcher.
func matches(f Find, s naslast.Statement, source string) bool {
	if !isCallable(s) {
		return false
	}
	switch f.Kind {
	case FindFunctionByName:
		if s.CalleeName() != f.Name {
			return false
		}
	case FindFunctionByParameter:
		// name unconstrained
	case FindFunctionByNameAndParameter:
		if s.CalleeName() != f.Name {
			return false
		}
	}
	if f.Parameter == nil {
		return true
	}
	named, anon := parameterShape(s, source)
	if len(f.Parameter) != len(named)+anon {
		return false
	}
	for _, w := range f.Parameter {
		switch w.Kind {
		case FindParameterName:
			if _, ok := named[w.Name]; !ok {
				return false
			}
		case FindParameterIndex:
			if w.Index != anon {
				return false
			}
		case FindParameterNameValue:
			if v, ok := named[w.Name]; !ok || v != w.Value {
				return false
			}
		}
	}
	return true
}

func isCallable(s naslast.Statement) bool {
	switch s.Kind {
	case naslast.KindFunctionDeclaration, naslast.KindCall, naslast.KindExit, naslast.KindInclude:
		return true
	default:
		return false
	}
}

// parameterShape returns the named-parameter map (name -> source text
// of its value) and the anonymous-parameter count for a callable
// statement. FunctionDeclaration's anon count is always 0: a
// declaration has no way to know how many anonymous arguments its body
// reads out of _FCT_ANON_ARGS, so a search naming an index against a
// declaration never matches (the same deliberate limitation the
// original algorithm accepts rather than guessing from the body).
func parameterShape(s naslast.Statement, source string) (named map[string]string, anon int) {
	named = map[string]string{}
	switch s.Kind {
	case naslast.KindInclude, naslast.KindExit:
		return named, 1
	case naslast.KindCall:
		for _, p := range s.Args {
			if p.Kind == naslast.KindNamedParameter {
				start, end := p.Expr.Range()
				named[p.Tok.Lexeme] = source[start:end]
			} else {
				anon++
			}
		}
		return named, anon
	case naslast.KindFunctionDeclaration:
		for _, p := range s.Children {
			if p.Kind == naslast.KindVariable {
				named[p.Tok.Lexeme] = ""
			}
		}
		return named, 0
	default:
		return named, 0
	}
}
