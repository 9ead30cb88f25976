package nasltoken

import "fmt"

// Position is a 1-indexed line/column pair within the source buffer.
type Position struct {
	Line   int
	Column int
}

// Span is a half-open byte range [Start,End) into the source buffer.
type Span struct {
	Start int
	End   int
}

// Token is a single immutable lexical unit produced by the tokenizer.
type Token struct {
	Category Category
	Lexeme   string
	Span     Span
	Position Position

	// Reason carries the tokenizer's explanation when Category is
	// CategoryIllegal.
	Reason string
}

// String renders the token for diagnostics. Not part of a stable
// public surface.
func (t Token) String() string {
	if t.Category == CategoryIllegal {
		return fmt.Sprintf("%s %q at %d:%d (%s)", t.Category, t.Lexeme, t.Position.Line, t.Position.Column, t.Reason)
	}
	return fmt.Sprintf("%s %q at %d:%d", t.Category, t.Lexeme, t.Position.Line, t.Position.Column)
}

// Len returns the byte length of the token's lexeme span.
func (t Token) Len() int {
	return t.Span.End - t.Span.Start
}
