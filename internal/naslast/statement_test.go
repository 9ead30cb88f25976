package naslast

import (
	"testing"

	"github.com/nasl-runtime/naslrun/internal/nasltoken"
)

func tok(lexeme string, start, end int) nasltoken.Token {
	return nasltoken.Token{Lexeme: lexeme, Span: nasltoken.Span{Start: start, End: end}}
}

func TestRange_SpansFirstToLastToken(t *testing.T) {
	s := Statement{Kind: KindBlock, Start: tok("{", 0, 1), End: tok("}", 20, 21)}
	start, end := s.Range()
	if start != 0 || end != 21 {
		t.Fatalf("Range() = (%d, %d), want (0, 21)", start, end)
	}
}

func TestFind_VisitsDepthFirstPreOrder(t *testing.T) {
	leaf1 := Statement{Kind: KindVariable, Tok: tok("a", 0, 1)}
	leaf2 := Statement{Kind: KindVariable, Tok: tok("b", 2, 3)}
	call := Statement{Kind: KindCall, Tok: tok("f", 4, 5), Args: []Statement{leaf1, leaf2}}
	block := Statement{Kind: KindBlock, Children: []Statement{call}}

	var names []string
	found := block.Find(func(s Statement) bool {
		return s.Kind == KindCall || s.Kind == KindVariable
	})
	for _, f := range found {
		names = append(names, f.Tok.Lexeme)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 matches, got %d: %v", len(found), names)
	}
	if found[0].Kind != KindCall || names[1] != "a" || names[2] != "b" {
		t.Fatalf("expected pre-order call,a,b; got %v", names)
	}
}

func TestFind_WalksEveryOptionalChildSlot(t *testing.T) {
	target := Statement{Kind: KindVariable, Tok: tok("target", 0, 1)}
	ifStmt := Statement{
		Kind: KindIf,
		Cond: &Statement{Kind: KindOperator, Operands: []Statement{target}},
		Then: &Statement{Kind: KindBlock},
	}

	found := ifStmt.Find(func(s Statement) bool { return s.Kind == KindVariable })
	if len(found) != 1 || found[0].Tok.Lexeme != "target" {
		t.Fatalf("expected to find the operand nested under Cond, got %v", found)
	}
}

func TestCalleeName(t *testing.T) {
	cases := []struct {
		s    Statement
		want string
	}{
		{Statement{Kind: KindCall, Tok: tok("my_func", 0, 7)}, "my_func"},
		{Statement{Kind: KindFunctionDeclaration, Tok: tok("my_func", 0, 7)}, "my_func"},
		{Statement{Kind: KindInclude}, "include"},
		{Statement{Kind: KindExit}, "exit"},
		{Statement{Kind: KindBlock}, ""},
	}
	for _, c := range cases {
		if got := c.s.CalleeName(); got != c.want {
			t.Errorf("CalleeName() = %q, want %q", got, c.want)
		}
	}
}

func TestKindString_KnownAndUnknown(t *testing.T) {
	if got := KindCall.String(); got != "Call" {
		t.Errorf("KindCall.String() = %q, want %q", got, "Call")
	}
	if got := Kind(9999).String(); got != "Kind(9999)" {
		t.Errorf("Kind(9999).String() = %q", got)
	}
}

func TestStatementString_IncludesLexemeForNamedKinds(t *testing.T) {
	s := Statement{Kind: KindCall, Tok: tok("scanme", 0, 6), End: tok("", 6, 7)}
	got := s.String()
	if got != "Call(scanme)[0:7]" {
		t.Errorf("String() = %q, want %q", got, "Call(scanme)[0:7]")
	}
}
