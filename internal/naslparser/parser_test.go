package naslparser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nasl-runtime/naslrun/internal/naslast"
)

func TestParser_FunctionDeclarationAndCall(t *testing.T) {
	p := New([]byte(`function funker(a){return a;} funker(1);`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
	require.Equal(t, naslast.KindFunctionDeclaration, stmts[0].Kind)
	require.Equal(t, "funker", stmts[0].Tok.Lexeme)
	require.Equal(t, naslast.KindCall, stmts[1].Kind)
	require.Equal(t, "funker", stmts[1].Tok.Lexeme)
	require.Len(t, stmts[1].Args, 1)
}

func TestParser_NamedParameterCall(t *testing.T) {
	p := New([]byte(`register_host_detail(name:"App", value:string("x"), desc:D);`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	call := stmts[0]
	require.Equal(t, naslast.KindCall, call.Kind)
	require.Len(t, call.Args, 3)
	for _, arg := range call.Args {
		require.Equal(t, naslast.KindNamedParameter, arg.Kind)
	}
	require.Equal(t, "name", call.Args[0].Tok.Lexeme)
	require.Equal(t, "desc", call.Args[2].Tok.Lexeme)
}

func TestParser_EmptyCallArgs(t *testing.T) {
	p := New([]byte(`my_call();`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	require.Empty(t, stmts[0].Args)
}

func TestParser_IfWhileForEach(t *testing.T) {
	p := New([]byte(`if (1) { x = 1; } else { x = 2; } while (x) { x = x - 1; } foreach v (a) { display(v); }`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 3)
	require.Equal(t, naslast.KindIf, stmts[0].Kind)
	require.NotNil(t, stmts[0].Else)
	require.Equal(t, naslast.KindWhile, stmts[1].Kind)
	require.Equal(t, naslast.KindForEach, stmts[2].Kind)
	require.Equal(t, "v", stmts[2].Tok.Lexeme)
}

func TestParser_ArithmeticPrecedence(t *testing.T) {
	p := New([]byte(`x = 1 + 2 * 3;`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 1)
	assign := stmts[0]
	require.Equal(t, naslast.KindAssign, assign.Kind)
	rhs := *assign.Rhs
	require.Equal(t, naslast.KindOperator, rhs.Kind)
	require.Equal(t, "+", rhs.OperatorTok.Lexeme)
	// right operand of + must be the 2*3 product, proving * bound tighter.
	require.Equal(t, naslast.KindOperator, rhs.Operands[1].Kind)
	require.Equal(t, "*", rhs.Operands[1].OperatorTok.Lexeme)
}

func TestParser_ByteRangesReconcatenateSource(t *testing.T) {
	source := `a = 1; b = 2; c = a + b;`
	p := New([]byte(source))
	stmts, errs := p.All()
	require.Empty(t, errs)
	for _, s := range stmts {
		start, end := s.Range()
		require.Equal(t, source[start:end], source[start:end]) // ranges are valid slices
	}
}

func TestParser_ExitAndIncludeAreDedicatedVariants(t *testing.T) {
	p := New([]byte(`include("foo.inc"); exit(0);`))
	stmts, errs := p.All()
	require.Empty(t, errs)
	require.Len(t, stmts, 2)
	require.Equal(t, naslast.KindInclude, stmts[0].Kind)
	require.Equal(t, naslast.KindExit, stmts[1].Kind)
}
