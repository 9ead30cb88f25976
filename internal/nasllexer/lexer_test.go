package nasllexer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nasl-runtime/naslrun/internal/nasltoken"
)

func scanCategories(t *testing.T, source string) []nasltoken.Category {
	t.Helper()
	tokens := New([]byte(source)).Tokens()
	require.NotEmpty(t, tokens)
	require.Equal(t, nasltoken.CategoryEOF, tokens[len(tokens)-1].Category)
	cats := make([]nasltoken.Category, 0, len(tokens)-1)
	for _, tok := range tokens[:len(tokens)-1] {
		cats = append(cats, tok.Category)
	}
	return cats
}

func TestLexer_SingleCharTokens(t *testing.T) {
	cats := scanCategories(t, "(){}[],:+")
	require.Equal(t, []nasltoken.Category{
		nasltoken.CategoryLParen, nasltoken.CategoryRParen,
		nasltoken.CategoryLBrace, nasltoken.CategoryRBrace,
		nasltoken.CategoryLBracket, nasltoken.CategoryRBracket,
		nasltoken.CategoryComma, nasltoken.CategoryColon,
		nasltoken.CategoryPlus,
	}, cats)
}

func TestLexer_TwoAndThreeCharOperators(t *testing.T) {
	cats := scanCategories(t, "== != <= >= || && ++ -- >>> =~ !~")
	require.Equal(t, []nasltoken.Category{
		nasltoken.CategoryEq, nasltoken.CategoryNeq,
		nasltoken.CategoryLe, nasltoken.CategoryGe,
		nasltoken.CategoryOrOr, nasltoken.CategoryAndAnd,
		nasltoken.CategoryIncr, nasltoken.CategoryDecr,
		nasltoken.CategoryUShr,
		nasltoken.CategoryMatch, nasltoken.CategoryNotMatch,
	}, cats)
}

func TestLexer_Keywords(t *testing.T) {
	cats := scanCategories(t, "if else for foreach while repeat until break continue return exit include function local_var global_var NULL TRUE FALSE")
	require.Equal(t, []nasltoken.Category{
		nasltoken.CategoryIf, nasltoken.CategoryElse, nasltoken.CategoryFor,
		nasltoken.CategoryForEach, nasltoken.CategoryWhile, nasltoken.CategoryRepeat,
		nasltoken.CategoryUntil, nasltoken.CategoryBreak, nasltoken.CategoryContinue,
		nasltoken.CategoryReturn, nasltoken.CategoryExit, nasltoken.CategoryInclude,
		nasltoken.CategoryFunction, nasltoken.CategoryLocalVar, nasltoken.CategoryGlobalVar,
		nasltoken.CategoryNull, nasltoken.CategoryTrue, nasltoken.CategoryFalse,
	}, cats)
}

func TestLexer_AttackCategory(t *testing.T) {
	cats := scanCategories(t, "ACT_GATHER_INFO")
	require.Equal(t, []nasltoken.Category{nasltoken.CategoryAttackCategory}, cats)
}

func TestLexer_NumbersHexOctalDecimal(t *testing.T) {
	tokens := New([]byte("0x1F 010 42")).Tokens()
	require.Len(t, tokens, 4) // 3 numbers + EOF

	hex, err := Literal(tokens[0])
	require.NoError(t, err)
	require.Equal(t, int64(31), hex)

	oct, err := Literal(tokens[1])
	require.NoError(t, err)
	require.Equal(t, int64(8), oct)

	dec, err := Literal(tokens[2])
	require.NoError(t, err)
	require.Equal(t, int64(42), dec)
}

func TestLexer_DoubleQuotedStringEscapes(t *testing.T) {
	tokens := New([]byte(`"a\nb"`)).Tokens()
	require.Equal(t, nasltoken.CategoryString, tokens[0].Category)
	val, err := Literal(tokens[0])
	require.NoError(t, err)
	require.Equal(t, "a\nb", val)
}

func TestLexer_SingleQuotedDataIsRaw(t *testing.T) {
	tokens := New([]byte(`'a\nb'`)).Tokens()
	require.Equal(t, nasltoken.CategoryData, tokens[0].Category)
	val, err := Literal(tokens[0])
	require.NoError(t, err)
	require.Equal(t, `a\nb`, val)
}

func TestLexer_CommentsAndWhitespaceSkippedButCounted(t *testing.T) {
	tokens := New([]byte("a # comment\nb")).Tokens()
	require.Equal(t, nasltoken.CategoryIdentifier, tokens[0].Category)
	require.Equal(t, nasltoken.CategoryIdentifier, tokens[1].Category)
	require.Equal(t, 2, tokens[1].Position.Line)
}

func TestLexer_UnterminatedStringIsIllegal(t *testing.T) {
	tokens := New([]byte(`"abc`)).Tokens()
	require.Equal(t, nasltoken.CategoryIllegal, tokens[0].Category)
}

func TestLexer_Latin1ByteToleratedInIdentifier(t *testing.T) {
	src := append([]byte("a"), 0xE9) // a + latin-1 'é'
	tokens := New(src).Tokens()
	require.Equal(t, nasltoken.CategoryIdentifier, tokens[0].Category)
	require.Equal(t, string(src), tokens[0].Lexeme)
}
