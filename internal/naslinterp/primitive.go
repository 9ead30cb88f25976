package naslinterp

import (
	"fmt"

	"github.com/nasl-runtime/naslrun/internal/naslast"
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/nasllexer"
	"github.com/nasl-runtime/naslrun/internal/naslparser"
	"github.com/nasl-runtime/naslrun/internal/nasltoken"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// primitiveFromToken converts a literal token's category to a Value,
// per spec §4.3's "Primitive: convert token category to a value".
func primitiveFromToken(tok nasltoken.Token) (naslvalue.Value, error) {
	switch tok.Category {
	case nasltoken.CategoryNull:
		return naslvalue.Null, nil
	case nasltoken.CategoryTrue:
		return naslvalue.Num(1), nil // spec §6: TRUE -> Number(1)
	case nasltoken.CategoryFalse:
		return naslvalue.Num(0), nil // spec §6: FALSE -> Number(0)
	case nasltoken.CategoryNumber:
		lit, err := nasllexer.Literal(tok)
		if err != nil {
			return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.WrongCategory, Message: err.Error()}
		}
		return naslvalue.Num(lit.(int64)), nil
	case nasltoken.CategoryString:
		lit, err := nasllexer.Literal(tok)
		if err != nil {
			return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.WrongCategory, Message: err.Error()}
		}
		return naslvalue.Str(lit.(string)), nil
	case nasltoken.CategoryData:
		lit, err := nasllexer.Literal(tok)
		if err != nil {
			return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.WrongCategory, Message: err.Error()}
		}
		return naslvalue.Data(lit.(string)), nil
	default:
		return naslvalue.Null, &naslerr.InterpretError{Kind: naslerr.WrongCategory, Message: fmt.Sprintf("token category %s is not a primitive", tok.Category)}
	}
}

func attackCategoryCode(lexeme string) (int, bool) {
	code, ok := nasltoken.AttackCategories[lexeme]
	return code, ok
}

// parseSource parses a full source buffer, keeping only successful
// top-level statements — the same contract the code rewriter's
// statement cache uses (spec §4.5 step 1), reused here by Include.
func parseSource(src []byte) ([]naslast.Statement, error) {
	stmts, errs := naslparser.New(src).All()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return stmts, nil
}
