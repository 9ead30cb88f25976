package naslast

import "fmt"

var kindNames = map[Kind]string{
	KindPrimitive:           "Primitive",
	KindVariable:            "Variable",
	KindArray:               "Array",
	KindParameter:           "Parameter",
	KindNamedParameter:      "NamedParameter",
	KindCall:                "Call",
	KindInclude:             "Include",
	KindExit:                "Exit",
	KindReturn:              "Return",
	KindAssign:              "Assign",
	KindOperator:            "Operator",
	KindIf:                  "If",
	KindFor:                 "For",
	KindWhile:               "While",
	KindRepeat:              "Repeat",
	KindForEach:             "ForEach",
	KindFunctionDeclaration: "FunctionDeclaration",
	KindBlock:               "Block",
	KindDeclare:             "Declare",
	KindAttackCategory:      "AttackCategory",
	KindContinue:            "Continue",
	KindBreak:               "Break",
	KindNoOp:                "NoOp",
	KindEoF:                 "EoF",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// String renders a one-line summary of the statement. No stability
// guarantee — debugging aid only, not the "stable public surface"
// spec.md's Non-goals exclude.
func (s Statement) String() string {
	start, end := s.Range()
	switch s.Kind {
	case KindCall, KindFunctionDeclaration:
		return fmt.Sprintf("%s(%s)[%d:%d]", s.Kind, s.Tok.Lexeme, start, end)
	case KindVariable, KindAttackCategory:
		return fmt.Sprintf("%s(%s)[%d:%d]", s.Kind, s.Tok.Lexeme, start, end)
	default:
		return fmt.Sprintf("%s[%d:%d]", s.Kind, start, end)
	}
}

// GoString implements fmt.GoStringer for %#v debugging.
func (s Statement) GoString() string {
	return fmt.Sprintf("naslast.Statement{%s}", s.String())
}
