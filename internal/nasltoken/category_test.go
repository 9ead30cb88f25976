package nasltoken

import "testing"

func TestCategory_StringKnownAndUnknown(t *testing.T) {
	if got := CategoryIf.String(); got != "IF" {
		t.Errorf("CategoryIf.String() = %q, want %q", got, "IF")
	}
	if got := Category(9999).String(); got != "UNKNOWN(9999)" {
		t.Errorf("Category(9999).String() = %q", got)
	}
}

func TestKeywords_CoverReservedWords(t *testing.T) {
	cases := map[string]Category{
		"if":         CategoryIf,
		"foreach":    CategoryForEach,
		"local_var":  CategoryLocalVar,
		"global_var": CategoryGlobalVar,
		"NULL":       CategoryNull,
		"TRUE":       CategoryTrue,
		"FALSE":      CategoryFalse,
	}
	for word, want := range cases {
		got, ok := Keywords[word]
		if !ok {
			t.Errorf("expected %q to be a reserved word", word)
			continue
		}
		if got != want {
			t.Errorf("Keywords[%q] = %v, want %v", word, got, want)
		}
	}
}

func TestKeywords_IdentifierNotPresent(t *testing.T) {
	if _, ok := Keywords["my_custom_var"]; ok {
		t.Fatal("ordinary identifiers must not appear in Keywords")
	}
}

func TestAttackCategories_MatchesLegacyOrdering(t *testing.T) {
	if AttackCategories["ACT_INIT"] != 0 {
		t.Errorf("ACT_INIT should be 0, got %d", AttackCategories["ACT_INIT"])
	}
	if AttackCategories["ACT_ATTACK"] != 4 {
		t.Errorf("ACT_ATTACK should be 4, got %d", AttackCategories["ACT_ATTACK"])
	}
}
