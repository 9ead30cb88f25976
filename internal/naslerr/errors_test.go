package naslerr

import (
	"errors"
	"testing"
)

func TestRetriable_MatchesRetryableKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"load retry", &LoadError{Kind: LoadRetry, Err: errors.New("x")}, true},
		{"load not found", &LoadError{Kind: LoadNotFound, Err: errors.New("x")}, false},
		{"storage retry", &StorageError{Kind: StorageRetry, Err: errors.New("x")}, true},
		{"storage fatal", &StorageError{Kind: StorageFatal, Err: errors.New("x")}, false},
		{"io interrupted", &IOError{Kind: IOInterrupted, Err: errors.New("x")}, true},
		{"io other", &IOError{Kind: IOOther, Err: errors.New("x")}, false},
		{"syntax error", &SyntaxError{Message: "bad token"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Retriable(c.err); got != c.want {
				t.Errorf("Retriable(%v) = %v, want %v", c.err, got, c.want)
			}
		})
	}
}

func TestRetriable_SeesThroughWrappedErrors(t *testing.T) {
	inner := &LoadError{Kind: LoadRetry, Err: errors.New("timeout")}
	wrapped := &UpdateError{Key: "foo.nasl", Kind: UpdateLoadError, Err: inner}
	if !Retriable(wrapped) {
		t.Fatal("expected Retriable to unwrap UpdateError down to the LoadError")
	}
}

func TestInterpretError_WithOriginSetsOnceOnly(t *testing.T) {
	base := &InterpretError{Kind: Unreachable, Message: "boom"}
	first := base.WithOrigin("stmt-a")
	if first.Origin != "stmt-a" {
		t.Fatalf("expected origin to be set, got %q", first.Origin)
	}

	second := first.WithOrigin("stmt-b")
	if second.Origin != "stmt-a" {
		t.Fatalf("expected origin to stay at the deepest catch, got %q", second.Origin)
	}
	if base.Origin != "" {
		t.Fatal("WithOrigin must not mutate the receiver")
	}
}

func TestInterpretError_ErrorStringIncludesOriginWhenSet(t *testing.T) {
	e := &InterpretError{Kind: WrongCategory, Message: "not a number"}
	if got := e.Error(); got != `interpret error (WrongCategory): not a number` {
		t.Errorf("Error() = %q", got)
	}

	annotated := e.WithOrigin("Call(foo)[0:5]")
	if got := annotated.Error(); got != `interpret error (WrongCategory) at Call(foo)[0:5]: not a number` {
		t.Errorf("Error() with origin = %q", got)
	}
}

func TestUpdateError_ErrorStringFallsBackToKindWhenNoInnerErr(t *testing.T) {
	e := &UpdateError{Key: "bar.nasl", Kind: MissingExit}
	if got := e.Error(); got != `update "bar.nasl": missing exit` {
		t.Errorf("Error() = %q", got)
	}
}
