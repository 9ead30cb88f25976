package naslstdlib

import (
	"fmt"
	"testing"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// capturingLogger mimics zap.SugaredLogger's template/args formatting
// (Sprintf when args are given) so tests can assert on the rendered
// line without pulling in zap itself.
type capturingLogger struct{ lines []string }

func (l *capturingLogger) Debugf(string, ...interface{}) {}
func (l *capturingLogger) Infof(template string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(template, args...))
}
func (l *capturingLogger) Warnf(string, ...interface{})  {}
func (l *capturingLogger) Errorf(string, ...interface{}) {}
func (l *capturingLogger) With(...interface{}) nasllog.Logger { return l }

type fakeNVTStorage struct {
	fields map[string]naslregister.Field
}

func newFakeNVTStorage() *fakeNVTStorage {
	return &fakeNVTStorage{fields: make(map[string]naslregister.Field)}
}

func (s *fakeNVTStorage) Dispatch(key string, f naslregister.Field) error        { return nil }
func (s *fakeNVTStorage) DispatchReplace(key string, f naslregister.Field) error { return nil }
func (s *fakeNVTStorage) Retrieve(key string, r naslregister.Retrieve) ([]naslregister.Field, error) {
	return nil, nil
}
func (s *fakeNVTStorage) DescriptionScriptFinished(key string) error { return nil }
func (s *fakeNVTStorage) CacheNVTField(key string, f naslregister.Field) error {
	s.fields[f.Name] = f
	return nil
}

func nvtContext(storage *fakeNVTStorage) *naslregister.Context {
	return naslregister.NewContext("k", "", storage, nil, nasllog.NoOp(), nil)
}

func TestScriptField_CachesUnderName(t *testing.T) {
	storage := newFakeNVTStorage()
	ctx := nvtContext(storage)

	reg := registerWithAnonArgs(naslvalue.Str("1.3.6.1.4.1.25623.1.0.12345"))
	if _, err := scriptField("oid")(reg, ctx); err != nil {
		t.Fatal(err)
	}
	if storage.fields["oid"].Value.Str != "1.3.6.1.4.1.25623.1.0.12345" {
		t.Errorf("script_oid did not cache expected value, got %+v", storage.fields["oid"])
	}
}

func TestScriptVariadicField_CachesWholeArray(t *testing.T) {
	storage := newFakeNVTStorage()
	ctx := nvtContext(storage)

	reg := registerWithAnonArgs(naslvalue.Num(80), naslvalue.Num(443))
	if _, err := scriptVariadicField("require_ports")(reg, ctx); err != nil {
		t.Fatal(err)
	}
	v := storage.fields["require_ports"].Value
	if v.Kind != naslvalue.KindArray || len(v.Array) != 2 {
		t.Fatalf("expected a 2-element array, got %+v", v)
	}
}

func TestScriptTag_PrefixesNameWithTag(t *testing.T) {
	storage := newFakeNVTStorage()
	ctx := nvtContext(storage)

	reg := registerWithAnonArgs(naslvalue.Str("solution"), naslvalue.Str("upgrade"))
	if _, err := scriptTag(reg, ctx); err != nil {
		t.Fatal(err)
	}
	if storage.fields["tag:solution"].Value.Str != "upgrade" {
		t.Errorf("script_tag did not cache under 'tag:solution', got %+v", storage.fields["tag:solution"])
	}
}

func TestTypeofFn(t *testing.T) {
	reg := registerWithAnonArgs(naslvalue.Str("x"))
	v, err := typeofFn(reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "string" {
		t.Errorf("typeof(\"x\") = %q, want %q", v.Str, "string")
	}
}

func TestDisplayFn_ReturnsNullAndDoesNotPanic(t *testing.T) {
	storage := newFakeNVTStorage()
	ctx := nvtContext(storage)
	reg := registerWithAnonArgs(naslvalue.Str("a"), naslvalue.Num(1))

	v, err := displayFn(reg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindNull {
		t.Errorf("display(...) = %+v, want Null", v)
	}
}

func TestDisplayFn_PercentInContentIsNotATemplateVerb(t *testing.T) {
	storage := newFakeNVTStorage()
	logger := &capturingLogger{}
	ctx := naslregister.NewContext("k", "", storage, nil, logger, nil)
	reg := registerWithAnonArgs(naslvalue.Str("progress: 50% done"))

	if _, err := displayFn(reg, ctx); err != nil {
		t.Fatal(err)
	}
	if len(logger.lines) != 1 || logger.lines[0] != "progress: 50% done" {
		t.Fatalf("expected literal content preserved, got %+v", logger.lines)
	}
}
