package naslstdlib

import (
	"testing"

	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

type fakeKBStorage struct {
	items map[string][]naslregister.Field
}

func newFakeKBStorage() *fakeKBStorage {
	return &fakeKBStorage{items: make(map[string][]naslregister.Field)}
}

func (s *fakeKBStorage) Dispatch(key string, f naslregister.Field) error {
	s.items[f.Name] = append(s.items[f.Name], f)
	return nil
}

func (s *fakeKBStorage) DispatchReplace(key string, f naslregister.Field) error {
	s.items[f.Name] = []naslregister.Field{f}
	return nil
}

func (s *fakeKBStorage) Retrieve(key string, r naslregister.Retrieve) ([]naslregister.Field, error) {
	return s.items[r.Name], nil
}

func (s *fakeKBStorage) DescriptionScriptFinished(key string) error { return nil }

func (s *fakeKBStorage) CacheNVTField(key string, f naslregister.Field) error { return nil }

func contextWithStorage(storage naslregister.Storage) *naslregister.Context {
	return naslregister.NewContext("k", "", storage, nil, nil, nil)
}

func TestSetKBItem_ThenGetKBItem(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	reg := registerWithAnonArgs(naslvalue.Str("login/port"), naslvalue.Num(22))
	if _, err := setKBItem(reg, ctx); err != nil {
		t.Fatal(err)
	}

	getReg := registerWithAnonArgs(naslvalue.Str("login/port"))
	v, err := getKBItem(getReg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Number != 22 {
		t.Errorf("get_kb_item = %v, want 22", v)
	}
}

func TestGetKBItem_MissingReturnsNull(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	getReg := registerWithAnonArgs(naslvalue.Str("nope"))
	v, err := getKBItem(getReg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindNull {
		t.Errorf("get_kb_item on missing name = %+v, want Null", v)
	}
}

func TestGetKBItem_MultivaluedProducesFork(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	for _, port := range []int64{80, 443} {
		reg := registerWithAnonArgs(naslvalue.Str("http/port"), naslvalue.Num(port))
		if _, err := setKBItem(reg, ctx); err != nil {
			t.Fatal(err)
		}
	}

	getReg := registerWithAnonArgs(naslvalue.Str("http/port"))
	v, err := getKBItem(getReg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindFork || len(v.ForkValues) != 2 {
		t.Fatalf("expected a 2-way fork, got %+v", v)
	}
}

func TestReplaceKBItem_OverwritesPriorValues(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	for _, port := range []int64{80, 443} {
		reg := registerWithAnonArgs(naslvalue.Str("http/port"), naslvalue.Num(port))
		if _, err := setKBItem(reg, ctx); err != nil {
			t.Fatal(err)
		}
	}

	replaceReg := registerWithAnonArgs(naslvalue.Str("http/port"), naslvalue.Num(8080))
	if _, err := replaceKBItem(replaceReg, ctx); err != nil {
		t.Fatal(err)
	}

	getReg := registerWithAnonArgs(naslvalue.Str("http/port"))
	v, err := getKBItem(getReg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindNumber || v.Number != 8080 {
		t.Fatalf("expected single replaced value 8080, got %+v", v)
	}
}

func TestGetKBList_ReturnsArrayNotFork(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	for _, port := range []int64{80, 443} {
		reg := registerWithAnonArgs(naslvalue.Str("http/port"), naslvalue.Num(port))
		if _, err := setKBItem(reg, ctx); err != nil {
			t.Fatal(err)
		}
	}

	listReg := registerWithAnonArgs(naslvalue.Str("http/port"))
	v, err := getKBList(listReg, ctx)
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind != naslvalue.KindArray || len(v.Array) != 2 {
		t.Fatalf("expected a 2-element array, got %+v", v)
	}
}

func TestSetKBItem_MissingValueErrors(t *testing.T) {
	storage := newFakeKBStorage()
	ctx := contextWithStorage(storage)

	reg := registerWithAnonArgs(naslvalue.Str("name-only"))
	if _, err := setKBItem(reg, ctx); err == nil {
		t.Fatal("expected an error when value argument is missing")
	}
}
