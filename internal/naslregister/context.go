package naslregister

import (
	"context"

	"github.com/google/uuid"

	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// Field is a typed descriptor published to the storage backend: an
// NVT field, a KB item, or a scan result (spec §6's "NVT field").
type Field struct {
	Name  string
	Value naslvalue.Value
}

// RetrieveKind discriminates a Retrieve request. KB is the only kind
// the core contract names (spec §6).
type RetrieveKind int

const (
	RetrieveKB RetrieveKind = iota
)

// Retrieve names what to fetch from Storage.
type Retrieve struct {
	Kind RetrieveKind
	Name string
}

// Storage is the external dispatcher/retriever collaborator (spec
// §6). Concrete adapters (redis, sqlite) live in internal/naslstorage
// and are reached only through this interface — the core never
// imports a storage backend directly.
type Storage interface {
	Dispatch(key string, field Field) error
	DispatchReplace(key string, field Field) error
	Retrieve(key string, r Retrieve) ([]Field, error)
	DescriptionScriptFinished(key string) error
	CacheNVTField(key string, field Field) error
}

// Loader is the external source-loading collaborator (spec §6).
type Loader interface {
	// Load returns raw source bytes for relativePath, interpreted as
	// latin-1 (each byte widened to a char) by the caller.
	Load(relativePath string) ([]byte, error)
	// RootPath reports the feed root, used for the signature check.
	RootPath() (string, bool)
}

// FunctionRegistry is the standard-function dispatch contract (spec
// §4.4). Concrete modules live in internal/naslstdlib; the interface
// is declared here, next to Context, to avoid a naslregister ↔
// naslstdlib import cycle (every executor takes a *Register and
// *Context).
type FunctionRegistry interface {
	Defined(name string) bool
	Execute(name string, reg *Register, ctx *Context) (naslvalue.Value, error)
}

// Context is the immutable, per-script process-scope bundle (spec
// §3). It is never shared across scripts; the feed updater
// instantiates one per plugin (spec §9).
type Context struct {
	Key       string // ScriptKey
	Target    string
	Storage   Storage
	Loader    Loader
	Logger    nasllog.Logger
	Functions FunctionRegistry

	// Cancel is checked at every statement boundary (spec §5); a
	// cancelled context turns the in-flight resolve into
	// InterpretError{Kind: Cancelled}.
	Cancel context.Context
}

// NewContext builds a Context. If key is empty, a synthetic ScriptKey
// is generated via uuid — the feed updater always supplies the
// plugin's relative path explicitly, but ad hoc interpreter use (e.g.
// tests) needs one manufactured here.
func NewContext(key, target string, storage Storage, loader Loader, logger nasllog.Logger, functions FunctionRegistry) *Context {
	if key == "" {
		key = uuid.NewString()
	}
	return &Context{
		Key:       key,
		Target:    target,
		Storage:   storage,
		Loader:    loader,
		Logger:    logger,
		Functions: functions,
		Cancel:    context.Background(),
	}
}

// WithCancel returns a shallow copy of ctx carrying cancel as its
// cancellation signal.
func (c *Context) WithCancel(cancel context.Context) *Context {
	cp := *c
	cp.Cancel = cancel
	return &cp
}

// Cancelled reports whether the context's cancellation signal has
// fired.
func (c *Context) Cancelled() bool {
	select {
	case <-c.Cancel.Done():
		return true
	default:
		return false
	}
}
