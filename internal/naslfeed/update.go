package naslfeed

import (
	"github.com/nasl-runtime/naslrun/internal/naslerr"
	"github.com/nasl-runtime/naslrun/internal/naslinterp"
	"github.com/nasl-runtime/naslrun/internal/naslparser"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
	"github.com/nasl-runtime/naslrun/internal/naslvalue"
)

// Result is one item the Update iterator yields (spec §4.6: "yields,
// per script, a success or error record").
type Result struct {
	Path     string
	ExitCode int64
	Err      error
}

// Update is the restartable feed-update pipeline (spec §4.6/§1): it
// verifies file integrity, description-runs every .nasl plugin, then
// publishes the feed version as its last side effect — legacy
// consumers treat that publication as the "feed complete" signal, so
// it must stay last even across a restart.
type Update struct {
	root           string
	openvasVersion string
	maxRetries     int
	loader         naslregister.Loader
	storage        naslregister.Storage
	logger         nasllog.Logger
	functions      naslregister.FunctionRegistry
	verifier       SignatureVerifier

	paths       []string
	idx         int
	versionDone bool
	checked     bool
}

// NewFromRoot walks root for .nasl plugins and builds an Update over
// them (spec §5: "files are processed in directory-walk order"). root
// is also what verifier.Verify checks the integrity file against.
func NewFromRoot(root string, loader naslregister.Loader, storage naslregister.Storage, logger nasllog.Logger, functions naslregister.FunctionRegistry, verifier SignatureVerifier, openvasVersion string, maxRetries int) (*Update, error) {
	paths, err := NaslFiles(root)
	if err != nil {
		return nil, err
	}
	return New(root, paths, loader, storage, logger, functions, verifier, openvasVersion, maxRetries), nil
}

// New builds an Update over an explicit, already-enumerated list of
// plugin paths — used directly by naslwatch, which seeds only the
// paths fsnotify reported changed instead of a full directory walk
// (SPEC_FULL's supplement), and by tests.
func New(root string, paths []string, loader naslregister.Loader, storage naslregister.Storage, logger nasllog.Logger, functions naslregister.FunctionRegistry, verifier SignatureVerifier, openvasVersion string, maxRetries int) *Update {
	return &Update{
		root:           root,
		openvasVersion: openvasVersion,
		maxRetries:     maxRetries,
		loader:         loader,
		storage:        storage,
		logger:         logger,
		functions:      functions,
		verifier:       verifier,
		paths:          paths,
	}
}

// Len reports the number of .nasl plugins queued (not counting the
// final plugin_feed_info.inc step), used by CLI progress reporting.
func (u *Update) Len() int { return len(u.paths) }

// Next drives one step of the pipeline: either one script's
// description run, or (once every script has run) the final feed
// version publication. ok is false once both phases are exhausted.
func (u *Update) Next() (Result, bool) {
	if !u.checked {
		u.checked = true
		ok, err := u.verifier.Verify(u.root)
		if err != nil || !ok {
			u.idx = len(u.paths)
			u.versionDone = true
		}
		if err != nil {
			return Result{Err: &naslerr.UpdateError{Kind: naslerr.VerifyError, Err: err}}, true
		}
		if !ok {
			return Result{Err: &naslerr.UpdateError{Kind: naslerr.VerifyError}}, true
		}
	}

	if u.idx < len(u.paths) {
		path := u.paths[u.idx]
		u.idx++
		exit, err := u.runDescription(path)
		if err != nil {
			return Result{Path: path, Err: &naslerr.UpdateError{Key: path, Kind: updateKindFor(err), Err: err}}, true
		}
		return Result{Path: path, ExitCode: exit}, true
	}

	if !u.versionDone {
		u.versionDone = true
		if err := u.dispatchFeedInfo(); err != nil {
			return Result{Path: FeedInfoFile, Err: &naslerr.UpdateError{Key: FeedInfoFile, Kind: updateKindFor(err), Err: err}}, true
		}
		return Result{Path: FeedInfoFile}, true
	}

	return Result{}, false
}

// runDescription loads and interprets one plugin in description mode
// until an Exit value is produced (spec §4.6 step 1).
func (u *Update) runDescription(path string) (int64, error) {
	code, err := u.loader.Load(path)
	if err != nil {
		return 0, err
	}
	stmts, errs := naslparser.New(code).All()
	if len(errs) > 0 {
		return 0, errs[0]
	}

	register := naslregister.RootInitial(map[string]naslvalue.Value{
		"description":     naslvalue.Bool(true),
		"OPENVAS_VERSION": naslvalue.Str(u.openvasVersion),
	})
	ctx := naslregister.NewContext(path, "", u.storage, u.loader, u.logger, u.functions)
	interp := naslinterp.New(register, ctx)
	driver := naslinterp.NewCodeInterpreter(interp, stmts, u.maxRetries)

	for {
		_, _, err, ok := driver.Next()
		if err != nil {
			return 0, err
		}
		if driver.ExitCode != nil {
			if err := u.storage.DescriptionScriptFinished(path); err != nil {
				return 0, err
			}
			return *driver.ExitCode, nil
		}
		if !ok {
			return 0, &missingExitError{path: path}
		}
	}
}

func (u *Update) dispatchFeedInfo() error {
	version, err := FeedVersion(u.loader, u.storage, u.functions, u.logger)
	if err != nil {
		return err
	}
	return u.storage.CacheNVTField(FeedInfoFile, naslregister.Field{Name: "version", Value: naslvalue.Str(version)})
}

type missingExitError struct{ path string }

func (e *missingExitError) Error() string { return "script finished without exit: " + e.path }

func updateKindFor(err error) naslerr.UpdateKind {
	if _, ok := err.(*missingExitError); ok {
		return naslerr.MissingExit
	}
	switch err.(type) {
	case *naslerr.LoadError:
		return naslerr.UpdateLoadError
	case *naslerr.StorageError:
		return naslerr.UpdateStorageError
	default:
		return naslerr.UpdateInterpretError
	}
}
