package naslfeed

import (
	"github.com/nasl-runtime/naslrun/internal/naslinterp"
	"github.com/nasl-runtime/naslrun/internal/naslparser"
	"github.com/nasl-runtime/naslrun/internal/naslregister"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
)

// DefaultFeedVersion is published when plugin_feed_info.inc never
// binds PLUGIN_SET (spec §4.6 step 2: "read the register variable
// PLUGIN_SET ... default '0'").
const DefaultFeedVersion = "0"

// FeedVersion loads and interprets plugin_feed_info.inc and returns
// its PLUGIN_SET binding, used both by the updater's final step and
// standalone by the admin server's /status endpoint (SPEC_FULL's
// supplement over spec §4.6).
func FeedVersion(loader naslregister.Loader, storage naslregister.Storage, functions naslregister.FunctionRegistry, logger nasllog.Logger) (string, error) {
	code, err := loader.Load(FeedInfoFile)
	if err != nil {
		return "", err
	}
	stmts, errs := naslparser.New(code).All()
	if len(errs) > 0 {
		return "", errs[0]
	}

	register := naslregister.RootInitial(nil)
	ctx := naslregister.NewContext(FeedInfoFile, "", storage, loader, logger, functions)
	interp := naslinterp.New(register, ctx)
	driver := naslinterp.NewCodeInterpreter(interp, stmts, 3)
	for {
		_, _, err, ok := driver.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
	}

	ct, ok := interp.Register().Lookup("PLUGIN_SET")
	if !ok || ct.Kind != naslregister.ContextValue {
		return DefaultFeedVersion, nil
	}
	return ct.Value.String(), nil
}
