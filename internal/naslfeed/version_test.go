package naslfeed

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nasl-runtime/naslrun/internal/naslstdlib"
	"github.com/nasl-runtime/naslrun/internal/nasllog"
)

func TestFeedVersion_ReadsPluginSet(t *testing.T) {
	loader := memLoader{FeedInfoFile: `PLUGIN_SET = "202601290001";`}
	storage := newMemStorage()

	version, err := FeedVersion(loader, storage, naslstdlib.Default(), nasllog.NoOp())
	require.NoError(t, err)
	require.Equal(t, "202601290001", version)
}

func TestFeedVersion_DefaultsToZero(t *testing.T) {
	loader := memLoader{FeedInfoFile: `x = 1;`}
	storage := newMemStorage()

	version, err := FeedVersion(loader, storage, naslstdlib.Default(), nasllog.NoOp())
	require.NoError(t, err)
	require.Equal(t, DefaultFeedVersion, version)
}
