package naslstorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nasl-runtime/naslrun/internal/naslerr"
)

func TestFileLoader_LoadExisting(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.inc"), []byte("x = 1;"), 0o644))

	l := NewFileLoader(dir)
	data, err := l.Load("a.inc")
	require.NoError(t, err)
	require.Equal(t, "x = 1;", string(data))
}

func TestFileLoader_LoadMissing(t *testing.T) {
	l := NewFileLoader(t.TempDir())
	_, err := l.Load("missing.inc")
	require.Error(t, err)

	var le *naslerr.LoadError
	require.ErrorAs(t, err, &le)
	require.Equal(t, naslerr.LoadNotFound, le.Kind)
}

func TestFileLoader_RootPath(t *testing.T) {
	dir := t.TempDir()
	l := NewFileLoader(dir)
	root, ok := l.RootPath()
	require.True(t, ok)
	require.Equal(t, dir, root)

	empty := NewFileLoader("")
	_, ok = empty.RootPath()
	require.False(t, ok)
}
