package naslstorage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/nasl-runtime/naslrun/internal/naslerr"
)

// FileLoader implements naslregister.Loader by reading relative paths
// off a feed root directory (spec §6's Loader contract). Source is
// returned as raw bytes; the interpreter widens each byte as a latin-1
// char itself (spec §4.1/§4.2's "supplement" note), so FileLoader never
// transcodes.
type FileLoader struct {
	root string
}

// NewFileLoader builds a FileLoader rooted at root.
func NewFileLoader(root string) *FileLoader {
	return &FileLoader{root: root}
}

func (l *FileLoader) Load(relativePath string) ([]byte, error) {
	full := filepath.Join(l.root, relativePath)
	data, err := os.ReadFile(full)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			return nil, &naslerr.LoadError{Path: relativePath, Kind: naslerr.LoadNotFound, Err: err}
		case errors.Is(err, os.ErrPermission):
			return nil, &naslerr.LoadError{Path: relativePath, Kind: naslerr.LoadPermissionDenied, Err: err}
		default:
			return nil, &naslerr.LoadError{Path: relativePath, Kind: naslerr.LoadRetry, Err: err}
		}
	}
	return data, nil
}

func (l *FileLoader) RootPath() (string, bool) {
	if l.root == "" {
		return "", false
	}
	return l.root, true
}
