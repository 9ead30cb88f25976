package naslrewrite

import (
	"os"
	"path/filepath"
	"strings"
)

// FeedFile pairs a changed file's path with its rewritten source.
// FeedReplacer only yields files Replace actually touched (spec §4.5:
// "the rest of the feed tree is left untouched, byte for byte").
type FeedFile struct {
	Path   string
	Source string
}

// FeedReplacer walks every .nasl/.inc file under root and applies the
// same ReplaceCommand list to each, grounded on transpile/mod.rs's
// FeedReplacer (there backed by a signature-verifying NaslFileFinder;
// verification here is internal/naslfeed's concern, kept separate so
// this package has no Storage/Loader dependency).
type FeedReplacer struct {
	root     string
	commands []ReplaceCommand
}

func NewFeedReplacer(root string, commands []ReplaceCommand) *FeedReplacer {
	return &FeedReplacer{root: root, commands: commands}
}

// Run walks the feed tree and returns every file whose rewritten
// source differs from what's on disk.
func (f *FeedReplacer) Run() ([]FeedFile, error) {
	var out []FeedFile
	err := filepath.WalkDir(f.root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isFeedSource(path) {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		code := string(raw)
		rewritten, err := ReplaceAll(code, f.commands)
		if err != nil {
			return err
		}
		if rewritten != code {
			out = append(out, FeedFile{Path: path, Source: rewritten})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func isFeedSource(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".nasl" || ext == ".inc"
}
