// Package naslfeed implements the feed file walker and the restartable
// update pipeline (spec §4.6): verify integrity, run each script in
// description mode, publish the feed version last. Grounded on
// original_source/rust/feed/src/update/mod.rs's Update struct and
// iterator contract.
package naslfeed

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FeedInfoFile is the one distinguished file at the feed root (spec
// §6's feed layout).
const FeedInfoFile = "plugin_feed_info.inc"

// Walk enumerates every .nasl/.inc file under root, relative to root:
// all .nasl paths in sorted order, followed by all .inc paths in
// sorted order.
func Walk(root string) ([]string, error) {
	var nasl, inc []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".nasl":
			nasl = append(nasl, rel)
		case ".inc":
			inc = append(inc, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(nasl)
	sort.Strings(inc)
	return append(nasl, inc...), nil
}

// NaslFiles filters Walk's result down to just the .nasl scripts the
// updater's first pass runs in description mode.
func NaslFiles(root string) ([]string, error) {
	all, err := Walk(root)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, p := range all {
		if strings.EqualFold(filepath.Ext(p), ".nasl") {
			out = append(out, p)
		}
	}
	return out, nil
}
