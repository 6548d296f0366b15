package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
)

// defaultIgnores are directory names never worth watching.
var defaultIgnores = []string{".git", "node_modules", "bin", "obj"}

// Walker enumerates directory trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkDirs yields root and every directory below it, skipping ignored
// directory names. The change notifier uses this to install a recursive
// watch.
func (w *Walker) WalkDirs(root string, ignores []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable subtrees are skipped, not fatal
			}
			if !d.IsDir() {
				return nil
			}
			if w.ignored(d.Name(), ignores) && path != root {
				return filepath.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func (w *Walker) ignored(name string, ignores []string) bool {
	return slices.Contains(defaultIgnores, name) || slices.Contains(ignores, name)
}
