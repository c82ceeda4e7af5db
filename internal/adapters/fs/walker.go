// Package fs provides the file system adapters: probing dependency and target
// files, preparing and removing targets, and digesting file contents.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// skippedDirs are never descended into when walking a directory dependency.
var skippedDirs = map[string]bool{
	".git":               true,
	".jj":                true,
	".ipynb_checkpoints": true,
	"__pycache__":        true,
}

// Walker yields the regular files below a directory.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every file below root in lexical order, skipping VCS
// metadata and Python caches. Yielded paths include root as prefix.
func (w *Walker) WalkFiles(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skippedDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}
