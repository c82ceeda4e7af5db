package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// FileSystem probes and mutates the dependency and target files of tasks.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Stat reports whether path exists under root and when it was last modified.
	// A missing file is not an error.
	Stat(root, path string) (domain.FileState, error)
	// PrepareTarget creates the parent directory of a target.
	PrepareTarget(root, path string) error
	// Remove deletes a target. It reports whether anything was removed.
	Remove(root, path string) (bool, error)
}
