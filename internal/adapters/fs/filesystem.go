package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct{}

// NewFileSystem creates a new FileSystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{}
}

// Stat reports whether path exists under root and its modification time.
func (f *FileSystem) Stat(root, path string) (domain.FileState, error) {
	state := domain.FileState{Path: path}

	info, err := os.Stat(domain.ResolvePath(root, path))
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return state, nil
		}
		return state, zerr.With(domain.Fail(domain.ErrPathStatFailed, err), "path", path)
	}

	state.Exists = true
	state.ModTime = info.ModTime()
	return state, nil
}

// PrepareTarget creates the parent directory of a target.
func (f *FileSystem) PrepareTarget(root, path string) error {
	dir := filepath.Dir(domain.ResolvePath(root, path))
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(domain.Fail(domain.ErrTargetDirCreateFailed, err), "path", path)
	}
	return nil
}

// Remove deletes a target file or directory. Targets may live anywhere, such
// as a data directory outside the project, but the project root and its
// parents are refused.
func (f *FileSystem) Remove(root, path string) (bool, error) {
	abs, err := f.removable(root, path)
	if err != nil {
		return false, err
	}

	if _, err := os.Lstat(abs); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(domain.Fail(domain.ErrPathStatFailed, err), "path", path)
	}

	if err := os.RemoveAll(abs); err != nil {
		return false, zerr.With(domain.Fail(domain.ErrTargetRemoveFailed, err), "path", path)
	}
	return true, nil
}

// removable resolves path against root and rejects the root itself, any
// directory containing it and the filesystem root.
func (f *FileSystem) removable(root, path string) (string, error) {
	abs, err := filepath.Abs(domain.ResolvePath(root, path))
	if err != nil {
		return "", zerr.With(domain.Fail(domain.ErrUnsafeRemove, err), "path", path)
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(domain.Fail(domain.ErrUnsafeRemove, err), "path", path)
	}

	if filepath.Dir(abs) == abs {
		return "", zerr.With(domain.Fail(domain.ErrUnsafeRemove, nil), "path", path)
	}
	rel, err := filepath.Rel(abs, rootAbs)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", zerr.With(domain.Fail(domain.ErrUnsafeRemove, nil), "path", path)
	}
	return abs, nil
}
