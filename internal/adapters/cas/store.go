// Package cas persists the dependency digests of content-checked tasks.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.BuildInfoStore = (*Store)(nil)

// Store implements ports.BuildInfoStore using a flat JSON file keyed by task name.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]domain.BuildInfo
}

// NewStore creates a new BuildInfoStore backed by the file at the given path.
// A missing file is an empty store.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]domain.BuildInfo),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(domain.Fail(domain.ErrStoreReadFailed, err), "path", s.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreUnmarshalFailed, err), "path", s.path)
	}
	return nil
}

// save writes the cache to disk. The caller must hold the write lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return domain.Fail(domain.ErrStoreMarshalFailed, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreCreateFailed, err), "path", dir)
	}

	// Write-then-rename keeps the previous state intact if the process dies mid-write.
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return zerr.With(domain.Fail(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := tmp.Close(); err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return zerr.With(domain.Fail(domain.ErrStoreWriteFailed, err), "path", s.path)
	}
	return nil
}

// Get retrieves the build info for a given task name.
func (s *Store) Get(taskName string) (*domain.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.cache[taskName]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

// Put stores the build info.
func (s *Store) Put(info domain.BuildInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache[info.TaskName] = info
	return s.save()
}

// Delete removes the build info of a task.
func (s *Store) Delete(taskName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache[taskName]; !ok {
		return nil
	}
	delete(s.cache, taskName)
	return s.save()
}

// Opener implements ports.StoreOpener for JSON stores.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open returns the store backed by the file at path.
func (o *Opener) Open(path string) (ports.BuildInfoStore, error) {
	return NewStore(path)
}
