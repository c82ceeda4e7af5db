package app

import (
	"context"
	iofs "io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.trai.ch/ffbuild/internal/adapters/watcher" //nolint:depguard // Debouncing is part of the watch use case
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
)

// Watch runs the named tasks, then runs them again whenever a source file of
// the project or the project file itself changes. It returns when ctx is cancelled.
// Failed runs are reported and do not end the watch.
func (a *App) Watch(ctx context.Context, opts ports.LoadOptions, names []string, runOpts RunOptions) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	root := s.project.Settings.Root
	if err := w.Start(watchCtx, root); err != nil {
		return err
	}

	pending := newChangeSet()
	debouncer := watcher.NewDebouncer(a.debounce, pending.add)

	go func() {
		for event := range w.Events() {
			debouncer.Add(event.Path)
		}
	}()

	a.runOnce(watchCtx, s, names, runOpts)
	seen := snapshot(s)
	a.logger.Info("watching " + root + " for changes")

	for {
		select {
		case <-watchCtx.Done():
			return nil
		case <-pending.ready:
			if !changed(s, seen, pending.take()) {
				continue
			}

			next, err := a.load(opts)
			if err != nil {
				a.logger.Error(err)
				seen = snapshot(s)
				continue
			}
			s = next
			a.runOnce(watchCtx, s, names, runOpts)
			seen = snapshot(s)
		}
	}
}

func (a *App) runOnce(ctx context.Context, s *session, names []string, runOpts RunOptions) {
	err := s.scheduler.Run(ctx, s.graph, names, scheduler.RunOptions{Always: runOpts.Always})
	if ctx.Err() == nil {
		a.printOutcome(s, names)
	}
	if err != nil && ctx.Err() == nil {
		a.logger.Error(domain.Fail(domain.ErrBuildExecutionFailed, err))
	}
}

// changeSet merges debounced batches until the watch loop takes them, so
// that no batch is lost while a run is in progress.
type changeSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
	ready chan struct{}
}

func newChangeSet() *changeSet {
	return &changeSet{
		paths: make(map[string]struct{}),
		ready: make(chan struct{}, 1),
	}
}

func (c *changeSet) add(paths []string) {
	c.mu.Lock()
	for _, p := range paths {
		c.paths[filepath.Clean(p)] = struct{}{}
	}
	c.mu.Unlock()

	select {
	case c.ready <- struct{}{}:
	default:
	}
}

func (c *changeSet) take() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	paths := make([]string, 0, len(c.paths))
	for p := range c.paths {
		paths = append(paths, p)
	}
	clear(c.paths)
	slices.Sort(paths)
	return paths
}

// fingerprint identifies the version of a source file on disk.
type fingerprint struct {
	modTime time.Time
	size    int64
}

// snapshot fingerprints every source file of s. It is taken after each run,
// so sources the run rewrote itself (notebooks cleared in place) match it
// when their events arrive and do not start another run.
func snapshot(s *session) map[string]fingerprint {
	prints := make(map[string]fingerprint)
	for _, src := range sources(s) {
		_ = filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil //nolint:nilerr // Missing sources are absent from the snapshot.
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // Vanished while walking.
			}
			prints[path] = fingerprint{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return prints
}

// changed reports whether any path is a source of s that was created,
// removed or modified since seen was taken. Targets never trigger a run.
func changed(s *session, seen map[string]fingerprint, paths []string) bool {
	srcs := sources(s)
	for _, p := range paths {
		if !within(p, srcs) {
			continue
		}

		prev, known := seen[p]
		info, err := os.Stat(p)
		switch {
		case err != nil:
			if known {
				return true
			}
		case info.IsDir():
		case !known:
			return true
		case !info.ModTime().Equal(prev.modTime) || info.Size() != prev.size:
			return true
		}
	}
	return false
}

// sources lists the project file and every file dependency of s that no
// task produces, as absolute paths.
func sources(s *session) []string {
	root := s.project.Settings.Root
	var srcs []string
	for task := range s.graph.Tasks() {
		for _, dep := range task.FileDeps {
			if _, produced := s.graph.Producer(dep.String()); !produced {
				srcs = append(srcs, filepath.Clean(domain.ResolvePath(root, dep.String())))
			}
		}
	}

	if s.project.ConfigPath != "" {
		srcs = append(srcs, filepath.Join(root, filepath.Base(s.project.ConfigPath)))
	}
	return srcs
}

func within(path string, srcs []string) bool {
	for _, src := range srcs {
		if path == src || strings.HasPrefix(path, src+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
