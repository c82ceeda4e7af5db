// Package app implements the application layer for ffbuild.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"go.trai.ch/ffbuild/internal/adapters/watcher" //nolint:depguard // Debouncing is part of the watch use case
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
	"go.trai.ch/ffbuild/internal/pipeline"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	stores       ports.StoreOpener
	telemetry    ports.Telemetry
	logger       ports.Logger
	watchers     ports.WatcherFactory

	out      io.Writer
	debounce time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	stores ports.StoreOpener,
	telemetry ports.Telemetry,
	logger ports.Logger,
	watchers ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		stores:       stores,
		telemetry:    telemetry,
		logger:       logger,
		watchers:     watchers,
		out:          os.Stdout,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithOutput sets the writer for listings and reports.
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithDebounce sets how long the watcher waits for changes to settle.
func (a *App) WithDebounce(d time.Duration) *App {
	a.debounce = d
	return a
}

// Close flushes the telemetry session.
func (a *App) Close() error {
	return a.telemetry.Close()
}

// session is a loaded project: its task graph and a scheduler bound to its
// dependency state.
type session struct {
	project   *domain.Project
	graph     *domain.Graph
	scheduler *scheduler.Scheduler
}

func (a *App) load(opts ports.LoadOptions) (*session, error) {
	project, err := a.configLoader.Load(opts)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	graph, err := pipeline.New(project.Settings).Graph(project.Tasks...)
	if err != nil {
		return nil, err
	}

	statePath := domain.ResolvePath(project.Settings.Root, project.Settings.StateFile)
	store, err := a.stores.Open(statePath)
	if err != nil {
		return nil, err
	}

	return &session{
		project:   project,
		graph:     graph,
		scheduler: a.scheduler.Bind(store),
	}, nil
}

// RunOptions controls a run.
type RunOptions struct {
	// Always runs the selected tasks even when they are up to date.
	Always bool
}

// Run executes the named tasks, and the tasks they depend on, when they are out of date.
func (a *App) Run(ctx context.Context, opts ports.LoadOptions, names []string, runOpts RunOptions) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	err = s.scheduler.Run(ctx, s.graph, names, scheduler.RunOptions{Always: runOpts.Always})
	a.printOutcome(s, names)
	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}
	return nil
}

// CleanOptions controls a clean.
type CleanOptions struct {
	// DryRun lists the targets instead of removing them.
	DryRun bool
	// CleanDeps also cleans the tasks the named tasks depend on.
	CleanDeps bool
}

// Clean removes the targets of the named tasks. With no names every task is cleaned.
func (a *App) Clean(ctx context.Context, opts ports.LoadOptions, names []string, cleanOpts CleanOptions) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	removed, err := s.scheduler.Clean(ctx, s.graph, names, scheduler.CleanOptions{
		DryRun:    cleanOpts.DryRun,
		CleanDeps: cleanOpts.CleanDeps,
	})
	if cleanOpts.DryRun {
		for _, path := range removed {
			a.printf("would remove %s\n", path)
		}
	}
	return err
}

// Forget drops the recorded dependency digests of the named tasks.
func (a *App) Forget(_ context.Context, opts ports.LoadOptions, names []string) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}
	return s.scheduler.Forget(s.graph, names)
}
