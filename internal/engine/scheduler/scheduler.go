// Package scheduler decides which tasks are out of date and runs them in
// dependency order.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// Scheduler manages the execution of tasks in the dependency graph.
// Tasks run strictly one after another.
type Scheduler struct {
	executor  ports.Executor
	files     ports.FileSystem
	hasher    ports.Hasher
	store     ports.BuildInfoStore
	telemetry ports.Telemetry
	logger    ports.Logger

	streams    ports.Streams
	isTerminal func() bool

	mu         sync.RWMutex
	taskStatus map[domain.InternedString]domain.TaskStatus
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStreams sets the terminal streams used by tasks that show their output.
func WithStreams(streams ports.Streams) Option {
	return func(s *Scheduler) {
		s.streams = streams
	}
}

// WithTerminalCheck overrides how the scheduler decides whether stdin is a terminal.
func WithTerminalCheck(fn func() bool) Option {
	return func(s *Scheduler) {
		s.isTerminal = fn
	}
}

// NewScheduler creates a new Scheduler.
// The build info store is attached per project with Bind.
func NewScheduler(
	executor ports.Executor,
	files ports.FileSystem,
	hasher ports.Hasher,
	telemetry ports.Telemetry,
	logger ports.Logger,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		executor:   executor,
		files:      files,
		hasher:     hasher,
		telemetry:  telemetry,
		logger:     logger,
		streams:    ports.Streams{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr},
		taskStatus: make(map[domain.InternedString]domain.TaskStatus),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.isTerminal == nil {
		s.isTerminal = func() bool { return stdinIsTerminal(s.streams.Stdin) }
	}
	if s.streams.Stdout == nil {
		s.streams.Stdout = io.Discard
	}
	if s.streams.Stderr == nil {
		s.streams.Stderr = io.Discard
	}
	return s
}

// Bind returns a scheduler that records content digests in store.
// The returned scheduler starts with no task statuses.
func (s *Scheduler) Bind(store ports.BuildInfoStore) *Scheduler {
	return &Scheduler{
		executor:   s.executor,
		files:      s.files,
		hasher:     s.hasher,
		store:      store,
		telemetry:  s.telemetry,
		logger:     s.logger,
		streams:    s.streams,
		isTerminal: s.isTerminal,
		taskStatus: make(map[domain.InternedString]domain.TaskStatus),
	}
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *Scheduler) updateStatus(name domain.InternedString, status domain.TaskStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskStatus[name] = status
}

func (s *Scheduler) getStatus(name domain.InternedString) domain.TaskStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.taskStatus[name]
}

// TaskStatus returns the status a task reached in the last Run.
func (s *Scheduler) TaskStatus(name string) domain.TaskStatus {
	status := s.getStatus(domain.NewInternedString(name))
	if status == "" {
		return domain.StatusPending
	}
	return status
}

// RunOptions controls a Run.
type RunOptions struct {
	// Always runs every selected task regardless of its staleness.
	Always bool
}

// Run executes the named tasks and everything they depend on. With no names,
// or with "all", every task runs.
//
// Missing dependencies are reported before anything executes. A failed task
// blocks its dependents; independent tasks still run. Targets already
// produced are kept.
func (s *Scheduler) Run(ctx context.Context, g *domain.Graph, names []string, opts RunOptions) error {
	selected, err := Select(g, names, true)
	if err != nil {
		return err
	}
	if err := s.Check(g, selected); err != nil {
		return err
	}

	inSelection := make(map[domain.InternedString]bool, len(selected))
	for _, task := range selected {
		inSelection[task.Name] = true
		s.updateStatus(task.Name, domain.StatusPending)
	}

	var errs error
	for _, task := range selected {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = errors.Join(errs, ctxErr)
			break
		}

		upstreamRan, blockedBy := s.upstreamState(g, task.Name, inSelection)
		if blockedBy != "" {
			s.updateStatus(task.Name, domain.StatusBlocked)
			_, vertex := s.telemetry.Record(ctx, task.Name.String())
			vertex.Complete(zerr.With(domain.Fail(domain.ErrUpstreamFailed, nil), "upstream", blockedBy))
			s.logger.Warn(fmt.Sprintf("%s skipped: upstream task %s did not succeed", task.Name, blockedBy))
			continue
		}

		stale, reason := true, "forced"
		switch {
		case opts.Always:
		case upstreamRan != "":
			reason = "upstream task " + upstreamRan + " ran"
		default:
			stale, reason, err = s.IsStale(ctx, g.Root(), &task)
			if err != nil {
				s.updateStatus(task.Name, domain.StatusFailed)
				errs = errors.Join(errs, zerr.With(err, "task", task.Name.String()))
				continue
			}
		}

		if !stale {
			s.updateStatus(task.Name, domain.StatusUpToDate)
			_, vertex := s.telemetry.Record(ctx, task.Name.String())
			vertex.Cached()
			vertex.Complete(nil)
			s.logger.Info(task.Name.String() + " is up to date")
			continue
		}

		s.updateStatus(task.Name, domain.StatusRunning)
		s.logger.Info(fmt.Sprintf("running %s (%s)", task.Name, reason))

		if err := s.RunTask(ctx, g.Root(), &task); err != nil {
			s.updateStatus(task.Name, domain.StatusFailed)
			errs = errors.Join(errs, err)
			continue
		}
		s.updateStatus(task.Name, domain.StatusCompleted)
	}

	return errs
}

// upstreamState returns the first selected upstream task that ran in this
// invocation and the first one that failed or was blocked.
func (s *Scheduler) upstreamState(
	g *domain.Graph,
	name domain.InternedString,
	inSelection map[domain.InternedString]bool,
) (ran, blockedBy string) {
	for _, up := range g.Upstream(name) {
		if !inSelection[up] {
			continue
		}
		switch s.getStatus(up) {
		case domain.StatusFailed, domain.StatusBlocked:
			if blockedBy == "" {
				blockedBy = up.String()
			}
		case domain.StatusCompleted:
			if ran == "" {
				ran = up.String()
			}
		default:
		}
	}
	return ran, blockedBy
}
