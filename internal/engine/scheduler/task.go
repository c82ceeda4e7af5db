package scheduler

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// RunTask runs a single task: it creates the parent directories of the
// targets, runs the actions in order and stops at the first failure, then
// checks that every target exists. Content-checked tasks record their
// dependency digests afterwards.
func (s *Scheduler) RunTask(ctx context.Context, root string, task *domain.Task) (err error) {
	ctx, vertex := s.telemetry.Record(ctx, task.Name.String())
	defer func() { vertex.Complete(err) }()

	for _, target := range task.Targets {
		if err := s.files.PrepareTarget(root, target.String()); err != nil {
			return zerr.With(err, "task", task.Name.String())
		}
	}

	streams, captured := s.taskStreams(task, vertex)
	for i, action := range task.Actions {
		vertex.Log(domain.LogLevelDebug, action.String())
		if err := s.executor.Execute(ctx, task, action, streams); err != nil {
			if captured.Len() > 0 {
				_, _ = s.streams.Stderr.Write(captured.Bytes())
			}
			wrapped := zerr.With(domain.Fail(domain.ErrActionFailed, err), "task", task.Name.String())
			return zerr.With(wrapped, "action", i+1)
		}
	}

	for _, target := range task.Targets {
		state, err := s.files.Stat(root, target.String())
		if err != nil {
			return zerr.With(err, "task", task.Name.String())
		}
		if !state.Exists {
			err := zerr.With(domain.Fail(domain.ErrMissingTarget, nil), "task", task.Name.String())
			return zerr.With(err, "target", target.String())
		}
	}

	if task.Checker == domain.CheckerContent && s.store != nil {
		digests, err := s.hasher.DigestFiles(ctx, root, task.FileDepStrings())
		if err != nil {
			return zerr.With(err, "task", task.Name.String())
		}
		info := domain.BuildInfo{
			TaskName:     task.Name.String(),
			Dependencies: digests,
			Timestamp:    time.Now(),
		}
		if err := s.store.Put(info); err != nil {
			return zerr.With(err, "task", task.Name.String())
		}
	}
	return nil
}

// taskStreams wires the action streams for the task's verbosity.
// Quiet tasks capture both streams, normal tasks capture stdout and show
// stderr, interactive tasks show both and read stdin. Everything is also
// copied to the telemetry vertex.
func (s *Scheduler) taskStreams(task *domain.Task, vertex ports.Vertex) (ports.Streams, *lockedBuffer) {
	captured := &lockedBuffer{}

	switch task.Verbosity {
	case domain.VerbosityInteractive:
		if !s.isTerminal() {
			s.logger.Warn(task.Name.String() + " may prompt for input but stdin is not a terminal")
		}
		return ports.Streams{
			Stdin:  s.streams.Stdin,
			Stdout: io.MultiWriter(s.streams.Stdout, vertex.Stdout()),
			Stderr: io.MultiWriter(s.streams.Stderr, vertex.Stderr()),
		}, captured
	case domain.VerbosityNormal:
		return ports.Streams{
			Stdout: io.MultiWriter(captured, vertex.Stdout()),
			Stderr: io.MultiWriter(s.streams.Stderr, vertex.Stderr()),
		}, captured
	default:
		return ports.Streams{
			Stdout: io.MultiWriter(captured, vertex.Stdout()),
			Stderr: io.MultiWriter(captured, vertex.Stderr()),
		}, captured
	}
}

// lockedBuffer is a bytes.Buffer safe for the concurrent stdout and stderr copies of os/exec.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func (b *lockedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return bytes.Clone(b.buf.Bytes())
}
