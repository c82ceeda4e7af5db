package scheduler_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/cas"
	"go.trai.ch/ffbuild/internal/adapters/fs"
	"go.trai.ch/ffbuild/internal/adapters/telemetry/progrock"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var (
	past   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
)

type fixture struct {
	root   string
	exec   *mocks.MockExecutor
	log    *mocks.MockLogger
	store  *cas.Store
	sched  *scheduler.Scheduler
	stdout *bytes.Buffer
	stderr *bytes.Buffer

	mu  sync.Mutex
	ran []string
}

type fixtureOption func(*[]scheduler.Option)

func notTerminal() fixtureOption {
	return func(opts *[]scheduler.Option) {
		*opts = append(*opts, scheduler.WithTerminalCheck(func() bool { return false }))
	}
}

// newFixture wires the scheduler to the real file system adapters and a fake
// executor that understands a few commands:
//
//	touch <path>...       create files under the root
//	say out|err <text>    write a line to stdout or stderr
//	read                  copy stdin to stdout
//	fail <code>           write to both streams and exit with code
func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		root:   t.TempDir(),
		exec:   mocks.NewMockExecutor(ctrl),
		log:    mocks.NewMockLogger(ctrl),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	f.log.EXPECT().Info(gomock.Any()).AnyTimes()

	store, err := cas.NewStore(filepath.Join(f.root, domain.DefaultStatePath()))
	require.NoError(t, err)
	f.store = store

	schedOpts := []scheduler.Option{
		scheduler.WithStreams(ports.Streams{
			Stdin:  strings.NewReader("wrds_user\n"),
			Stdout: f.stdout,
			Stderr: f.stderr,
		}),
		scheduler.WithTerminalCheck(func() bool { return true }),
	}
	for _, opt := range opts {
		opt(&schedOpts)
	}

	f.sched = scheduler.NewScheduler(
		f.exec,
		fs.NewFileSystem(),
		fs.NewHasher(fs.NewWalker()),
		progrock.New(),
		f.log,
		schedOpts...,
	).Bind(store)

	f.exec.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(f.execute).AnyTimes()
	return f
}

func (f *fixture) execute(_ context.Context, task *domain.Task, action domain.Action, streams ports.Streams) error {
	f.mu.Lock()
	f.ran = append(f.ran, task.Name.String())
	f.mu.Unlock()

	args := action.Args()
	switch action.Program() {
	case "touch":
		for _, p := range args {
			path := filepath.Join(f.root, p)
			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return err
			}
			if err := os.WriteFile(path, []byte(task.Name.String()), 0o600); err != nil {
				return err
			}
		}
	case "say":
		w := streams.Stdout
		if args[0] == "err" {
			w = streams.Stderr
		}
		_, _ = fmt.Fprintln(w, args[1])
	case "read":
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(streams.Stdin); err != nil {
			return err
		}
		_, _ = streams.Stdout.Write(buf.Bytes())
	case "fail":
		_, _ = fmt.Fprintln(streams.Stdout, "traceback on stdout")
		_, _ = fmt.Fprintln(streams.Stderr, "traceback on stderr")
		return zerr.With(zerr.Wrap(errors.New("exit status "+args[0]), "command failed"), "exit_code", args[0])
	}
	return nil
}

// tasksRan returns the names of the tasks whose actions ran, once per task.
func (f *fixture) tasksRan() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var names []string
	for _, name := range f.ran {
		if len(names) == 0 || names[len(names)-1] != name {
			names = append(names, name)
		}
	}
	return names
}

func (f *fixture) write(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	full := filepath.Join(f.root, path)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
	require.NoError(t, os.WriteFile(full, []byte(path), 0o600))
	require.NoError(t, os.Chtimes(full, mtime, mtime))
}

func (f *fixture) graph(t *testing.T, tasks ...*domain.Task) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	g.SetRoot(f.root)
	for _, task := range tasks {
		require.NoError(t, g.AddTask(task))
	}
	require.NoError(t, g.Validate())
	return g
}

func task(name string, deps, targets []string, actions ...domain.Action) *domain.Task {
	return &domain.Task{
		Name:      domain.NewInternedString(name),
		FileDeps:  domain.NewInternedStrings(deps),
		Targets:   domain.NewInternedStrings(targets),
		Actions:   actions,
		Checker:   domain.CheckerTimestamp,
		Verbosity: domain.VerbosityNormal,
		Clean:     true,
	}
}

func touch(paths ...string) domain.Action {
	return domain.NewAction("touch", paths...)
}
