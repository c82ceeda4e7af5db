// Package shell provides the action executor adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec. Actions are argument
// vectors and never pass through a shell.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs one action of the task.
// The environment is os.Environ() overlaid with task.Environment.
// Streams left nil are forwarded to the logger line by line.
func (e *Executor) Execute(ctx context.Context, task *domain.Task, action domain.Action, streams ports.Streams) error {
	if len(action.Argv) == 0 || action.Program() == "" {
		return zerr.With(domain.Fail(domain.ErrEmptyAction, nil), "task", task.Name.String())
	}

	name := action.Program()
	cmdEnv := resolveEnvironment(os.Environ(), task.Environment)

	// Resolve the executable against the PATH the command will see,
	// which a task may override.
	executable := name
	if !filepath.IsAbs(name) && !strings.ContainsRune(name, filepath.Separator) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, action.Args()...) //nolint:gosec // user provided command

	// exec.CommandContext sets Args[0] to the resolved path; keep the name as invoked.
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}

	if dir := task.WorkingDir.String(); dir != "" {
		cmd.Dir = dir
	}
	cmd.Env = cmdEnv

	stdout, stderr := streams.Stdout, streams.Stderr
	var flushers []*logWriter
	if stdout == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelInfo}
		flushers = append(flushers, w)
		stdout = w
	}
	if stderr == nil {
		w := &logWriter{logger: e.logger, level: domain.LogLevelError}
		flushers = append(flushers, w)
		stderr = w
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if streams.Stdin != nil {
		cmd.Stdin = streams.Stdin
	}

	err := cmd.Run()
	for _, w := range flushers {
		w.Flush()
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		wrapped := zerr.With(zerr.Wrap(err, "command failed"), "exit_code", exitCode)
		return zerr.With(wrapped, "command", action.String())
	}
	return nil
}

// logWriter forwards complete lines to the logger and buffers partial ones.
type logWriter struct {
	logger ports.Logger
	level  domain.LogLevel

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err == io.EOF {
			// Keep the partial line for the next write.
			w.buf.Reset()
			w.buf.WriteString(line)
			break
		}
		w.emit(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Flush emits a trailing line without newline, if any.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	if w.level >= domain.LogLevelError {
		w.logger.Error(zerr.New(line))
		return
	}
	w.logger.Info(line)
}

// resolveEnvironment overlays the task environment on the system environment.
// Vendor credentials in the system environment pass through untouched.
func resolveEnvironment(sysEnv []string, taskEnv map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(taskEnv))
	order := make([]string, 0, len(sysEnv)+len(taskEnv))
	for _, entry := range sysEnv {
		k, v, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	for k, v := range taskEnv {
		if _, seen := envMap[k]; !seen {
			order = append(order, k)
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(order))
	for _, k := range order {
		result = append(result, k+"="+envMap[k])
	}
	return result
}

// lookPath searches for an executable in the directories named by the PATH environment variable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
