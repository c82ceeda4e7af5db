package shell_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/shell"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func newTask(t *testing.T, name string) *domain.Task {
	t.Helper()
	return &domain.Task{
		Name:       domain.NewInternedString(name),
		WorkingDir: domain.NewInternedString(t.TempDir()),
	}
}

func TestExecutor_Execute_MultiLineOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	gomock.InOrder(
		mockLogger.EXPECT().Info("line1"),
		mockLogger.EXPECT().Info("line2"),
	)

	executor := shell.NewExecutor(mockLogger)
	action := domain.NewAction("sh", "-c", "echo line1; echo line2")

	err := executor.Execute(context.Background(), newTask(t, "multi"), action, ports.Streams{})
	require.NoError(t, err)
}

func TestExecutor_Execute_FragmentedOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)

	// Partial writes are buffered until the newline arrives.
	mockLogger.EXPECT().Info("part1part2").Times(1)

	executor := shell.NewExecutor(mockLogger)
	action := domain.NewAction("sh", "-c", "printf part1; sleep 0.1; echo part2")

	err := executor.Execute(context.Background(), newTask(t, "fragmented"), action, ports.Streams{})
	require.NoError(t, err)
}

func TestExecutor_Execute_TrailingLineFlushed(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("no newline").Times(1)

	executor := shell.NewExecutor(mockLogger)
	action := domain.NewAction("printf", "no newline")

	err := executor.Execute(context.Background(), newTask(t, "trailing"), action, ports.Streams{})
	require.NoError(t, err)
}

func TestExecutor_Execute_EnvironmentVariables(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("test-value-123 from-parent").Times(1)

	t.Setenv("WRDS_USERNAME", "from-parent")

	task := newTask(t, "env")
	task.Environment = map[string]string{"MY_TEST_VAR": "test-value-123"}
	action := domain.NewAction("sh", "-c", "echo $MY_TEST_VAR $WRDS_USERNAME")

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), task, action, ports.Streams{})
	require.NoError(t, err)
}

func TestExecutor_Execute_WorkingDir(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	task := newTask(t, "workdir")
	action := domain.NewAction("sh", "-c", "echo made > marker.txt")

	err := executor.Execute(context.Background(), task, action, ports.Streams{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(task.WorkingDir.String(), "marker.txt"))
}

func TestExecutor_Execute_ArgumentsAreNotShellExpanded(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	var stdout bytes.Buffer
	action := domain.NewAction("echo", "$HOME", "a b", "*")

	err := executor.Execute(context.Background(), newTask(t, "literal"), action, ports.Streams{Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, "$HOME a b *\n", stdout.String())
}

func TestExecutor_Execute_InvalidCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).AnyTimes()

	action := domain.NewAction("nonexistent-command-xyz123")

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), newTask(t, "invalid"), action, ports.Streams{})
	require.Error(t, err)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, -1, zErr.Metadata()["exit_code"])
}

func TestExecutor_Execute_CommandFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Error(gomock.Any()).Times(1)

	action := domain.NewAction("sh", "-c", "echo boom >&2; exit 42")

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), newTask(t, "fail"), action, ports.Streams{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "command failed"), err.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, 42, zErr.Metadata()["exit_code"])
	assert.Equal(t, "sh -c 'echo boom >&2; exit 42'", zErr.Metadata()["command"])
}

func TestExecutor_Execute_EmptyAction(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	err := executor.Execute(context.Background(), newTask(t, "empty"), domain.Action{}, ports.Streams{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrEmptyAction)
}

func TestExecutor_Execute_AbsolutePath(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Info("test").Times(1)

	action := domain.NewAction("/bin/sh", "-c", "echo test")

	err := shell.NewExecutor(mockLogger).Execute(context.Background(), newTask(t, "absolute"), action, ports.Streams{})
	require.NoError(t, err)
}

func TestExecutor_Execute_TaskPathOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	binDir := t.TempDir()
	script := filepath.Join(binDir, "fake-ipython")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho fake \"$@\"\n"), 0o700)) //nolint:gosec // test script

	task := newTask(t, "path")
	task.Environment = map[string]string{"PATH": binDir + string(os.PathListSeparator) + os.Getenv("PATH")}

	var stdout bytes.Buffer
	err := executor.Execute(context.Background(), task, domain.NewAction("fake-ipython", "src/config.py"), ports.Streams{Stdout: &stdout})
	require.NoError(t, err)
	assert.Equal(t, "fake src/config.py\n", stdout.String())
}

func TestExecutor_Execute_StreamsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	ansiRed := "\033[31m"
	ansiReset := "\033[0m"
	msg := "Hello Red World"
	action := domain.NewAction("printf", "%s", ansiRed+msg+ansiReset)

	var stdout, stderr bytes.Buffer
	err := executor.Execute(context.Background(), newTask(t, "ansi"), action, ports.Streams{Stdout: &stdout, Stderr: &stderr})
	require.NoError(t, err)

	assert.Equal(t, ansiRed+msg+ansiReset, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestExecutor_Execute_Stdin(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	var stdout bytes.Buffer
	streams := ports.Streams{Stdin: strings.NewReader("wrds_user\n"), Stdout: &stdout}

	err := executor.Execute(context.Background(), newTask(t, "stdin"), domain.NewAction("sh", "-c", "read name; echo got $name"), streams)
	require.NoError(t, err)
	assert.Equal(t, "got wrds_user\n", stdout.String())
}

func TestExecutor_Execute_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	executor := shell.NewExecutor(mocks.NewMockLogger(ctrl))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out bytes.Buffer
	err := executor.Execute(ctx, newTask(t, "slow"), domain.NewAction("sleep", "5"), ports.Streams{Stdout: &out, Stderr: &out})
	require.Error(t, err)
}
