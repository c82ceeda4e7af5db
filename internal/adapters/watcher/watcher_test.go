package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/adapters/watcher"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func startWatcher(t *testing.T, root string) <-chan ports.WatchEvent {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	require.NoError(t, w.Start(ctx, root))

	events := make(chan ports.WatchEvent, 64)
	go func() {
		for event := range w.Events() {
			events <- event
		}
		close(events)
	}()
	return events
}

func waitFor(t *testing.T, events <-chan ports.WatchEvent, path string) ports.WatchEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-events:
			require.True(t, ok, "watcher stopped before %s changed", path)
			if event.Path == path {
				return event
			}
		case <-timeout:
			t.Fatalf("no event for %s", path)
		}
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o750))

	events := startWatcher(t, root)

	path := filepath.Join(src, "config.py")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))

	waitFor(t, events, path)
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	events := startWatcher(t, root)

	dir := filepath.Join(root, "notebooks")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	waitFor(t, events, dir)

	// Give the watcher a moment to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "01_wrds_python_package.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	waitFor(t, events, path)
}

func TestWatcher_StopEndsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	w, err := watcher.NewWatcher(mocks.NewMockLogger(ctrl))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, t.TempDir()))

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	cancel()
	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events iterator did not end")
	}
}
