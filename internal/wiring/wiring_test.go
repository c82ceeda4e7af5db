package wiring_test

import (
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
	_ "go.trai.ch/ffbuild/internal/wiring"
)

func TestWiring_ResolvesComponents(t *testing.T) {
	components, results, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)
	require.NotNil(t, components)
	assert.NotNil(t, components.App)
	assert.NotNil(t, components.Logger)

	sched, err := graft.Result[*scheduler.Scheduler](results)
	require.NoError(t, err)
	assert.NotNil(t, sched)

	logger, err := graft.Result[ports.Logger](results)
	require.NoError(t, err)
	assert.Same(t, components.Logger, logger)
}

func TestWiring_WatcherFactoryIsLazy(t *testing.T) {
	_, results, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)

	factory, err := graft.Result[ports.WatcherFactory](results)
	require.NoError(t, err)
	require.NotNil(t, factory)

	w, err := factory()
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}
