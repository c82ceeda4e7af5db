// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/ffbuild/internal/adapters/cas"
	_ "go.trai.ch/ffbuild/internal/adapters/config"
	_ "go.trai.ch/ffbuild/internal/adapters/fs"
	_ "go.trai.ch/ffbuild/internal/adapters/logger"
	_ "go.trai.ch/ffbuild/internal/adapters/shell"
	_ "go.trai.ch/ffbuild/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/ffbuild/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/ffbuild/internal/app"
	_ "go.trai.ch/ffbuild/internal/engine/scheduler"
)
