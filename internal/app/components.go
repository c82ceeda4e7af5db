package app

import "go.trai.ch/ffbuild/internal/core/ports"

// Components holds the wired application and the logger used by the command line.
type Components struct {
	App    *App
	Logger ports.Logger
}
