// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/ffbuild/internal/core/domain"

// LoadOptions selects the project file and the values that override it.
type LoadOptions struct {
	// Dir is the directory searched for a project file and used as project root.
	Dir string
	// ConfigFile names an explicit project file. Relative paths are resolved against Dir.
	ConfigFile string
	// DataDir overrides the data root when non-empty.
	DataDir string
	// OutputDir overrides the output root when non-empty.
	OutputDir string
}

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the project file, if any, and returns the settings and user tasks.
	// A missing project file is not an error; defaults are returned instead.
	Load(opts LoadOptions) (*domain.Project, error)
}
