package domain

import "path/filepath"

const (
	// StateDirName is the name of the internal state directory.
	StateDirName = ".ffbuild"

	// StateFileName is the name of the dependency state file inside StateDirName.
	StateFileName = "state.json"

	// DefaultSrcDir is the directory holding the pipeline scripts and notebooks.
	DefaultSrcDir = "src"

	// DefaultDataDir is the root of the data files, matching DATA_DIR.
	DefaultDataDir = "_data"

	// DefaultOutputDir is the root of the reports and plots, matching OUTPUT_DIR.
	DefaultOutputDir = "_output"

	// PulledDirName is the subdirectory of the data root where vendor extracts land.
	PulledDirName = "pulled"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// ConfigFileNames lists the project file names searched in the working directory, in order.
var ConfigFileNames = []string{"ffbuild.yaml", "ffbuild.yml", "ffbuild.toml"}

// DefaultStatePath returns the default path of the dependency state file.
// It joins .ffbuild and state.json.
func DefaultStatePath() string {
	return filepath.Join(StateDirName, StateFileName)
}
