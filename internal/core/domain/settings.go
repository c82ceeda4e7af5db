package domain

import (
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// Settings holds the project-wide configuration of the pipeline.
type Settings struct {
	// Root is the absolute project root; every relative path is resolved against it.
	Root      string
	SrcDir    string
	DataDir   string
	OutputDir string
	StateFile string

	// Python runs the pipeline scripts.
	Python string
	// Jupyter runs nbconvert.
	Jupyter string
	// Jupytext renders Markdown reports.
	Jupytext string

	// Markdown enables Markdown reports next to the HTML ones.
	Markdown bool
	// Checker is used by tasks that do not choose one.
	Checker Checker
	// Builtins registers the Fama-French pipeline tasks.
	Builtins bool
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		SrcDir:    DefaultSrcDir,
		DataDir:   DefaultDataDir,
		OutputDir: DefaultOutputDir,
		StateFile: DefaultStatePath(),
		Python:    "ipython",
		Jupyter:   "jupyter",
		Jupytext:  "jupytext",
		Checker:   CheckerTimestamp,
		Builtins:  true,
	}
}

// PulledDir returns the directory where vendor extracts are written.
func (s Settings) PulledDir() string {
	return filepath.Join(s.DataDir, PulledDirName)
}

// Project is a loaded configuration: settings plus the user-declared tasks.
type Project struct {
	Settings   Settings
	Tasks      []Task
	ConfigPath string
}

// FileState is the observed state of a dependency or target on disk.
type FileState struct {
	Path    string
	Exists  bool
	ModTime time.Time
}

// NormalizePath cleans p and makes it relative to root when it lies beneath it,
// so that the same file spelled two ways maps to one graph node.
func NormalizePath(root, p string) string {
	p = filepath.Clean(p)
	if root == "" || !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// NormalizePaths applies NormalizePath to every entry and drops duplicates,
// keeping the first occurrence.
func NormalizePaths(root string, paths []string) []string {
	result := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		n := NormalizePath(root, p)
		if !slices.Contains(result, n) {
			result = append(result, n)
		}
	}
	return result
}

// ResolvePath joins a relative path to root.
func ResolvePath(root, p string) string {
	if filepath.IsAbs(p) || root == "" {
		return p
	}
	return filepath.Join(root, p)
}
