// Package notebook builds the jupyter and jupytext command lines that convert,
// execute and render the project notebooks.
package notebook

import (
	"path/filepath"
	"strings"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Extension is the file extension of a notebook.
const Extension = ".ipynb"

// Converter creates actions over the notebooks in SrcDir.
// All methods are pure: they only build argument vectors.
type Converter struct {
	SrcDir    string
	OutputDir string
	Jupyter   string
	Jupytext  string
}

// New creates a Converter from the project settings.
func New(s domain.Settings) Converter {
	return Converter{
		SrcDir:    s.SrcDir,
		OutputDir: s.OutputDir,
		Jupyter:   s.Jupyter,
		Jupytext:  s.Jupytext,
	}
}

// Stem strips a trailing .ipynb from a notebook name.
func Stem(notebook string) string {
	return strings.TrimSuffix(notebook, Extension)
}

// Path returns the location of the notebook inside the source directory.
func (c Converter) Path(notebook string) string {
	return filepath.Join(c.SrcDir, Stem(notebook)+Extension)
}

// ScriptPath returns where ToScript writes the notebook's Python export.
func (c Converter) ScriptPath(notebook, dir string) string {
	return filepath.Join(c.dir(dir), "_"+Stem(notebook)+".py")
}

// HTMLPath returns where ToHTML writes the rendered notebook.
func (c Converter) HTMLPath(notebook, dir string) string {
	return filepath.Join(c.dir(dir), Stem(notebook)+".html")
}

// MarkdownPath returns where ToMarkdown writes the rendered notebook.
func (c Converter) MarkdownPath(notebook, dir string) string {
	return filepath.Join(c.dir(dir), Stem(notebook)+".md")
}

// ClearOutput strips outputs and metadata from the notebook in place.
func (c Converter) ClearOutput(notebook string) domain.Action {
	return domain.NewAction(c.Jupyter, "nbconvert",
		"--ClearOutputPreprocessor.enabled=True",
		"--ClearMetadataPreprocessor.enabled=True",
		"--inplace",
		c.Path(notebook),
	)
}

// Execute runs every cell of the notebook and stores the results in place.
func (c Converter) Execute(notebook string) domain.Action {
	return domain.NewAction(c.Jupyter, "nbconvert",
		"--execute",
		"--to", "notebook",
		"--ClearMetadataPreprocessor.enabled=True",
		"--inplace",
		c.Path(notebook),
	)
}

// ToHTML renders the notebook as HTML into dir, or into OutputDir when dir is empty.
func (c Converter) ToHTML(notebook, dir string) domain.Action {
	return domain.NewAction(c.Jupyter, "nbconvert",
		"--to", "html",
		"--output-dir="+c.dir(dir),
		c.Path(notebook),
	)
}

// ToMarkdown renders the notebook as Markdown into dir, or into OutputDir when dir is empty.
func (c Converter) ToMarkdown(notebook, dir string) domain.Action {
	return domain.NewAction(c.Jupytext,
		"--to", "markdown",
		"--output-dir="+c.dir(dir),
		c.Path(notebook),
	)
}

// ToScript exports the notebook as a Python script named _<stem>.py inside dir,
// or inside OutputDir when dir is empty.
func (c Converter) ToScript(notebook, dir string) domain.Action {
	return domain.NewAction(c.Jupyter, "nbconvert",
		"--to", "python",
		c.Path(notebook),
		"--output", "_"+Stem(notebook)+".py",
		"--output-dir", c.dir(dir),
	)
}

func (c Converter) dir(dir string) string {
	if dir == "" {
		return c.OutputDir
	}
	return dir
}
