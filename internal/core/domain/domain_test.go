package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/ffbuild/internal/core/domain"
)

func TestAction_String(t *testing.T) {
	tests := []struct {
		name     string
		action   domain.Action
		expected string
	}{
		{
			name:     "plain arguments",
			action:   domain.NewAction("ipython", "src/config.py"),
			expected: "ipython src/config.py",
		},
		{
			name:     "argument with space",
			action:   domain.NewAction("echo", "hello world"),
			expected: "echo 'hello world'",
		},
		{
			name:     "argument with quote",
			action:   domain.NewAction("echo", "it's"),
			expected: `echo 'it'\''s'`,
		},
		{
			name:     "empty argument",
			action:   domain.NewAction("printf", ""),
			expected: "printf ''",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.action.String())
		})
	}
}

func TestAction_ProgramAndArgs(t *testing.T) {
	a := domain.NewAction("jupyter", "nbconvert", "--to", "html")
	assert.Equal(t, "jupyter", a.Program())
	assert.Equal(t, []string{"nbconvert", "--to", "html"}, a.Args())

	var empty domain.Action
	assert.Empty(t, empty.Program())
	assert.Nil(t, empty.Args())
}

func TestParseChecker(t *testing.T) {
	c, ok := domain.ParseChecker("Content")
	assert.True(t, ok)
	assert.Equal(t, domain.CheckerContent, c)

	c, ok = domain.ParseChecker("")
	assert.True(t, ok)
	assert.Equal(t, domain.CheckerDefault, c)

	_, ok = domain.ParseChecker("md5")
	assert.False(t, ok)
}

func TestVerbosity_Valid(t *testing.T) {
	assert.True(t, domain.VerbosityQuiet.Valid())
	assert.True(t, domain.VerbosityInteractive.Valid())
	assert.False(t, domain.Verbosity(3).Valid())
	assert.False(t, domain.Verbosity(-1).Valid())
}

func TestNormalizePath(t *testing.T) {
	root := filepath.FromSlash("/project")

	assert.Equal(t, filepath.FromSlash("_data/pulled/CRSP_MSIX.parquet"),
		domain.NormalizePath(root, filepath.FromSlash("/project/_data/pulled/../pulled/CRSP_MSIX.parquet")))
	assert.Equal(t, filepath.FromSlash("src/config.py"),
		domain.NormalizePath(root, filepath.FromSlash("./src/config.py")))
	assert.Equal(t, filepath.FromSlash("/elsewhere/data.parquet"),
		domain.NormalizePath(root, filepath.FromSlash("/elsewhere/data.parquet")))
}

func TestNormalizePaths_Dedupes(t *testing.T) {
	got := domain.NormalizePaths("/project", []string{"a.txt", "./a.txt", "", "b.txt"})
	assert.Equal(t, []string{"a.txt", "b.txt"}, got)
}

func TestDefaultSettings(t *testing.T) {
	s := domain.DefaultSettings()
	assert.Equal(t, "src", s.SrcDir)
	assert.Equal(t, "_data", s.DataDir)
	assert.Equal(t, "_output", s.OutputDir)
	assert.Equal(t, filepath.Join(".ffbuild", "state.json"), s.StateFile)
	assert.Equal(t, filepath.Join("_data", "pulled"), s.PulledDir())
	assert.Equal(t, domain.CheckerTimestamp, s.Checker)
	assert.True(t, s.Builtins)
}

func TestBuildInfo_Matches(t *testing.T) {
	info := &domain.BuildInfo{Dependencies: map[string]string{"a": "1", "b": "2"}}

	assert.True(t, info.Matches(map[string]string{"a": "1", "b": "2"}))
	assert.False(t, info.Matches(map[string]string{"a": "1", "b": "3"}))
	assert.False(t, info.Matches(map[string]string{"a": "1"}))

	var missing *domain.BuildInfo
	assert.False(t, missing.Matches(map[string]string{}))
}
