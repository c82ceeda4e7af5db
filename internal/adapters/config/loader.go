// Package config loads the ffbuild project file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const (
	// EnvDataDir overrides the data root of the project file.
	EnvDataDir = "DATA_DIR"
	// EnvOutputDir overrides the output root of the project file.
	EnvOutputDir = "OUTPUT_DIR"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for YAML and TOML project files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load resolves the project file and returns the settings and user tasks.
// Without a project file the defaults are returned, rooted at opts.Dir.
// Values are layered: defaults, project file, environment, then opts.
func (l *Loader) Load(opts ports.LoadOptions) (*domain.Project, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}

	path, err := discover(dir, opts.ConfigFile)
	if err != nil {
		return nil, err
	}

	pf := &Projectfile{}
	root := dir
	if path != "" {
		pf, err = parse(path)
		if err != nil {
			return nil, err
		}
		root = filepath.Dir(path)
	}

	root, err = filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(domain.Fail(domain.ErrConfigReadFailed, err), "path", root)
	}

	settings, err := buildSettings(root, pf)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		settings.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		settings.OutputDir = v
	}
	if opts.DataDir != "" {
		settings.DataDir = opts.DataDir
	}
	if opts.OutputDir != "" {
		settings.OutputDir = opts.OutputDir
	}

	tasks := make([]domain.Task, 0, len(pf.Tasks))
	for i := range pf.Tasks {
		task, err := l.buildTask(settings, &pf.Tasks[i])
		if err != nil {
			return nil, zerr.With(err, "path", path)
		}
		tasks = append(tasks, task)
	}

	return &domain.Project{
		Settings:   settings,
		Tasks:      tasks,
		ConfigPath: path,
	}, nil
}

// discover returns the project file to load, or "" when none exists.
// An explicitly named file must exist.
func discover(dir, explicit string) (string, error) {
	if explicit != "" {
		if !filepath.IsAbs(explicit) {
			explicit = filepath.Join(dir, explicit)
		}
		if _, err := os.Stat(explicit); err != nil {
			return "", zerr.With(domain.Fail(domain.ErrConfigReadFailed, err), "path", explicit)
		}
		return explicit, nil
	}

	for _, name := range domain.ConfigFileNames {
		candidate := filepath.Join(dir, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", zerr.With(domain.Fail(domain.ErrConfigReadFailed, err), "path", candidate)
		}
	}
	return "", nil
}

func parse(path string) (*Projectfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(domain.Fail(domain.ErrConfigReadFailed, err), "path", path)
	}

	var pf Projectfile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &pf)
	case ".toml":
		err = toml.Unmarshal(data, &pf)
	default:
		return nil, zerr.With(domain.Fail(domain.ErrUnsupportedConfigFormat, nil), "path", path)
	}
	if err != nil {
		return nil, zerr.With(domain.Fail(domain.ErrConfigParseFailed, err), "path", path)
	}
	return &pf, nil
}

func buildSettings(root string, pf *Projectfile) (domain.Settings, error) {
	s := domain.DefaultSettings()
	s.Root = root

	setIf(&s.SrcDir, pf.SrcDir)
	setIf(&s.DataDir, pf.DataDir)
	setIf(&s.OutputDir, pf.OutputDir)
	setIf(&s.StateFile, pf.StateFile)
	setIf(&s.Python, pf.Python)
	setIf(&s.Jupyter, pf.Jupyter)
	setIf(&s.Jupytext, pf.Jupytext)

	if pf.Markdown != nil {
		s.Markdown = *pf.Markdown
	}
	if pf.Builtins != nil {
		s.Builtins = *pf.Builtins
	}

	if pf.Checker != "" {
		checker, ok := domain.ParseChecker(pf.Checker)
		if !ok {
			return s, zerr.With(domain.Fail(domain.ErrInvalidChecker, nil), "checker", pf.Checker)
		}
		s.Checker = checker
	}
	return s, nil
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (l *Loader) buildTask(s domain.Settings, dto *TaskDTO) (domain.Task, error) {
	if err := validateTaskName(dto.Name); err != nil {
		return domain.Task{}, err
	}

	verbosity := domain.VerbosityNormal
	if dto.Verbosity != nil {
		verbosity = domain.Verbosity(*dto.Verbosity)
		if !verbosity.Valid() {
			return domain.Task{}, zerr.With(zerr.With(domain.Fail(domain.ErrInvalidVerbosity, nil), "task_name", dto.Name), "verbosity", *dto.Verbosity)
		}
	}

	checker, ok := domain.ParseChecker(dto.Checker)
	if !ok {
		return domain.Task{}, zerr.With(zerr.With(domain.Fail(domain.ErrInvalidChecker, nil), "task_name", dto.Name), "checker", dto.Checker)
	}
	if checker == domain.CheckerDefault {
		checker = s.Checker
	}

	actions := make([]domain.Action, 0, len(dto.Actions))
	for i, argv := range dto.Actions {
		if len(argv) == 0 || argv[0] == "" {
			return domain.Task{}, zerr.With(zerr.With(domain.Fail(domain.ErrEmptyAction, nil), "task_name", dto.Name), "action", i)
		}
		actions = append(actions, domain.Action{Argv: argv})
	}

	dir := s.Root
	if dto.Dir != "" {
		dir = domain.ResolvePath(s.Root, dto.Dir)
	}

	if dto.Clean && len(dto.Targets) == 0 {
		l.logger.Warn("task " + dto.Name + " sets clean but declares no targets")
	}

	return domain.Task{
		Name:        domain.NewInternedString(dto.Name),
		Doc:         dto.Doc,
		FileDeps:    domain.NewInternedStrings(domain.NormalizePaths(s.Root, dto.FileDep)),
		Targets:     domain.NewInternedStrings(domain.NormalizePaths(s.Root, dto.Targets)),
		TaskDeps:    domain.NewInternedStrings(dto.TaskDep),
		Actions:     actions,
		Clean:       dto.Clean,
		Verbosity:   verbosity,
		Checker:     checker,
		Environment: dto.Env,
		WorkingDir:  domain.NewInternedString(filepath.Clean(dir)),
	}, nil
}

func validateTaskName(name string) error {
	if name == "all" {
		return zerr.With(domain.Fail(domain.ErrReservedTaskName, nil), "task_name", name)
	}
	if name == "" || strings.ContainsAny(name, ": \t\n") {
		return zerr.With(domain.Fail(domain.ErrInvalidTaskName, nil), "task_name", name)
	}
	return nil
}
