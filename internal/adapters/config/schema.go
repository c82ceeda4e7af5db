package config

// Projectfile represents the structure of the ffbuild.yaml / ffbuild.toml project file.
// Pointer fields distinguish "not set" from the zero value.
type Projectfile struct {
	SrcDir    string    `yaml:"src_dir"    toml:"src_dir"`
	DataDir   string    `yaml:"data_dir"   toml:"data_dir"`
	OutputDir string    `yaml:"output_dir" toml:"output_dir"`
	StateFile string    `yaml:"state_file" toml:"state_file"`
	Python    string    `yaml:"python"     toml:"python"`
	Jupyter   string    `yaml:"jupyter"    toml:"jupyter"`
	Jupytext  string    `yaml:"jupytext"   toml:"jupytext"`
	Markdown  *bool     `yaml:"markdown"   toml:"markdown"`
	Checker   string    `yaml:"checker"    toml:"checker"`
	Builtins  *bool     `yaml:"builtins"   toml:"builtins"`
	Tasks     []TaskDTO `yaml:"tasks"      toml:"tasks"`
}

// TaskDTO represents a task definition in the project file.
type TaskDTO struct {
	Name      string            `yaml:"name"      toml:"name"`
	Doc       string            `yaml:"doc"       toml:"doc"`
	FileDep   []string          `yaml:"file_dep"  toml:"file_dep"`
	Targets   []string          `yaml:"targets"   toml:"targets"`
	TaskDep   []string          `yaml:"task_dep"  toml:"task_dep"`
	Actions   [][]string        `yaml:"actions"   toml:"actions"`
	Clean     bool              `yaml:"clean"     toml:"clean"`
	Verbosity *int              `yaml:"verbosity" toml:"verbosity"`
	Checker   string            `yaml:"checker"   toml:"checker"`
	Env       map[string]string `yaml:"env"       toml:"env"`
	Dir       string            `yaml:"dir"       toml:"dir"`
}
