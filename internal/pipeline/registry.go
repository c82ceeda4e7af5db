// Package pipeline declares the Fama-French 1993 replication tasks: pulling the
// CRSP and Compustat extracts, computing the factors, and converting and
// rendering the accompanying notebooks.
package pipeline

import (
	"path/filepath"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/notebook"
)

// Names of the built-in tasks. They are part of the command line contract.
const (
	PullTask    = "pull_CRSP_Compustat"
	CalcTask    = "calc_Fama_French_1993_factors"
	ConvertTask = "convert_notebooks_to_scripts"
	RunTask     = "run_notebooks"
)

// Notebooks lists the notebook stems rendered into reports, in order.
var Notebooks = []string{
	"01_wrds_python_package",
	"02_CRSP_market_index",
	"03_Fama_French_1993",
}

// Extracts written by the pull scripts into the pulled data directory.
var pulledExtracts = []string{
	"CRSP_MSF_INDEX_INPUTS.parquet",
	"CRSP_MSIX.parquet",
	"Compustat.parquet",
	"CRSP_stock_ciz.parquet",
	"CRSP_Comp_Link_Table.parquet",
	"FF_FACTORS.parquet",
}

// Extracts read by the factor calculation.
var calcInputs = []string{
	"Compustat.parquet",
	"CRSP_stock_ciz.parquet",
	"CRSP_Comp_Link_Table.parquet",
	"FF_FACTORS.parquet",
}

// Factor series written by the calculation into the pulled data directory.
var factorOutputs = []string{
	"FF_1993_vwret.parquet",
	"FF_1993_vwret_n.parquet",
	"FF_1993_factors.parquet",
	"FF_1993_nfirms.parquet",
}

// ComparisonPlot is the figure comparing the replicated factors to the published ones.
const ComparisonPlot = "FF_1993_Comparison.png"

// Registry holds the built-in task definitions for a project.
// Building the definitions has no side effects on disk.
type Registry struct {
	settings  domain.Settings
	converter notebook.Converter
}

// New creates a Registry for the given settings.
func New(s domain.Settings) *Registry {
	return &Registry{
		settings:  s,
		converter: notebook.New(s),
	}
}

// Tasks returns the built-in tasks in declaration order.
// It returns nothing when built-ins are disabled in the settings.
func (r *Registry) Tasks() []domain.Task {
	if !r.settings.Builtins {
		return nil
	}
	return []domain.Task{
		r.pullTask(),
		r.calcTask(),
		r.convertTask(),
		r.runNotebooksTask(),
	}
}

// Graph builds and validates the task graph of the built-in tasks followed by extra.
func (r *Registry) Graph(extra ...domain.Task) (*domain.Graph, error) {
	g := domain.NewGraph()
	g.SetRoot(r.settings.Root)

	tasks := append(r.Tasks(), extra...)
	for i := range tasks {
		if err := g.AddTask(&tasks[i]); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (r *Registry) pullTask() domain.Task {
	scripts := []string{
		r.src("config.py"),
		r.src("load_CRSP_stock.py"),
		r.src("load_CRSP_Compustat.py"),
	}
	actions := make([]domain.Action, len(scripts))
	for i, script := range scripts {
		actions[i] = domain.NewAction(r.settings.Python, script)
	}

	return r.task(domain.Task{
		Name:      domain.NewInternedString(PullTask),
		Doc:       "Pull CRSP and Compustat extracts from WRDS",
		FileDeps:  r.paths(scripts...),
		Targets:   r.paths(r.pulled(pulledExtracts...)...),
		Actions:   actions,
		Clean:     true,
		Verbosity: domain.VerbosityInteractive,
	})
}

func (r *Registry) calcTask() domain.Task {
	deps := append([]string{
		r.src("calc_Fama_French_1993_factors.py"),
		r.src("misc_tools.py"),
	}, r.pulled(calcInputs...)...)

	targets := append(r.pulled(factorOutputs...), filepath.Join(r.settings.OutputDir, ComparisonPlot))

	return r.task(domain.Task{
		Name:     domain.NewInternedString(CalcTask),
		Doc:      "Calculate the Fama-French 1993 factors and compare them to the published series",
		FileDeps: r.paths(deps...),
		Targets:  r.paths(targets...),
		Actions: []domain.Action{
			domain.NewAction(r.settings.Python, r.src("calc_Fama_French_1993_factors.py")),
		},
		Clean:     true,
		Verbosity: domain.VerbosityNormal,
	})
}

func (r *Registry) convertTask() domain.Task {
	deps := make([]string, 0, len(Notebooks))
	targets := make([]string, 0, len(Notebooks))
	actions := make([]domain.Action, 0, 2*len(Notebooks))

	for _, nb := range Notebooks {
		deps = append(deps, r.converter.Path(nb))
		targets = append(targets, r.converter.ScriptPath(nb, ""))
	}
	for _, nb := range Notebooks {
		actions = append(actions, r.converter.ClearOutput(nb))
	}
	for _, nb := range Notebooks {
		actions = append(actions, r.converter.ToScript(nb, ""))
	}

	return r.task(domain.Task{
		Name:      domain.NewInternedString(ConvertTask),
		Doc:       "Clear notebook outputs and export them as Python scripts",
		FileDeps:  r.paths(deps...),
		Targets:   r.paths(targets...),
		Actions:   actions,
		Clean:     true,
		Verbosity: domain.VerbosityNormal,
	})
}

func (r *Registry) runNotebooksTask() domain.Task {
	deps := make([]string, 0, len(Notebooks))
	targets := make([]string, 0, 2*len(Notebooks))
	for _, nb := range Notebooks {
		deps = append(deps, r.converter.ScriptPath(nb, ""))
		targets = append(targets, r.converter.HTMLPath(nb, ""))
		if r.settings.Markdown {
			targets = append(targets, r.converter.MarkdownPath(nb, ""))
		}
	}

	var actions []domain.Action
	for _, nb := range Notebooks {
		actions = append(actions, r.converter.Execute(nb))
	}
	for _, nb := range Notebooks {
		actions = append(actions, r.converter.ToHTML(nb, ""))
	}
	if r.settings.Markdown {
		for _, nb := range Notebooks {
			actions = append(actions, r.converter.ToMarkdown(nb, ""))
		}
	}
	for _, nb := range Notebooks {
		actions = append(actions, r.converter.ClearOutput(nb))
	}

	return r.task(domain.Task{
		Name:      domain.NewInternedString(RunTask),
		Doc:       "Execute the notebooks and render them as reports",
		FileDeps:  r.paths(deps...),
		Targets:   r.paths(targets...),
		Actions:   actions,
		Clean:     true,
		Verbosity: domain.VerbosityNormal,
	})
}

// task fills in the fields shared by every built-in task.
func (r *Registry) task(t domain.Task) domain.Task {
	t.Checker = r.settings.Checker
	if r.settings.Root != "" {
		t.WorkingDir = domain.NewInternedString(r.settings.Root)
	}
	return t
}

func (r *Registry) src(name string) string {
	return filepath.Join(r.settings.SrcDir, name)
}

func (r *Registry) pulled(names ...string) []string {
	result := make([]string, len(names))
	for i, name := range names {
		result[i] = filepath.Join(r.settings.PulledDir(), name)
	}
	return result
}

func (r *Registry) paths(paths ...string) []domain.InternedString {
	return domain.NewInternedStrings(domain.NormalizePaths(r.settings.Root, paths))
}
