package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

func newTask(name string, deps, targets []string) *domain.Task {
	return &domain.Task{
		Name:     domain.NewInternedString(name),
		FileDeps: domain.NewInternedStrings(deps),
		Targets:  domain.NewInternedStrings(targets),
	}
}

func walkNames(g *domain.Graph) []string {
	var names []string
	for task := range g.Walk() {
		names = append(names, task.Name.String())
	}
	return names
}

func TestGraph_AddTask(t *testing.T) {
	g := domain.NewGraph()
	task := domain.Task{Name: domain.NewInternedString("task1")}

	if err := g.AddTask(&task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := g.AddTask(&task); err == nil {
		t.Error("expected error when adding duplicate task, got nil")
	} else {
		zErr, ok := err.(*zerr.Error)
		if !ok {
			t.Fatalf("expected *zerr.Error, got %T", err)
		}
		meta := zErr.Metadata()
		if taskName, ok := meta["task_name"].(string); !ok || taskName != "task1" {
			t.Errorf("expected metadata task_name=task1, got %v", meta["task_name"])
		}
	}
}

func TestGraph_AddTask_DuplicateTarget(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("pull", nil, []string{"_data/pulled/CRSP_MSIX.parquet"})))

	err := g.AddTask(newTask("pull_again", nil, []string{"_data/pulled/CRSP_MSIX.parquet"}))
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrDuplicateTarget)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "pull", zErr.Metadata()["declared_by"])
	assert.Equal(t, 1, g.TaskCount())
}

func TestGraph_Validate_ProducerBeforeConsumer(t *testing.T) {
	g := domain.NewGraph()
	// Declared consumer first; the producer must still run first.
	require.NoError(t, g.AddTask(newTask("report", []string{"factors.parquet"}, []string{"report.html"})))
	require.NoError(t, g.AddTask(newTask("calc", []string{"raw.parquet"}, []string{"factors.parquet"})))
	require.NoError(t, g.AddTask(newTask("pull", []string{"load.py"}, []string{"raw.parquet"})))

	require.NoError(t, g.Validate())

	assert.Equal(t, []string{"pull", "calc", "report"}, walkNames(g))
	assert.Equal(t, []domain.InternedString{domain.NewInternedString("calc")},
		g.Upstream(domain.NewInternedString("report")))
	assert.Equal(t, []domain.InternedString{domain.NewInternedString("report")},
		g.Dependents(domain.NewInternedString("calc")))
}

func TestGraph_Validate_DeclarationOrderBreaksTies(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("convert", []string{"a.ipynb"}, []string{"_a.py"})))
	require.NoError(t, g.AddTask(newTask("pull", []string{"load.py"}, []string{"raw.parquet"})))
	require.NoError(t, g.AddTask(newTask("calc", []string{"raw.parquet"}, []string{"out.parquet"})))
	require.NoError(t, g.AddTask(newTask("render", []string{"_a.py"}, []string{"a.html"})))

	require.NoError(t, g.Validate())

	assert.Equal(t, []string{"convert", "pull", "calc", "render"}, walkNames(g))
}

func TestGraph_Validate_TaskDeps(t *testing.T) {
	g := domain.NewGraph()
	notify := newTask("notify", nil, nil)
	notify.TaskDeps = domain.NewInternedStrings([]string{"build"})
	require.NoError(t, g.AddTask(notify))
	require.NoError(t, g.AddTask(newTask("build", nil, []string{"out"})))

	require.NoError(t, g.Validate())
	assert.Equal(t, []string{"build", "notify"}, walkNames(g))
}

func TestGraph_Validate_UnknownTaskDep(t *testing.T) {
	g := domain.NewGraph()
	notify := newTask("notify", nil, nil)
	notify.TaskDeps = domain.NewInternedStrings([]string{"ghost"})
	require.NoError(t, g.AddTask(notify))

	err := g.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrMissingDependency)
}

func TestGraph_Validate_Cycle(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("A", []string{"b.out"}, []string{"a.out"})))
	require.NoError(t, g.AddTask(newTask("B", []string{"a.out"}, []string{"b.out"})))

	err := g.Validate()
	if err == nil {
		t.Fatal("expected error for cycle, got nil")
	}

	zErr, ok := err.(*zerr.Error)
	if !ok {
		t.Fatalf("expected *zerr.Error, got %T", err)
	}

	meta := zErr.Metadata()
	if cycle, ok := meta["cycle"].(string); !ok || cycle != "A -> B -> A" {
		t.Errorf("expected metadata cycle 'A -> B -> A', got %v", meta["cycle"])
	}
	assert.Empty(t, walkNames(g))
}

func TestGraph_Validate_SelfTargetIsCycle(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("loop", []string{"same.txt"}, []string{"same.txt"})))

	err := g.Validate()
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, "loop -> loop", zErr.Metadata()["cycle"])
}

func TestGraph_Walk_StopsEarly(t *testing.T) {
	g := domain.NewGraph()
	require.NoError(t, g.AddTask(newTask("A", nil, []string{"a"})))
	require.NoError(t, g.AddTask(newTask("B", []string{"a"}, []string{"b"})))
	require.NoError(t, g.Validate())

	count := 0
	for range g.Walk() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestGraph_TasksAndProducer(t *testing.T) {
	g := domain.NewGraph()
	g.SetRoot("/project")
	require.NoError(t, g.AddTask(newTask("second", nil, []string{"b"})))
	require.NoError(t, g.AddTask(newTask("first", nil, []string{"a"})))

	var names []string
	for task := range g.Tasks() {
		names = append(names, task.Name.String())
	}
	assert.Equal(t, []string{"second", "first"}, names)
	assert.Equal(t, "/project", g.Root())

	producer, ok := g.Producer("a")
	require.True(t, ok)
	assert.Equal(t, "first", producer.String())

	_, ok = g.Producer("missing")
	assert.False(t, ok)

	_, ok = g.GetTask(domain.NewInternedString("nope"))
	assert.False(t, ok)
}
