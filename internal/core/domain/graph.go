// Package domain contains the core domain models and business logic for the task dependency graph.
package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of tasks.
// Edges are derived from file paths: a task depends on whichever task declares
// one of its file dependencies as a target. Explicit task dependencies add edges too.
type Graph struct {
	root           string
	tasks          map[InternedString]Task
	declared       []InternedString
	producers      map[InternedString]InternedString
	upstream       map[InternedString][]InternedString
	dependents     map[InternedString][]InternedString
	executionOrder []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		tasks:     make(map[InternedString]Task),
		producers: make(map[InternedString]InternedString),
	}
}

// SetRoot sets the directory relative paths of the graph are resolved against.
func (g *Graph) SetRoot(root string) {
	g.root = root
}

// Root returns the project root of the graph.
func (g *Graph) Root() string {
	return g.root
}

// AddTask adds a task to the graph.
// It returns an error if a task with the same name already exists or if one of
// its targets is already declared by another task.
func (g *Graph) AddTask(t *Task) error {
	if _, exists := g.tasks[t.Name]; exists {
		return zerr.With(Fail(ErrTaskAlreadyExists, nil), "task_name", t.Name.String())
	}
	for _, target := range t.Targets {
		if owner, taken := g.producers[target]; taken {
			err := zerr.With(Fail(ErrDuplicateTarget, nil), "target", target.String())
			err = zerr.With(err, "task_name", t.Name.String())
			return zerr.With(err, "declared_by", owner.String())
		}
	}
	for _, target := range t.Targets {
		g.producers[target] = t.Name
	}
	g.tasks[t.Name] = *t
	g.declared = append(g.declared, t.Name)
	g.executionOrder = nil
	return nil
}

// GetTask returns the task with the given name.
func (g *Graph) GetTask(name InternedString) (Task, bool) {
	t, ok := g.tasks[name]
	return t, ok
}

// TaskCount returns the number of tasks in the graph.
func (g *Graph) TaskCount() int {
	return len(g.tasks)
}

// Tasks returns an iterator over the tasks in declaration order.
func (g *Graph) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.declared {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}

// Producer returns the task declaring path as a target.
func (g *Graph) Producer(path string) (InternedString, bool) {
	name, ok := g.producers[NewInternedString(path)]
	return name, ok
}

// Upstream returns the tasks the named task depends on, in declaration order.
// It is populated by Validate.
func (g *Graph) Upstream(name InternedString) []InternedString {
	return g.upstream[name]
}

// Dependents returns the tasks that depend on the named task.
// It is populated by Validate.
func (g *Graph) Dependents(name InternedString) []InternedString {
	return g.dependents[name]
}

// Validate derives the edges of the graph and orders the tasks topologically.
// Ties between ready tasks are broken by declaration order, so the result is
// deterministic. It populates the execution order used by Walk.
func (g *Graph) Validate() error {
	index := make(map[InternedString]int, len(g.declared))
	for i, name := range g.declared {
		index[name] = i
	}

	g.upstream = make(map[InternedString][]InternedString, len(g.tasks))
	g.dependents = make(map[InternedString][]InternedString, len(g.tasks))

	for _, name := range g.declared {
		task := g.tasks[name]
		var ups []InternedString
		for _, dep := range task.FileDeps {
			if producer, ok := g.producers[dep]; ok && !slices.Contains(ups, producer) {
				ups = append(ups, producer)
			}
		}
		for _, dep := range task.TaskDeps {
			if _, ok := g.tasks[dep]; !ok {
				err := zerr.With(Fail(ErrMissingDependency, nil), "task", name.String())
				return zerr.With(err, "dependency", dep.String())
			}
			if !slices.Contains(ups, dep) {
				ups = append(ups, dep)
			}
		}
		slices.SortFunc(ups, func(a, b InternedString) int { return index[a] - index[b] })
		g.upstream[name] = ups
		for _, up := range ups {
			g.dependents[up] = append(g.dependents[up], name)
		}
	}

	inDegree := make(map[InternedString]int, len(g.tasks))
	var ready []int
	for i, name := range g.declared {
		inDegree[name] = len(g.upstream[name])
		if inDegree[name] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]InternedString, 0, len(g.tasks))
	for len(ready) > 0 {
		current := g.declared[ready[0]]
		ready = ready[1:]
		order = append(order, current)

		for _, dep := range g.dependents[current] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				pos, _ := slices.BinarySearch(ready, index[dep])
				ready = slices.Insert(ready, pos, index[dep])
			}
		}
	}

	if len(order) < len(g.tasks) {
		g.executionOrder = nil
		return g.findCycle(inDegree)
	}

	g.executionOrder = order
	return nil
}

// findCycle walks the tasks Kahn's algorithm could not order and reports the
// first cycle it meets.
func (g *Graph) findCycle(inDegree map[InternedString]int) error {
	visited := make(map[InternedString]int) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(u InternedString) error
	visit = func(u InternedString) error {
		visited[u] = 1
		path = append(path, u)

		for _, dep := range g.upstream[u] {
			if inDegree[dep] == 0 {
				continue
			}
			if visited[dep] == 1 {
				return g.buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		return nil
	}

	for _, name := range g.declared {
		if inDegree[name] > 0 && visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}
	return ErrCycleDetected
}

// buildCycleError constructs an error with cycle path metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	startIdx := slices.Index(path, dep)
	names := make([]string, 0, len(path)-startIdx+1)
	for _, node := range path[startIdx:] {
		names = append(names, node.String())
	}
	names = append(names, dep.String())
	return zerr.With(Fail(ErrCycleDetected, nil), "cycle", strings.Join(names, " -> "))
}

// Walk returns an iterator that yields tasks in execution order.
// It assumes Validate() has been called and returned nil.
func (g *Graph) Walk() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range g.executionOrder {
			if !yield(g.tasks[name]) {
				return
			}
		}
	}
}
