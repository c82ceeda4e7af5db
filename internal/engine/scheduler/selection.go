package scheduler

import (
	"slices"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// AllTasks selects every task of the graph.
const AllTasks = "all"

// Select returns the named tasks in execution order. With withUpstream, the
// tasks they depend on are included. No names, or "all", selects every task.
func Select(g *domain.Graph, names []string, withUpstream bool) ([]domain.Task, error) {
	if len(names) == 0 || slices.Contains(names, AllTasks) {
		return slices.Collect(g.Walk()), nil
	}

	wanted := make(map[domain.InternedString]bool, len(names))
	var queue []domain.InternedString
	for _, name := range names {
		key := domain.NewInternedString(name)
		if _, ok := g.GetTask(key); !ok {
			return nil, zerr.With(domain.Fail(domain.ErrTaskNotFound, nil), "task", name)
		}
		if !wanted[key] {
			wanted[key] = true
			queue = append(queue, key)
		}
	}

	for withUpstream && len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, up := range g.Upstream(current) {
			if !wanted[up] {
				wanted[up] = true
				queue = append(queue, up)
			}
		}
	}

	selected := make([]domain.Task, 0, len(wanted))
	for task := range g.Walk() {
		if wanted[task.Name] {
			selected = append(selected, task)
		}
	}
	return selected, nil
}

// Check verifies that every file dependency of the tasks either exists or is
// the target of a task in the graph.
func (s *Scheduler) Check(g *domain.Graph, tasks []domain.Task) error {
	for _, task := range tasks {
		for _, dep := range task.FileDeps {
			if _, produced := g.Producer(dep.String()); produced {
				continue
			}
			state, err := s.files.Stat(g.Root(), dep.String())
			if err != nil {
				return zerr.With(err, "task", task.Name.String())
			}
			if !state.Exists {
				err := zerr.With(domain.Fail(domain.ErrMissingDependency, nil), "task", task.Name.String())
				return zerr.With(err, "dependency", dep.String())
			}
		}
	}
	return nil
}
