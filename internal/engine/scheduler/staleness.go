package scheduler

import (
	"context"
	"fmt"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// IsStale reports whether the task must run, with a human readable reason.
//
// A task without targets always runs, and so does one with a missing target.
// The timestamp checker runs the task when a dependency is newer than its
// oldest target. The content checker runs it when the dependency digests
// differ from the ones recorded after its last successful run.
func (s *Scheduler) IsStale(ctx context.Context, root string, task *domain.Task) (bool, string, error) {
	if len(task.Targets) == 0 {
		return true, "no targets", nil
	}

	var oldest domain.FileState
	for _, target := range task.Targets {
		state, err := s.files.Stat(root, target.String())
		if err != nil {
			return false, "", err
		}
		if !state.Exists {
			return true, "target " + target.String() + " is missing", nil
		}
		if oldest.Path == "" || state.ModTime.Before(oldest.ModTime) {
			oldest = state
		}
	}

	if task.Checker == domain.CheckerContent {
		return s.contentChanged(ctx, root, task)
	}

	for _, dep := range task.FileDeps {
		state, err := s.files.Stat(root, dep.String())
		if err != nil {
			return false, "", err
		}
		if !state.Exists {
			return true, "dependency " + dep.String() + " is missing", nil
		}
		if state.ModTime.After(oldest.ModTime) {
			return true, fmt.Sprintf("%s is newer than %s", dep, oldest.Path), nil
		}
	}
	return false, "up to date", nil
}

func (s *Scheduler) contentChanged(ctx context.Context, root string, task *domain.Task) (bool, string, error) {
	if s.store == nil {
		return true, "no recorded state", nil
	}
	info, err := s.store.Get(task.Name.String())
	if err != nil {
		return false, "", err
	}
	if info == nil {
		return true, "no recorded state", nil
	}

	digests, err := s.hasher.DigestFiles(ctx, root, task.FileDepStrings())
	if err != nil {
		return false, "", err
	}
	for _, dep := range task.FileDeps {
		if info.Dependencies[dep.String()] != digests[dep.String()] {
			return true, "dependency " + dep.String() + " changed", nil
		}
	}
	if !info.Matches(digests) {
		return true, "dependencies changed", nil
	}
	return false, "up to date", nil
}

// TaskState is the staleness verdict of a task.
type TaskState struct {
	Task   domain.Task
	Stale  bool
	Reason string
}

// Status reports the staleness of the selected tasks without running them.
// A task is also stale when a task it depends on is stale.
func (s *Scheduler) Status(ctx context.Context, g *domain.Graph, names []string) ([]TaskState, error) {
	selected, err := Select(g, names, false)
	if err != nil {
		return nil, err
	}

	closure, err := Select(g, namesOf(selected), true)
	if err != nil {
		return nil, err
	}

	verdicts := make(map[domain.InternedString]TaskState, len(closure))
	for _, task := range closure {
		state := TaskState{Task: task}
		for _, up := range g.Upstream(task.Name) {
			if v, ok := verdicts[up]; ok && v.Stale {
				state.Stale, state.Reason = true, "upstream task "+up.String()+" is out of date"
				break
			}
		}
		if !state.Stale {
			state.Stale, state.Reason, err = s.IsStale(ctx, g.Root(), &task)
			if err != nil {
				return nil, err
			}
		}
		verdicts[task.Name] = state
	}

	states := make([]TaskState, 0, len(selected))
	for _, task := range selected {
		states = append(states, verdicts[task.Name])
	}
	return states, nil
}

func namesOf(tasks []domain.Task) []string {
	names := make([]string, len(tasks))
	for i, task := range tasks {
		names[i] = task.Name.String()
	}
	return names
}
