package scheduler

import (
	"context"
	"errors"
	"slices"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions controls a Clean.
type CleanOptions struct {
	// DryRun reports the targets that would be removed without removing them.
	DryRun bool
	// CleanDeps also cleans the tasks the named tasks depend on.
	CleanDeps bool
}

// Clean removes the targets of the named tasks, dependents first. Tasks
// without the clean flag are skipped. It returns the removed paths, or the
// paths that would be removed on a dry run.
func (s *Scheduler) Clean(ctx context.Context, g *domain.Graph, names []string, opts CleanOptions) ([]string, error) {
	selected, err := Select(g, names, opts.CleanDeps)
	if err != nil {
		return nil, err
	}
	slices.Reverse(selected)

	var removed []string
	var errs error
	for _, task := range selected {
		if err := ctx.Err(); err != nil {
			return removed, errors.Join(errs, err)
		}
		if !task.Clean {
			s.logger.Info(task.Name.String() + " has no clean flag, skipping")
			continue
		}
		for _, target := range task.Targets {
			path := target.String()
			if opts.DryRun {
				state, err := s.files.Stat(g.Root(), path)
				if err != nil {
					errs = errors.Join(errs, zerr.With(err, "task", task.Name.String()))
					continue
				}
				if state.Exists {
					removed = append(removed, path)
				}
				continue
			}

			ok, err := s.files.Remove(g.Root(), path)
			if err != nil {
				errs = errors.Join(errs, zerr.With(err, "task", task.Name.String()))
				continue
			}
			if ok {
				removed = append(removed, path)
				s.logger.Info("removed " + path)
			}
		}
	}
	return removed, errs
}

// Forget drops the recorded dependency digests of the named tasks, so that
// content-checked tasks run again. No names forgets every task.
func (s *Scheduler) Forget(g *domain.Graph, names []string) error {
	selected, err := Select(g, names, false)
	if err != nil {
		return err
	}
	if s.store == nil {
		return nil
	}
	for _, task := range selected {
		if err := s.store.Delete(task.Name.String()); err != nil {
			return zerr.With(err, "task", task.Name.String())
		}
		s.logger.Info("forgot " + task.Name.String())
	}
	return nil
}
