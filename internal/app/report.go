package app

import (
	"context"
	"fmt"
	"text/tabwriter"

	"go.trai.ch/ffbuild/internal/core/domain"
	"go.trai.ch/ffbuild/internal/core/ports"
	"go.trai.ch/ffbuild/internal/engine/scheduler"
	"go.trai.ch/ffbuild/internal/ui/output"
	"go.trai.ch/ffbuild/internal/ui/style"
)

// ListOptions controls a listing.
type ListOptions struct {
	// Status adds the staleness verdict of every task.
	Status bool
}

// List prints the tasks in execution order with their descriptions.
func (a *App) List(ctx context.Context, opts ports.LoadOptions, listOpts ListOptions) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	if !listOpts.Status {
		for task := range s.graph.Walk() {
			_, _ = fmt.Fprintf(tw, "%s\t%s\n", task.Name, task.Doc)
		}
		return tw.Flush()
	}

	states, err := s.scheduler.Status(ctx, s.graph, nil)
	if err != nil {
		return err
	}
	for _, state := range states {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", verdict(state), state.Task.Name, state.Reason)
	}
	return tw.Flush()
}

func verdict(state scheduler.TaskState) string {
	if state.Stale {
		return "R"
	}
	return "U"
}

// Info prints everything known about one task, including whether it would run.
func (a *App) Info(ctx context.Context, opts ports.LoadOptions, name string) error {
	s, err := a.load(opts)
	if err != nil {
		return err
	}

	states, err := s.scheduler.Status(ctx, s.graph, []string{name})
	if err != nil {
		return err
	}
	state := states[0]
	task := state.Task

	a.printf("%s\n", task.Name)
	if task.Doc != "" {
		a.printf("\n%s\n", task.Doc)
	}
	a.printf("\n")
	a.printList("file_dep", task.FileDepStrings())
	a.printList("targets", task.TargetStrings())
	a.printList("task_dep", domain.InternedStrings(task.TaskDeps))
	a.printList("upstream", domain.InternedStrings(s.graph.Upstream(task.Name)))

	actions := make([]string, len(task.Actions))
	for i, action := range task.Actions {
		actions[i] = action.String()
	}
	a.printList("actions", actions)

	checker := task.Checker
	if checker == domain.CheckerDefault {
		checker = domain.CheckerTimestamp
	}
	a.printf("checker: %s\n", checker)
	a.printf("verbosity: %d\n", task.Verbosity)
	a.printf("clean: %t\n", task.Clean)

	status := "up to date"
	if state.Stale {
		status = "out of date (" + state.Reason + ")"
	}
	a.printf("status: %s\n", status)
	return nil
}

func (a *App) printList(label string, items []string) {
	if len(items) == 0 {
		return
	}
	a.printf("%s:\n", label)
	for _, item := range items {
		a.printf("  - %s\n", item)
	}
}

func (a *App) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}

// printOutcome prints the status of every task a run selected.
func (a *App) printOutcome(s *session, names []string) {
	tasks, err := scheduler.Select(s.graph, names, true)
	if err != nil {
		return
	}

	out := output.New(a.out)
	for _, task := range tasks {
		status := s.scheduler.TaskStatus(task.Name.String())
		icon, color := style.StatusIcon(status)
		a.printf("%s %s %s\n", output.Paint(out, icon, color), task.Name, status)
	}
}
