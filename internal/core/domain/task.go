package domain

import (
	"strings"
)

// Verbosity controls how the output of a task's actions reaches the terminal.
type Verbosity int

const (
	// VerbosityQuiet captures stdout and stderr and prints them only when an action fails.
	VerbosityQuiet Verbosity = 0
	// VerbosityNormal captures stdout and streams stderr.
	VerbosityNormal Verbosity = 1
	// VerbosityInteractive streams both streams and attaches stdin, for tasks that prompt.
	VerbosityInteractive Verbosity = 2
)

// Valid reports whether v is one of the known verbosity levels.
func (v Verbosity) Valid() bool {
	return v >= VerbosityQuiet && v <= VerbosityInteractive
}

// Checker selects how a task decides that its targets are out of date.
type Checker string

const (
	// CheckerDefault defers to the project setting.
	CheckerDefault Checker = ""
	// CheckerTimestamp compares modification times of dependencies and targets.
	CheckerTimestamp Checker = "timestamp"
	// CheckerContent compares digests of dependencies against the last successful run.
	CheckerContent Checker = "content"
)

// ParseChecker converts a configuration string to a Checker.
func ParseChecker(s string) (Checker, bool) {
	switch Checker(strings.ToLower(strings.TrimSpace(s))) {
	case CheckerDefault:
		return CheckerDefault, true
	case CheckerTimestamp:
		return CheckerTimestamp, true
	case CheckerContent:
		return CheckerContent, true
	default:
		return "", false
	}
}

// Action is a single external command invocation, stored as an argument vector.
type Action struct {
	Argv []string
}

// NewAction creates an Action from a program name and its arguments.
func NewAction(program string, args ...string) Action {
	argv := make([]string, 0, len(args)+1)
	argv = append(argv, program)
	argv = append(argv, args...)
	return Action{Argv: argv}
}

// Program returns the executable name of the action.
func (a Action) Program() string {
	if len(a.Argv) == 0 {
		return ""
	}
	return a.Argv[0]
}

// Args returns the arguments passed to the program.
func (a Action) Args() []string {
	if len(a.Argv) < 2 {
		return nil
	}
	return a.Argv[1:]
}

// String renders the action as a shell-quoted command line for display.
func (a Action) String() string {
	parts := make([]string, len(a.Argv))
	for i, arg := range a.Argv {
		parts[i] = quoteArg(arg)
	}
	return strings.Join(parts, " ")
}

func quoteArg(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`;&|<>*?()[]{}!#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Task represents a unit of work in the build system.
// It uses InternedString for fields that are frequently repeated to save memory.
type Task struct {
	Name        InternedString
	Doc         string
	FileDeps    []InternedString
	Targets     []InternedString
	TaskDeps    []InternedString
	Actions     []Action
	Clean       bool
	Verbosity   Verbosity
	Checker     Checker
	Environment map[string]string
	WorkingDir  InternedString
}

// TargetStrings returns the targets as plain strings.
func (t *Task) TargetStrings() []string {
	return InternedStrings(t.Targets)
}

// FileDepStrings returns the file dependencies as plain strings.
func (t *Task) FileDepStrings() []string {
	return InternedStrings(t.FileDeps)
}
