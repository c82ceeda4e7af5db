package domain

import "go.trai.ch/zerr"

// Fail returns an error that matches kind under errors.Is and can carry its
// own metadata via zerr.With. A non-nil cause stays in the chain behind kind.
func Fail(kind, cause error) error {
	if cause == nil {
		return zerr.Wrap(kind, "")
	}
	return zerr.Wrap(&failure{kind: kind, cause: cause}, "")
}

// failure reports kind as its message and unwraps to cause.
type failure struct {
	kind  error
	cause error
}

func (f *failure) Error() string { return f.kind.Error() + ": " + f.cause.Error() }

func (f *failure) Message() string { return f.kind.Error() }

func (f *failure) Is(target error) bool { return target == f.kind }

func (f *failure) Unwrap() error { return f.cause }

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrDuplicateTarget is returned when two tasks declare the same target path.
	ErrDuplicateTarget = zerr.New("target is declared by more than one task")

	// ErrMissingDependency is returned when a task references a file or task that nothing provides.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrReservedTaskName is returned when a task uses a reserved name (e.g., "all").
	ErrReservedTaskName = zerr.New("task name 'all' is reserved")

	// ErrInvalidTaskName is returned when a task name is empty or contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrInvalidChecker is returned when a checker other than 'timestamp' or 'content' is configured.
	ErrInvalidChecker = zerr.New("invalid checker, expected 'timestamp' or 'content'")

	// ErrInvalidVerbosity is returned when a verbosity outside 0..2 is configured.
	ErrInvalidVerbosity = zerr.New("invalid verbosity, expected 0, 1 or 2")

	// ErrEmptyAction is returned when an action has no program to run.
	ErrEmptyAction = zerr.New("action has no command")

	// ErrActionFailed is returned when an action of a task exits unsuccessfully.
	ErrActionFailed = zerr.New("action failed")

	// ErrMissingTarget is returned when a task finished but did not produce a declared target.
	ErrMissingTarget = zerr.New("target not produced")

	// ErrUpstreamFailed is returned for tasks that were not run because a dependency failed.
	ErrUpstreamFailed = zerr.New("upstream task failed")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigFormat is returned when the config file extension is not yaml, yml or toml.
	ErrUnsupportedConfigFormat = zerr.New("unsupported config file format")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrPathStatFailed is returned when stating a path fails for a reason other than absence.
	ErrPathStatFailed = zerr.New("failed to stat path")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrTargetDirCreateFailed is returned when the parent directory of a target cannot be created.
	ErrTargetDirCreateFailed = zerr.New("failed to create target directory")

	// ErrTargetRemoveFailed is returned when cleaning a target fails.
	ErrTargetRemoveFailed = zerr.New("failed to remove target")

	// ErrUnsafeRemove is returned when a target to be removed resolves to the project root or one of its parents.
	ErrUnsafeRemove = zerr.New("refusing to remove the project root or a parent of it")
)
