package domain

import "strings"

// TaskStatus is the outcome of a task within one invocation.
type TaskStatus string

const (
	// StatusPending indicates the task has not been visited yet.
	StatusPending TaskStatus = "pending"
	// StatusRunning indicates the task's actions are executing.
	StatusRunning TaskStatus = "running"
	// StatusCompleted indicates the task ran and produced all of its targets.
	StatusCompleted TaskStatus = "completed"
	// StatusUpToDate indicates the task was skipped because its targets are fresh.
	StatusUpToDate TaskStatus = "up-to-date"
	// StatusFailed indicates an action failed or a target was not produced.
	StatusFailed TaskStatus = "failed"
	// StatusBlocked indicates the task was not run because an upstream task failed.
	StatusBlocked TaskStatus = "blocked"
)

// IsTerminal reports whether the status is final for this invocation.
func (s TaskStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusUpToDate, StatusFailed, StatusBlocked:
		return true
	default:
		return false
	}
}

// Succeeded reports whether dependents of a task in this status may run.
func (s TaskStatus) Succeeded() bool {
	return s == StatusCompleted || s == StatusUpToDate
}

// NormalizeTaskStatus converts a string to a TaskStatus, defaulting to pending if unknown.
func NormalizeTaskStatus(s string) TaskStatus {
	switch TaskStatus(strings.ToLower(s)) {
	case StatusRunning:
		return StatusRunning
	case StatusCompleted:
		return StatusCompleted
	case StatusUpToDate:
		return StatusUpToDate
	case StatusFailed:
		return StatusFailed
	case StatusBlocked:
		return StatusBlocked
	default:
		return StatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
