package logger

// ErrorEntry exposes errorEntry to the external tests.
type ErrorEntry = errorEntry

// Exported error formatting helpers for white-box testing.
var (
	CollectErrorEntries = collectErrorEntries
	FormatErrorEntries  = formatErrorEntries
)
