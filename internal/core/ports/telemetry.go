package ports

import (
	"context"
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records the progress of tasks.
type Telemetry interface {
	// Record starts recording a new vertex for the named task.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// Vertex is the recording of a single task.
type Vertex interface {
	// Stdout returns a writer that captures standard output.
	Stdout() io.Writer
	// Stderr returns a writer that captures standard error.
	Stderr() io.Writer
	// Log records a message associated with the vertex.
	Log(level domain.LogLevel, msg string)
	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the vertex as up to date.
	Cached()
}
