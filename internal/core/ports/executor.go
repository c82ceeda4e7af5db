package ports

import (
	"context"
	"io"

	"go.trai.ch/ffbuild/internal/core/domain"
)

// Streams are the standard streams handed to a running action.
// Executors forward a nil writer to their logger; a nil reader leaves stdin unattached.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Executor defines the interface for executing the actions of a task.
//
//go:generate go run go.uber.org/mock/mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs a single action of the given task and waits for it to finish.
	//
	// The task provides the working directory and extra environment variables.
	// It returns an error if the command cannot be started or exits non-zero.
	Execute(ctx context.Context, task *domain.Task, action domain.Action, streams Streams) error
}
