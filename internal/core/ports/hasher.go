package ports

import "context"

// Hasher defines the interface for computing content digests of files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// DigestFiles returns a digest per path, keyed by the path as given.
	DigestFiles(ctx context.Context, root string, paths []string) (map[string]string, error)
}
