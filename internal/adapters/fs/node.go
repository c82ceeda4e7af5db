package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the directory walker node.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// FileSystemNodeID is the unique identifier for the file system node.
	FileSystemNodeID graft.ID = "adapter.fs.filesystem"
	// HasherNodeID is the unique identifier for the content hasher node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewFileSystem(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.Hasher, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewHasher(walker), nil
		},
	})
}
