package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/ffbuild/internal/core/ports"
)

// NodeID is the unique identifier for the build info store opener node.
const NodeID graft.ID = "adapter.build_info_store"

func init() {
	graft.Register(graft.Node[ports.StoreOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StoreOpener, error) {
			return NewOpener(), nil
		},
	})
}
