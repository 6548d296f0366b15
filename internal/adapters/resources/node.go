package resources

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const NodeID graft.ID = "adapter.resources"

func init() {
	// Registration order matters: files override string tables on
	// logical-name collisions.
	graft.Register(graft.Node[[]ports.ResourceProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(ctx context.Context) ([]ports.ResourceProvider, error) {
			return []ports.ResourceProvider{
				NewStringsProvider(),
				NewFilesProvider(),
			}, nil
		},
	})
}
