package memloader

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/fs"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	TableNodeID graft.ID = "adapter.memloader.table"
	NodeID      graft.ID = "adapter.memloader"
)

func init() {
	graft.Register(graft.Node[*Table]{
		ID:        TableNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Table, error) {
			return NewTable(), nil
		},
	})

	graft.Register(graft.Node[[]ports.ModuleLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{TableNodeID, fs.HasherNodeID, logger.NodeID},
		Run: func(ctx context.Context) ([]ports.ModuleLoader, error) {
			table, err := graft.Dep[*Table](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*fs.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return []ports.ModuleLoader{New(table, hasher, log)}, nil
		},
	})
}
