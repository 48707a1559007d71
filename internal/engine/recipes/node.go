package recipes

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/texmk/internal/adapters/logger"
	"go.trai.ch/texmk/internal/adapters/shell"
	"go.trai.ch/texmk/internal/core/domain"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the recipe registry node.
const NodeID graft.ID = "engine.recipes"

func init() {
	graft.Register(graft.Node[*domain.Registry]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*domain.Registry, error) {
			runner, err := graft.Dep[ports.ToolRunner](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewRegistry(runner, log)
		},
	})
}
