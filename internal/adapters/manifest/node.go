package manifest

import (
	"context"

	"github.com/grindlemire/graft"

	"go.trai.ch/texmk/internal/adapters/config"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the manifest store node.
const NodeID graft.ID = "adapter.manifest"

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.NodeID},
		Run: func(ctx context.Context) (ports.ManifestStore, error) {
			loader, err := graft.Dep[*config.Loader](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := loader.Load(".")
			if err != nil {
				return nil, err
			}
			path := cfg.Manifest
			if path == "" {
				path = DefaultPath
			}
			return NewStore(path)
		},
	})
}
