package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"

	progrockadapter "go.trai.ch/texmk/internal/adapters/telemetry/progrock"
	"go.trai.ch/texmk/internal/core/ports"
)

// NodeID is the unique identifier for the telemetry adapter node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			// The progrock tape repaints the terminal; fall back to the no-op
			// recorder when output is redirected.
			if info, err := os.Stdout.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
				return progrockadapter.New(), nil
			}
			return NewNoop(), nil
		},
	})
}
