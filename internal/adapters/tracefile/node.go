package tracefile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/core/ports"
)

// NodeID is the unique identifier for the trace decoder Graft node.
const NodeID graft.ID = "adapter.trace_decoder"

func init() {
	graft.Register(graft.Node[ports.TraceDecoder]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TraceDecoder, error) {
			return NewDecoder(), nil
		},
	})
}
