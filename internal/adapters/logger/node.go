package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the logger Graft node.
	NodeID graft.ID = "adapter.logger"
	// LevelNodeID provides the concrete logger so the CLI can adjust its level.
	LevelNodeID graft.ID = "adapter.logger.concrete"
)

func init() {
	graft.Register(graft.Node[*Logger]{
		ID:        LevelNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Logger, error) {
			return New(), nil
		},
	})

	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{LevelNodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			v, err := graft.Dep[*Logger](ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})
}
