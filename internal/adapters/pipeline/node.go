package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/adapters/fs"
	"go.trai.ch/reuse/internal/adapters/logger"
	"go.trai.ch/reuse/internal/adapters/shell"
	"go.trai.ch/reuse/internal/adapters/telemetry/progrock"
	"go.trai.ch/reuse/internal/core/ports"
)

// NodeID is the unique identifier for the pipeline factory Graft node.
const NodeID graft.ID = "adapter.pipeline_factory"

func init() {
	graft.Register(graft.Node[ports.PipelineFactory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.FingerprinterNodeID, progrock.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.PipelineFactory, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(executor, fingerprinter, telemetry, log), nil
		},
	})
}
