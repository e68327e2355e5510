package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/pipeline"           //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/render"             //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/adapters/tracefile"          //nolint:depguard // Wired in app layer
	"go.trai.ch/reuse/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.SourceNodeID,
			pipeline.NodeID,
			fs.FingerprinterNodeID,
			progrock.NodeID,
			tracefile.NodeID,
			cas.NodeID,
			render.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			logger.LevelNodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sources, err := graft.Dep[ports.InputSourceFactory](ctx)
	if err != nil {
		return nil, err
	}

	pipelines, err := graft.Dep[ports.PipelineFactory](ctx)
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

	decoder, err := graft.Dep[ports.TraceDecoder](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ReportStore](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.ReportRenderer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sources, pipelines, fingerprinter, telemetry, decoder, store, renderer, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	levels, err := graft.Dep[*logger.Logger](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:       app,
		Logger:    log,
		Levels:    levels,
		Telemetry: telemetry,
	}, nil
}
