package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/reuse/internal/core/ports"
)

const (
	WalkerNodeID        graft.ID = "adapter.fs.walker"
	ResolverNodeID      graft.ID = "adapter.fs.resolver"
	HasherNodeID        graft.ID = "adapter.fs.hasher"
	FingerprinterNodeID graft.ID = "adapter.fs.fingerprinter"
	SourceNodeID        graft.ID = "adapter.fs.source"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[*Resolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (*Resolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(walker), nil
		},
	})

	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (*Hasher, error) {
			return NewHasher(), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{HasherNodeID},
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			v, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	})

	graft.Register(graft.Node[ports.InputSourceFactory]{
		ID:        SourceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ResolverNodeID, HasherNodeID},
		Run: func(ctx context.Context) (ports.InputSourceFactory, error) {
			resolver, err := graft.Dep[*Resolver](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewSourceFactory(resolver, hasher), nil
		},
	})
}
