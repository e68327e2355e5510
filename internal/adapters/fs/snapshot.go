package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputSource = (*SnapshotSource)(nil)

// SnapshotSource reads the configured input files into a new Snapshot on every call.
type SnapshotSource struct {
	resolver *Resolver
	hasher   *Hasher
	root     string
	inputs   []string
}

// NewSnapshotSource creates a SnapshotSource for the input patterns below root.
func NewSnapshotSource(resolver *Resolver, hasher *Hasher, root string, inputs []string) *SnapshotSource {
	return &SnapshotSource{
		resolver: resolver,
		hasher:   hasher,
		root:     root,
		inputs:   inputs,
	}
}

// Snapshot implements ports.InputSource.
func (s *SnapshotSource) Snapshot(ctx context.Context) (any, error) {
	paths, err := s.resolver.ResolveInputs(s.inputs, s.root)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{Root: s.root, Files: make([]domain.SnapshotFile, 0, len(paths))}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path) //nolint:gosec // Path comes from resolved inputs
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read input"), "path", path)
		}
		sum, err := s.hasher.ComputeFileHash(path)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			rel = path
		}

		snap.Files = append(snap.Files, domain.SnapshotFile{
			Path:    filepath.ToSlash(rel),
			Content: string(content),
			Hash:    fmt.Sprintf("%016x", sum),
		})
	}

	return snap, nil
}

var _ ports.InputSourceFactory = (*SourceFactory)(nil)

// SourceFactory creates SnapshotSources that share a resolver and hasher.
type SourceFactory struct {
	resolver *Resolver
	hasher   *Hasher
}

// NewSourceFactory creates a new SourceFactory.
func NewSourceFactory(resolver *Resolver, hasher *Hasher) *SourceFactory {
	return &SourceFactory{resolver: resolver, hasher: hasher}
}

// NewSource implements ports.InputSourceFactory.
func (f *SourceFactory) NewSource(root string, inputs []string) ports.InputSource {
	return NewSnapshotSource(f.resolver, f.hasher, root, inputs)
}
