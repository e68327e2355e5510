// Package config provides the reuse.yaml loader.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/reuse/internal/core/domain"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Filename is the name of the configuration file.
const Filename = "reuse.yaml"

// SupportedVersion is the only configuration version understood by the loader.
const SupportedVersion = "1"

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using YAML files.
type Loader struct {
	logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads a project from path. If path is a directory, the nearest
// reuse.yaml in it or one of its parents is used.
func (l *Loader) Load(path string) (*domain.Project, error) {
	configPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", configPath)
	}

	var file Reusefile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", configPath)
	}

	project, err := l.build(&file, filepath.Dir(configPath))
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return project, nil
}

func (l *Loader) build(file *Reusefile, root string) (*domain.Project, error) {
	switch file.Version {
	case SupportedVersion:
	case "":
		l.warn(fmt.Sprintf("no version set, assuming %q", SupportedVersion))
	default:
		return nil, zerr.With(zerr.New("unsupported config version"), "version", file.Version)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve project root")
	}

	name := file.Pipeline
	if name == "" {
		name = filepath.Base(absRoot)
	}

	tracking := true
	if file.Tracking != nil {
		tracking = *file.Tracking
	}
	if !tracking {
		l.warn("step tracking is disabled; caching checks will fail")
	}

	graph, err := l.buildGraph(file.Steps, absRoot)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		Name:     name,
		Root:     absRoot,
		Tracking: tracking,
		Inputs:   canonicalizeStrings(file.Inputs),
		Analysis: domain.AnalysisConfig{
			ForbiddenTypes:      canonicalizeStrings(file.Analysis.ForbiddenTypes),
			SafeTypes:           canonicalizeStrings(file.Analysis.SafeTypes),
			InfrastructureSteps: canonicalizeStrings(file.Analysis.InfrastructureSteps),
			InfrastructureFiles: canonicalizeStrings(file.Analysis.InfrastructureFiles),
			Parallelism:         file.Analysis.Parallelism,
		}.WithDefaults(),
		Steps: graph,
	}, nil
}

func (l *Loader) buildGraph(steps map[string]StepDTO, root string) (*domain.StepGraph, error) {
	if len(steps) == 0 {
		return nil, zerr.New("no steps defined")
	}

	g := domain.NewStepGraph()
	for _, name := range slices.Sorted(maps.Keys(steps)) {
		dto := steps[name]
		if name == "" {
			return nil, zerr.New("step name must not be empty")
		}
		if len(dto.Cmd) == 0 {
			l.warn(fmt.Sprintf("step %q has no command and passes its input through", name))
		}

		workDir := root
		if dto.WorkingDir != "" {
			workDir = filepath.Join(root, dto.WorkingDir)
		}

		step := &domain.StepDef{
			Name:        domain.NewInternedString(name),
			Command:     dto.Cmd,
			Environment: dto.Environment,
			WorkingDir:  domain.NewInternedString(workDir),
			DependsOn:   domain.NewInternedStrings(dto.DependsOn),
			Emit:        dto.Emit,
		}
		if err := g.AddStep(step); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func (l *Loader) warn(msg string) {
	if l.logger != nil {
		l.logger.Warn(msg)
	}
}

// resolvePath returns path itself for files and the nearest reuse.yaml for directories.
func resolvePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to stat config path"), "path", path)
	}
	if !info.IsDir() {
		return path, nil
	}
	return Discover(path)
}

// Discover searches dir and its parents for reuse.yaml.
func Discover(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve directory")
	}
	for current := abs; ; {
		candidate := filepath.Join(current, Filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", zerr.With(zerr.New("config file not found"), "start", abs)
		}
		current = parent
	}
}

func canonicalizeStrings(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}
	sorted := slices.Clone(strs)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
