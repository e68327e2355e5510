// Package classifier separates observable pipeline steps from infrastructure sinks.
package classifier

import (
	"strings"

	"go.trai.ch/reuse/internal/core/domain"
)

// Classifier matches step and artifact names against configured patterns.
// Matching is a case-insensitive substring test and depends on nothing but the name.
type Classifier struct {
	stepPatterns []string
	filePatterns []string
}

// New creates a Classifier from the analysis configuration.
func New(cfg domain.AnalysisConfig) *Classifier {
	return &Classifier{
		stepPatterns: normalize(cfg.InfrastructureSteps),
		filePatterns: normalize(cfg.InfrastructureFiles),
	}
}

// IsInfrastructureStep reports whether name denotes an output-registration or sink step.
func (c *Classifier) IsInfrastructureStep(name string) bool {
	return matchAny(c.stepPatterns, name)
}

// IsInfrastructureFile reports whether name denotes an emitted scaffolding artifact.
func (c *Classifier) IsInfrastructureFile(name string) bool {
	return matchAny(c.filePatterns, name)
}

// normalize lowercases patterns and drops empty ones, which would match every name.
func normalize(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func matchAny(patterns []string, name string) bool {
	lower := strings.ToLower(name)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
