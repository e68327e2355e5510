package domain

import (
	"cmp"
	"slices"
)

// Violation is a forbidden-type instance reachable from a step's output.
type Violation struct {
	Step string `json:"step"`
	Type string `json:"type"`
	// Path is the member chain from the output root, e.g. "Model.Items[2]".
	Path string `json:"path"`
}

// CompareViolations orders violations by step, type, then path.
func CompareViolations(a, b Violation) int {
	return cmp.Or(
		cmp.Compare(a.Step, b.Step),
		cmp.Compare(a.Type, b.Type),
		cmp.Compare(a.Path, b.Path),
	)
}

// SortViolations sorts in place and drops duplicate triples.
func SortViolations(vs []Violation) []Violation {
	slices.SortFunc(vs, CompareViolations)
	return slices.Compact(vs)
}
