package domain

import "strings"

// Snapshot is the content of a pipeline's input files at one point in time.
// Two snapshots taken without changes in between are equal but distinct.
type Snapshot struct {
	Root  string
	Files []SnapshotFile
}

// SnapshotFile is one input file of a Snapshot.
type SnapshotFile struct {
	// Path is relative to the snapshot root, with forward slashes.
	Path    string
	Content string
	Hash    string
}

// Text returns the concatenated content of all files in path order.
func (s *Snapshot) Text() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	for _, f := range s.Files {
		b.WriteString(f.Content)
	}
	return b.String()
}
