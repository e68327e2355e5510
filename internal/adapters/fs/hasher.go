package fs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/reuse/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Fingerprinter = (*Hasher)(nil)

// Hasher computes content fingerprints of files and values.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// Fingerprint hashes the Go type of v together with its JSON encoding.
// Map keys are encoded in sorted order, so equal values hash equally.
// Values without a JSON encoding (channels, functions, cycles) yield an error.
func (h *Hasher) Fingerprint(v any) (string, error) {
	hasher := xxhash.New()
	_, _ = fmt.Fprintf(hasher, "%T", v)
	_, _ = hasher.Write([]byte{0})

	if err := json.NewEncoder(hasher).Encode(v); err != nil {
		return "", zerr.With(zerr.Wrap(err, "value has no canonical encoding"), "type", fmt.Sprintf("%T", v))
	}

	return fmt.Sprintf("%016x", hasher.Sum64()), nil
}
