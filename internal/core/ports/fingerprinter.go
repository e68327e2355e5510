package ports

// Fingerprinter computes structural fingerprints of values.
// Two values with equal fingerprints are considered logically equal.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a stable digest of v's content.
	// It returns an error for values without a canonical encoding.
	Fingerprint(v any) (string, error)
}
