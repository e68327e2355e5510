package ports

// InputSourceFactory creates input sources for configured input patterns.
//
//go:generate go run go.uber.org/mock/mockgen -source=input_source_factory.go -destination=mocks/mock_input_source_factory.go -package=mocks
type InputSourceFactory interface {
	// NewSource returns a source that snapshots the files matching inputs below root.
	NewSource(root string, inputs []string) InputSource
}
