package vector

import "errors"

var (
	// ErrNotFound is returned when an entry is not found in the vector store.
	ErrNotFound = errors.New("index entry not found")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")

	// ErrDimensions is returned when an embedding's dimensionality does not
	// match the index configuration.
	ErrDimensions = errors.New("embedding dimensions mismatch")
)
