package docstore

import "errors"

var (
	// ErrNotFound is returned when a chunk is not found in the store.
	ErrNotFound = errors.New("chunk not found")

	// ErrConnection is returned when the backing database connection fails.
	ErrConnection = errors.New("document store connection failed")
)
