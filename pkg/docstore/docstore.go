// Package docstore provides interfaces and implementations for persisting
// the retrievable chunks produced from the Kisan Call Center dataset.
package docstore

import "context"

// Metadata keys set by the KCC ingest pipeline.
const (
	MetaState    = "state"
	MetaDistrict = "district"
	MetaCrop     = "crop"
	MetaCategory = "category"
)

// Chunk is a unit of retrievable text with its descriptive metadata.
// Chunks are immutable once created during ingest; the query pipeline
// only ever reads them.
type Chunk struct {
	// ID is a unique identifier for the chunk. Vector index entries
	// reference chunks by this ID.
	ID string

	// Text is the retrievable content (question + advisory answer).
	Text string

	// Metadata holds descriptive string attributes such as state,
	// district, crop, and query category.
	Metadata map[string]string
}

// Store persists and retrieves chunks.
type Store interface {
	// Put stores chunks. Chunks with an existing ID are replaced.
	Put(ctx context.Context, chunks []Chunk) error

	// Get retrieves chunks by their IDs. Missing IDs are skipped; the
	// result preserves the order of the requested IDs.
	Get(ctx context.Context, ids []string) ([]Chunk, error)

	// List returns all stored chunks.
	List(ctx context.Context) ([]Chunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
