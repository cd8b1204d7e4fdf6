// Package vector provides interfaces and implementations for the persisted
// nearest-neighbor index over chunk embeddings.
//
// Score convention: drivers always return similarity scores in (0, 1],
// higher = more relevant. Backends that natively report distances convert
// at the driver boundary so the relevance gate compares a single scale.
package vector

import "context"

// Document represents an index entry: a chunk identifier paired with its
// embedding. The embedding dimensionality is constant across all entries
// and equals the embedding provider's output dimensionality.
type Document struct {
	// ID is the chunk identifier this entry resolves to.
	ID string

	// Embedding is the vector representation of the chunk text.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score is the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
type Driver interface {
	// Add stores index entries. Entries with an existing ID are updated.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar entries to the given embedding,
	// ordered by descending similarity.
	Query(ctx context.Context, embedding []float32, topK int) ([]QueryResult, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Close releases any resources held by the driver.
	Close() error
}
