package rag

import "errors"

var (
	// ErrEmptyQuery indicates the query was blank after trimming.
	ErrEmptyQuery = errors.New("rag: empty query")

	// ErrFallback indicates the fallback web search failed, which is
	// terminal: there is nothing left to answer from.
	ErrFallback = errors.New("rag: fallback search failed")

	// ErrRetrieval indicates the vector store or embedder failed during
	// retrieval.
	ErrRetrieval = errors.New("rag: retrieval failed")
)
