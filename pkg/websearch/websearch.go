// Package websearch defines the fallback web search interface and its
// providers. When local retrieval finds nothing relevant, the pipeline
// escalates the query to a Searcher and composes the answer from the
// returned snippets.
package websearch

import "context"

// Result is a single web search hit.
type Result struct {
	// Title is the page or answer title, if the provider returns one.
	Title string

	// Snippet is the extracted answer text.
	Snippet string

	// URL is the source link, if available.
	URL string
}

// Searcher performs a web search for a user query.
type Searcher interface {
	// Search returns up to maxResults results for the query, best first.
	// Returns ErrNoResults if the provider answered but found nothing.
	Search(ctx context.Context, query string, maxResults int) ([]Result, error)

	// Name identifies the provider for logging and answer attribution.
	Name() string

	// Close releases any resources held by the searcher.
	Close() error
}
