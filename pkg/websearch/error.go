package websearch

import "errors"

var (
	// ErrMissingAPIKey indicates a provider that requires a credential was
	// configured without one. Surfaced at startup, not at query time.
	ErrMissingAPIKey = errors.New("websearch: missing API key")

	// ErrNoResults indicates the provider answered but found nothing.
	ErrNoResults = errors.New("websearch: no results")

	// ErrUnavailable indicates the provider could not be reached or
	// rejected the request.
	ErrUnavailable = errors.New("websearch: provider unavailable")
)
