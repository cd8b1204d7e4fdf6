package eventstream

import "context"

// Publisher delivers query events to the stream. Publishing is best
// effort from the pipeline's point of view: a failed publish must never
// fail the query it describes.
type Publisher interface {
	// PublishQuery emits a query-answered event.
	PublishQuery(ctx context.Context, event *QueryAnsweredEvent) error

	// Close flushes and releases the publisher.
	Close() error
}
