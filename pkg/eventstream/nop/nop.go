// Package nop provides a Publisher that discards events, used when the
// event stream is disabled.
package nop

import (
	"context"

	"github.com/openkisan/kisanq/pkg/eventstream"
)

// Publisher discards every event.
type Publisher struct{}

// NewPublisher creates a discarding publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishQuery validates the event and discards it.
func (p *Publisher) PublishQuery(ctx context.Context, event *eventstream.QueryAnsweredEvent) error {
	if event == nil {
		return eventstream.ErrNilQueryEvent
	}
	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}

var _ eventstream.Publisher = (*Publisher)(nil)
