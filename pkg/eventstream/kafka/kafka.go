// Package kafka implements eventstream.Publisher on a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/openkisan/kisanq/pkg/eventstream"
)

// DefaultTopic is the topic query events are written to.
const DefaultTopic = "kisanq.query.answered"

// Publisher writes query events to a Kafka topic, keyed by event ID so
// replays of the same event land on the same partition.
type Publisher struct {
	writer *kafkago.Writer
}

// PublisherConfig holds configuration for the Kafka publisher.
type PublisherConfig struct {
	// Brokers lists the bootstrap brokers. Required.
	Brokers []string

	// Topic overrides the event topic. Defaults to DefaultTopic.
	Topic string

	// BatchTimeout bounds how long events sit in the writer's batch
	// before being flushed. Defaults to one second.
	BatchTimeout time.Duration
}

// NewPublisher creates a Kafka publisher.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: no brokers configured", eventstream.ErrPublish)
	}

	topic := cfg.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout == 0 {
		batchTimeout = time.Second
	}

	return &Publisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Topic:        topic,
			Balancer:     &kafkago.LeastBytes{},
			BatchTimeout: batchTimeout,
		},
	}, nil
}

// PublishQuery writes a query-answered event to the topic.
func (p *Publisher) PublishQuery(ctx context.Context, event *eventstream.QueryAnsweredEvent) error {
	if event == nil {
		return eventstream.ErrNilQueryEvent
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshaling event: %v", eventstream.ErrPublish, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.EventID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", eventstream.ErrPublish, err)
	}

	return nil
}

// Close flushes pending events and closes the writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ eventstream.Publisher = (*Publisher)(nil)
