package nop_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/eventstream"
	"github.com/openkisan/kisanq/pkg/eventstream/nop"
)

var _ = Describe("Publisher", func() {
	It("accepts and discards events", func() {
		publisher := nop.NewPublisher()
		defer publisher.Close()

		err := publisher.PublishQuery(context.Background(), &eventstream.QueryAnsweredEvent{
			SchemaVersion: eventstream.SchemaVersion,
			EventID:       "evt-1",
			EventType:     eventstream.EventTypeQueryAnswered,
			Timestamp:     time.Now(),
			Query:         "q",
			Source:        "local",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects nil events", func() {
		publisher := nop.NewPublisher()
		defer publisher.Close()

		err := publisher.PublishQuery(context.Background(), nil)
		Expect(err).To(MatchError(eventstream.ErrNilQueryEvent))
	})
})
