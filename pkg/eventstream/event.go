// Package eventstream emits analytics events for answered queries. The
// pipeline publishes one event per completed query; consumers use the
// stream to track answer quality and fallback rates over time.
package eventstream

import "time"

// SchemaVersion is the current event schema version.
const SchemaVersion = 1

// EventTypeQueryAnswered is the event type for completed queries.
const EventTypeQueryAnswered = "kisanq.query.answered"

// QueryAnsweredEvent records a completed query, whether it was answered
// from the local corpus or from web search fallback, and how relevant
// the best retrieved passage was.
type QueryAnsweredEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`

	Query     string  `json:"query"`
	Source    string  `json:"source"`
	BestScore float32 `json:"best_score"`
	Passages  int     `json:"passages"`
	ElapsedMS int64   `json:"elapsed_ms"`
	Escalated bool    `json:"escalated"`
	Failed    bool    `json:"failed"`
}
