package rag

import "time"

// Source says where an answer came from.
const (
	// SourceLocal means the answer was generated from the local corpus.
	SourceLocal = "local"

	// SourceFallback means the answer was composed from web search.
	SourceFallback = "fallback"
)

// State is the lifecycle state of a query inside the pipeline.
type State string

const (
	StateReceived          State = "RECEIVED"
	StateRetrieving        State = "RETRIEVING"
	StateAnsweringLocal    State = "ANSWERING_LOCAL"
	StateSearchingFallback State = "SEARCHING_FALLBACK"
	StateDone              State = "DONE"
	StateFailed            State = "FAILED"
)

// Snippet is one piece of supporting evidence in an answer: a gated
// corpus passage on the local path, or a web result on the fallback path.
type Snippet struct {
	// Title is set for web results; corpus passages have none.
	Title string `json:"title,omitempty"`

	// Text is the passage or web snippet text.
	Text string `json:"text"`

	// URL is the source link for web results.
	URL string `json:"url,omitempty"`

	// Score is the retrieval similarity for corpus passages, zero for
	// web results.
	Score float32 `json:"score,omitempty"`

	// Quality is the human-readable relevance band for corpus passages.
	Quality string `json:"quality,omitempty"`

	// Metadata carries the passage's provenance (state, district, crop).
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AnswerPacket is the pipeline's complete response to one query.
type AnswerPacket struct {
	Query     string        `json:"query"`
	Answer    string        `json:"answer"`
	Source    string        `json:"source"`
	Provider  string        `json:"provider,omitempty"`
	Snippets  []Snippet     `json:"snippets,omitempty"`
	BestScore float32       `json:"best_score"`
	State     State         `json:"state"`
	Escalated bool          `json:"escalated,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}
