package testutils

import (
	"context"

	"github.com/openkisan/kisanq/pkg/rag"
)

// MockPipeline is a test pipeline that records calls and returns
// configurable results.
type MockPipeline struct {
	// Packet is returned by Ask.
	Packet *rag.AnswerPacket

	// Passages is returned by Search, truncated to topK.
	Passages []rag.Passage

	// AskErr causes Ask to fail.
	AskErr error

	// SearchErr causes Search to fail.
	SearchErr error

	// AskQueries accumulates the queries passed to Ask.
	AskQueries []string
}

// NewMockPipeline creates a mock pipeline with a canned local answer.
func NewMockPipeline() *MockPipeline {
	return &MockPipeline{
		Packet: &rag.AnswerPacket{
			Query:  "test query",
			Answer: "test answer",
			Source: rag.SourceLocal,
			State:  rag.StateDone,
		},
	}
}

func (m *MockPipeline) Ask(_ context.Context, query string) (*rag.AnswerPacket, error) {
	m.AskQueries = append(m.AskQueries, query)
	if m.AskErr != nil {
		return nil, m.AskErr
	}
	return m.Packet, nil
}

func (m *MockPipeline) Search(_ context.Context, _ string, topK int) ([]rag.Passage, error) {
	if m.SearchErr != nil {
		return nil, m.SearchErr
	}
	if len(m.Passages) > topK {
		return m.Passages[:topK], nil
	}
	return m.Passages, nil
}
