package testutils

import (
	"context"
	"fmt"
)

// MockEmbedder returns canned embeddings keyed by input text, so tests
// can control which stored chunk a query lands nearest to.
type MockEmbedder struct {
	Embeddings map[string][]float32

	// Dimensions sizes the default embedding returned for unknown text.
	Dimensions int

	// FailOn causes Embed to return an error when the input matches.
	FailOn string

	// Calls counts Embed invocations.
	Calls int
}

func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{
		Embeddings: make(map[string][]float32),
		Dimensions: 3,
	}
}

func (m *MockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.Calls++

	if m.FailOn != "" && text == m.FailOn {
		return nil, fmt.Errorf("mock embedding failure for: %s", text)
	}

	if emb, ok := m.Embeddings[text]; ok {
		return emb, nil
	}

	// Deterministic filler for any text not explicitly mapped.
	emb := make([]float32, m.Dimensions)
	for i := range emb {
		emb[i] = float32(i+1) / 10
	}
	return emb, nil
}

func (m *MockEmbedder) Close() error {
	return nil
}
