// Package llm provides the local answer generation capability: assembling
// a grounded prompt and invoking a local inference runtime.
package llm

import (
	"context"
	"errors"
)

// ErrGeneration is returned when the local inference runtime is
// unreachable or returns an error. Callers treat this as
// escalation-worthy rather than terminal.
var ErrGeneration = errors.New("local generation failed")

// Generator produces a natural-language answer from a prompt.
type Generator interface {
	// Generate invokes the inference runtime with the prompt and returns
	// the full completion text.
	Generate(ctx context.Context, prompt string) (string, error)

	// Close releases any resources held by the generator.
	Close() error
}

// StreamingGenerator is implemented by generators that can surface
// completion tokens as they arrive. onToken is invoked for each token;
// the full completion is still returned at the end.
type StreamingGenerator interface {
	GenerateStream(ctx context.Context, prompt string, onToken func(token string)) (string, error)
}
