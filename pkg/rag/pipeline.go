// Package rag wires retrieval, the relevance gate, local generation, and
// web search fallback into the question-answering pipeline.
//
// A query moves through a fixed lifecycle: RECEIVED, RETRIEVING, then
// either ANSWERING_LOCAL or SEARCHING_FALLBACK, ending in DONE or FAILED.
// A query escalates from the local path to fallback at most once, when
// retrieval finds nothing relevant or local generation fails. A failed
// fallback is terminal.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/embeddings"
	"github.com/openkisan/kisanq/pkg/eventstream"
	"github.com/openkisan/kisanq/pkg/llm"
	"github.com/openkisan/kisanq/pkg/vector"
	"github.com/openkisan/kisanq/pkg/websearch"
)

// Pipeline answers queries from the local corpus when retrieval is
// relevant enough, and from web search otherwise.
type Pipeline struct {
	embedder   embeddings.Embedder
	driver     vector.Driver
	docs       docstore.Store
	generator  llm.Generator
	searcher   websearch.Searcher
	publisher  eventstream.Publisher
	gate       Gate
	maxResults int
	logger     *slog.Logger
}

// PipelineConfig holds the pipeline's collaborators. Embedder, Driver,
// Docs, Generator, and Searcher are required; a nil Publisher disables
// event emission and a nil Logger discards logs.
type PipelineConfig struct {
	Embedder  embeddings.Embedder
	Driver    vector.Driver
	Docs      docstore.Store
	Generator llm.Generator
	Searcher  websearch.Searcher
	Publisher eventstream.Publisher
	Gate      Gate
	Logger    *slog.Logger

	// MaxResults caps how many web results a fallback search requests.
	// Zero means the gate's TopK.
	MaxResults int
}

// NewPipeline creates a pipeline from its collaborators.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	switch {
	case cfg.Embedder == nil:
		return nil, errors.New("rag: pipeline requires an embedder")
	case cfg.Driver == nil:
		return nil, errors.New("rag: pipeline requires a vector driver")
	case cfg.Docs == nil:
		return nil, errors.New("rag: pipeline requires a document store")
	case cfg.Generator == nil:
		return nil, errors.New("rag: pipeline requires a generator")
	case cfg.Searcher == nil:
		return nil, errors.New("rag: pipeline requires a web searcher")
	}

	gate := cfg.Gate
	if gate.Threshold == 0 && gate.TopK == 0 {
		gate = NewGate(0, 0)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = gate.TopK
	}

	return &Pipeline{
		embedder:   cfg.Embedder,
		driver:     cfg.Driver,
		docs:       cfg.Docs,
		generator:  cfg.Generator,
		searcher:   cfg.Searcher,
		publisher:  cfg.Publisher,
		gate:       gate,
		maxResults: maxResults,
		logger:     logger,
	}, nil
}

// Ask answers a query, preferring the local corpus and falling back to
// web search when retrieval is empty, irrelevant, or generation fails.
func (p *Pipeline) Ask(ctx context.Context, query string) (*AnswerPacket, error) {
	return p.ask(ctx, query, nil)
}

// AskStream behaves like Ask but delivers local generation tokens to
// onToken as they arrive. Fallback answers arrive as a single token.
func (p *Pipeline) AskStream(ctx context.Context, query string, onToken func(token string)) (*AnswerPacket, error) {
	return p.ask(ctx, query, onToken)
}

func (p *Pipeline) ask(ctx context.Context, query string, onToken func(token string)) (*AnswerPacket, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	packet := &AnswerPacket{
		Query: query,
		State: StateReceived,
	}

	packet.State = StateRetrieving
	candidates, err := p.retrieve(ctx, query, p.gate.TopK)
	if err != nil {
		// The local stack being down is handled the same way as an
		// empty corpus: escalate to web search.
		p.logger.Warn("retrieval failed, escalating to fallback",
			"query", query,
			"error", err)
		candidates = nil
	}

	decision := p.gate.Decide(candidates)
	packet.BestScore = decision.BestScore

	if decision.UseLocal {
		packet.State = StateAnsweringLocal
		answer, err := p.generate(ctx, query, decision.Passages, onToken)
		if err == nil {
			packet.Answer = answer
			packet.Source = SourceLocal
			packet.Snippets = passageSnippets(decision.Passages)
			packet.State = StateDone
			packet.Elapsed = time.Since(start)
			p.publish(ctx, packet)
			return packet, nil
		}

		p.logger.Warn("local generation failed, escalating to fallback",
			"query", query,
			"error", err)
		packet.Escalated = true
	}

	packet.State = StateSearchingFallback
	results, err := p.searcher.Search(ctx, query, p.maxResults)
	if err != nil {
		packet.State = StateFailed
		packet.Elapsed = time.Since(start)
		p.publish(ctx, packet)
		return nil, fmt.Errorf("%w: %v", ErrFallback, err)
	}

	packet.Answer = composeFallbackAnswer(results)
	packet.Source = SourceFallback
	packet.Provider = p.searcher.Name()
	packet.Snippets = webSnippets(results)
	packet.State = StateDone
	packet.Elapsed = time.Since(start)

	if onToken != nil {
		onToken(packet.Answer)
	}

	p.publish(ctx, packet)
	return packet, nil
}

// Search runs retrieval without gating or generation, returning up to
// topK passages with their scores. Used for corpus inspection.
func (p *Pipeline) Search(ctx context.Context, query string, topK int) ([]Passage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = p.gate.TopK
	}

	passages, err := p.retrieve(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return passages, nil
}

// retrieve embeds the query, runs the vector search, and joins the hits
// with their stored chunks. Hits whose chunk has gone missing from the
// document store are dropped.
func (p *Pipeline) retrieve(ctx context.Context, query string, topK int) ([]Passage, error) {
	embedding, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := p.driver.Query(ctx, embedding, topK)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		ids = append(ids, hit.Document.ID)
	}

	chunks, err := p.docs.Get(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching chunks: %w", err)
	}

	byID := make(map[string]docstore.Chunk, len(chunks))
	for _, chunk := range chunks {
		byID[chunk.ID] = chunk
	}

	passages := make([]Passage, 0, len(hits))
	for _, hit := range hits {
		chunk, ok := byID[hit.Document.ID]
		if !ok {
			p.logger.Warn("vector hit has no stored chunk, skipping",
				"id", hit.Document.ID)
			continue
		}
		passages = append(passages, Passage{Chunk: chunk, Score: hit.Score})
	}

	return passages, nil
}

func (p *Pipeline) generate(ctx context.Context, query string, passages []Passage, onToken func(token string)) (string, error) {
	texts := make([]string, 0, len(passages))
	for _, passage := range passages {
		texts = append(texts, passage.Chunk.Text)
	}
	prompt := llm.BuildPrompt(query, texts)

	if onToken != nil {
		if streamer, ok := p.generator.(llm.StreamingGenerator); ok {
			return streamer.GenerateStream(ctx, prompt, onToken)
		}
	}

	answer, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if onToken != nil {
		onToken(answer)
	}
	return answer, nil
}

// publish emits the query-answered event. Publishing is best effort: a
// broker failure is logged, never surfaced to the caller.
func (p *Pipeline) publish(ctx context.Context, packet *AnswerPacket) {
	if p.publisher == nil {
		return
	}

	event := &eventstream.QueryAnsweredEvent{
		SchemaVersion: eventstream.SchemaVersion,
		EventID:       uuid.NewString(),
		EventType:     eventstream.EventTypeQueryAnswered,
		Timestamp:     time.Now().UTC(),
		Query:         packet.Query,
		Source:        packet.Source,
		BestScore:     packet.BestScore,
		Passages:      len(packet.Snippets),
		ElapsedMS:     packet.Elapsed.Milliseconds(),
		Escalated:     packet.Escalated,
		Failed:        packet.State == StateFailed,
	}

	if err := p.publisher.PublishQuery(ctx, event); err != nil {
		p.logger.Warn("publishing query event failed",
			"event_id", event.EventID,
			"error", err)
	}
}

// Close releases every collaborator the pipeline owns.
func (p *Pipeline) Close() error {
	var errs []error
	for _, closer := range []interface{ Close() error }{
		p.embedder, p.driver, p.docs, p.generator, p.searcher,
	} {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func passageSnippets(passages []Passage) []Snippet {
	snippets := make([]Snippet, 0, len(passages))
	for _, passage := range passages {
		snippets = append(snippets, Snippet{
			Text:     passage.Chunk.Text,
			Score:    passage.Score,
			Quality:  Grade(passage.Score),
			Metadata: passage.Chunk.Metadata,
		})
	}
	return snippets
}

func webSnippets(results []websearch.Result) []Snippet {
	snippets := make([]Snippet, 0, len(results))
	for _, result := range results {
		snippets = append(snippets, Snippet{
			Title: result.Title,
			Text:  result.Snippet,
			URL:   result.URL,
		})
	}
	return snippets
}

func composeFallbackAnswer(results []websearch.Result) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.Snippet)
	}
	return strings.Join(parts, "\n\n")
}
