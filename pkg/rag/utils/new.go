// Package ragutils builds a complete pipeline from configuration.
package ragutils

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/docstore/inmemory"
	"github.com/openkisan/kisanq/pkg/docstore/postgres"
	"github.com/openkisan/kisanq/pkg/docstore/sqlite"
	embeddingutils "github.com/openkisan/kisanq/pkg/embeddings/utils"
	"github.com/openkisan/kisanq/pkg/eventstream"
	eventkafka "github.com/openkisan/kisanq/pkg/eventstream/kafka"
	eventnop "github.com/openkisan/kisanq/pkg/eventstream/nop"
	llmollama "github.com/openkisan/kisanq/pkg/llm/ollama"
	"github.com/openkisan/kisanq/pkg/rag"
	vectorutils "github.com/openkisan/kisanq/pkg/vector/utils"
	"github.com/openkisan/kisanq/pkg/websearch"
	"github.com/openkisan/kisanq/pkg/websearch/duckduckgo"
	"github.com/openkisan/kisanq/pkg/websearch/serpapi"
)

// NewPipeline assembles every pipeline collaborator from cfg.
// Misconfiguration is fatal here: a web search provider that needs a
// credential and does not have one refuses to construct, so the process
// never starts in a state where fallback is guaranteed to fail.
func NewPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*rag.Pipeline, error) {
	docs, err := NewDocStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	driver, err := vectorutils.NewVectorDriver(ctx, &vectorutils.NewVectorDriverOpts{
		ProviderType: cfg.VectorStore.Provider,
		Path:         cfg.VectorStore.Path,
		TargetURL:    cfg.VectorStore.Target,
		Dimensions:   cfg.Embedding.Dimensions,
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
	})
	if err != nil {
		return nil, err
	}

	generator, err := llmollama.NewGenerator(llmollama.GeneratorConfig{
		BaseURL: cfg.Generation.Target,
		Model:   cfg.Generation.Model,
		Timeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	searcher, err := NewSearcher(cfg, logger)
	if err != nil {
		return nil, err
	}

	publisher, err := NewPublisher(cfg)
	if err != nil {
		return nil, err
	}

	return rag.NewPipeline(rag.PipelineConfig{
		Embedder:   embedder,
		Driver:     driver,
		Docs:       docs,
		Generator:  generator,
		Searcher:   searcher,
		Publisher:  publisher,
		Gate:       rag.NewGate(float32(cfg.Retrieval.Threshold), int(cfg.Retrieval.TopK)),
		MaxResults: int(cfg.WebSearch.MaxResults),
		Logger:     logger,
	})
}

// NewDocStore creates the configured document store.
func NewDocStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (docstore.Store, error) {
	switch cfg.Storage.Provider {
	case "sqlite":
		return sqlite.NewStore(sqlite.Config{
			DBPath: cfg.Storage.SQLitePath,
		}, logger)
	case "postgres":
		return postgres.NewStore(ctx, cfg.Storage.PostgresURL, logger)
	case "inmemory":
		return inmemory.NewStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Storage.Provider)
	}
}

// NewSearcher creates the configured fallback web searcher. The "chain"
// provider tries serpapi first and duckduckgo second; both it and the
// standalone "serpapi" provider require websearch.api_key.
func NewSearcher(cfg *config.Config, logger *slog.Logger) (websearch.Searcher, error) {
	timeout := time.Duration(cfg.WebSearch.TimeoutSeconds) * time.Second

	switch cfg.WebSearch.Provider {
	case "serpapi":
		return serpapi.NewSearcher(serpapi.SearcherConfig{
			APIKey:  cfg.WebSearch.APIKey,
			Timeout: timeout,
		})

	case "duckduckgo":
		return duckduckgo.NewSearcher(duckduckgo.SearcherConfig{
			Timeout: timeout,
		})

	case "chain":
		serp, err := serpapi.NewSearcher(serpapi.SearcherConfig{
			APIKey:  cfg.WebSearch.APIKey,
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}

		ddg, err := duckduckgo.NewSearcher(duckduckgo.SearcherConfig{
			Timeout: timeout,
		})
		if err != nil {
			return nil, err
		}

		return websearch.NewChain(logger, serp, ddg)

	default:
		return nil, fmt.Errorf("unsupported websearch provider: %s", cfg.WebSearch.Provider)
	}
}

// NewPublisher creates the configured event publisher. A disabled event
// stream gets a discarding publisher so the pipeline never branches on it.
func NewPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if !cfg.EventStream.Enabled {
		return eventnop.NewPublisher(), nil
	}

	return eventkafka.NewPublisher(eventkafka.PublisherConfig{
		Brokers: cfg.EventStream.Brokers,
		Topic:   cfg.EventStream.Topic,
	})
}
