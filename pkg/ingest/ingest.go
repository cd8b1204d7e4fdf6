package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/embeddings"
	"github.com/openkisan/kisanq/pkg/vector"
)

// defaultBatchSize bounds how many chunks are embedded and written to
// the vector store per batch during indexing.
const defaultBatchSize = 64

// Ingestor loads advisory records into the document store.
type Ingestor struct {
	docs   docstore.Store
	logger *slog.Logger
}

// NewIngestor creates an ingestor over the given store.
func NewIngestor(docs docstore.Store, logger *slog.Logger) *Ingestor {
	return &Ingestor{docs: docs, logger: logger}
}

// IngestCSV parses r and stores every valid record.
func (i *Ingestor) IngestCSV(ctx context.Context, r io.Reader) (ParseStats, error) {
	chunks, stats, err := ParseCSV(r)
	if err != nil {
		return stats, err
	}

	if len(chunks) > 0 {
		if err := i.docs.Put(ctx, chunks); err != nil {
			return stats, fmt.Errorf("ingest: storing chunks: %w", err)
		}
	}

	i.logger.Info("ingested advisory records",
		"rows", stats.Rows,
		"stored", len(chunks),
		"skipped", stats.Skipped)

	return stats, nil
}

// Indexer embeds stored chunks and writes them to the vector store.
type Indexer struct {
	docs      docstore.Store
	embedder  embeddings.Embedder
	driver    vector.Driver
	batchSize int
	logger    *slog.Logger
}

// NewIndexer creates an indexer over the given collaborators.
func NewIndexer(docs docstore.Store, embedder embeddings.Embedder, driver vector.Driver, logger *slog.Logger) *Indexer {
	return &Indexer{
		docs:      docs,
		embedder:  embedder,
		driver:    driver,
		batchSize: defaultBatchSize,
		logger:    logger,
	}
}

// IndexStats summarizes an index build.
type IndexStats struct {
	// Chunks is the number of chunks read from the document store.
	Chunks int

	// Indexed is the number of embeddings written to the vector store.
	Indexed int
}

// BuildIndex embeds every stored chunk and writes the embeddings to the
// vector store in batches. Re-running it re-embeds existing IDs in
// place, so the index converges on the store's current contents.
func (ix *Indexer) BuildIndex(ctx context.Context) (IndexStats, error) {
	var stats IndexStats

	chunks, err := ix.docs.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("ingest: listing chunks: %w", err)
	}
	stats.Chunks = len(chunks)

	batch := make([]vector.Document, 0, ix.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ix.driver.Add(ctx, batch); err != nil {
			return fmt.Errorf("ingest: writing embeddings: %w", err)
		}
		stats.Indexed += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, chunk := range chunks {
		embedding, err := ix.embedder.Embed(ctx, chunk.Text)
		if err != nil {
			return stats, fmt.Errorf("ingest: embedding chunk %s: %w", chunk.ID, err)
		}

		batch = append(batch, vector.Document{
			ID:        chunk.ID,
			Embedding: embedding,
		})

		if len(batch) == ix.batchSize {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	ix.logger.Info("built vector index",
		"chunks", stats.Chunks,
		"indexed", stats.Indexed)

	return stats, nil
}
