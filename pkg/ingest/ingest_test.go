package ingest_test

import (
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/docstore"
	"github.com/openkisan/kisanq/pkg/docstore/inmemory"
	"github.com/openkisan/kisanq/pkg/ingest"
	"github.com/openkisan/kisanq/pkg/logger"
	testutils "github.com/openkisan/kisanq/pkg/utils/test"
)

var _ = Describe("Ingestor", func() {
	var (
		ctx  context.Context
		docs docstore.Store
	)

	BeforeEach(func() {
		ctx = context.Background()
		docs = inmemory.NewStore()
	})

	It("stores every valid record", func() {
		ingestor := ingest.NewIngestor(docs, logger.Nop())

		stats, err := ingestor.IngestCSV(ctx, strings.NewReader(sampleCSV))
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Rows).To(Equal(5))

		count, err := docs.Count(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(3))
	})

	It("propagates parse failures", func() {
		ingestor := ingest.NewIngestor(docs, logger.Nop())

		_, err := ingestor.IngestCSV(ctx, strings.NewReader("no,useful,columns\n1,2,3\n"))
		Expect(err).To(MatchError(ingest.ErrMissingColumns))
	})
})

var _ = Describe("Indexer", func() {
	var (
		ctx      context.Context
		docs     docstore.Store
		embedder *testutils.MockEmbedder
		driver   *testutils.MockVectorDriver
	)

	BeforeEach(func() {
		ctx = context.Background()
		docs = inmemory.NewStore()
		embedder = testutils.NewMockEmbedder()
		driver = testutils.NewMockVectorDriver()
	})

	seed := func(n int) {
		chunks := make([]docstore.Chunk, 0, n)
		for i := 0; i < n; i++ {
			chunks = append(chunks, docstore.Chunk{
				ID:   fmt.Sprintf("chunk-%d", i),
				Text: fmt.Sprintf("text %d", i),
			})
		}
		Expect(docs.Put(ctx, chunks)).To(Succeed())
	}

	It("embeds and indexes every stored chunk", func() {
		seed(5)
		indexer := ingest.NewIndexer(docs, embedder, driver, logger.Nop())

		stats, err := indexer.BuildIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Chunks).To(Equal(5))
		Expect(stats.Indexed).To(Equal(5))
		Expect(embedder.Calls).To(Equal(5))
		Expect(driver.Documents).To(HaveLen(5))
		Expect(driver.Documents[0].ID).To(Equal("chunk-0"))
	})

	It("writes in batches", func() {
		seed(130)
		indexer := ingest.NewIndexer(docs, embedder, driver, logger.Nop())

		stats, err := indexer.BuildIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Indexed).To(Equal(130))
		Expect(driver.Batches).To(Equal(3))
	})

	It("handles an empty store", func() {
		indexer := ingest.NewIndexer(docs, embedder, driver, logger.Nop())

		stats, err := indexer.BuildIndex(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Chunks).To(BeZero())
		Expect(driver.Batches).To(BeZero())
	})

	It("stops on embedding failures", func() {
		seed(3)
		embedder.FailOn = "text 0"
		indexer := ingest.NewIndexer(docs, embedder, driver, logger.Nop())

		_, err := indexer.BuildIndex(ctx)
		Expect(err).To(HaveOccurred())
		Expect(driver.Documents).To(BeEmpty())
	})
})
