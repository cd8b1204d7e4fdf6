package ragutils_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/config"
	"github.com/openkisan/kisanq/pkg/eventstream/nop"
	"github.com/openkisan/kisanq/pkg/logger"
	ragutils "github.com/openkisan/kisanq/pkg/rag/utils"
	"github.com/openkisan/kisanq/pkg/websearch"
)

var _ = Describe("NewSearcher", func() {
	var cfg *config.Config

	BeforeEach(func() {
		cfg = config.NewDefaultConfig()
	})

	It("refuses the chain provider without an API key", func() {
		cfg.WebSearch.Provider = "chain"
		cfg.WebSearch.APIKey = ""

		_, err := ragutils.NewSearcher(cfg, logger.Nop())
		Expect(err).To(MatchError(websearch.ErrMissingAPIKey))
	})

	It("refuses the serpapi provider without an API key", func() {
		cfg.WebSearch.Provider = "serpapi"
		cfg.WebSearch.APIKey = ""

		_, err := ragutils.NewSearcher(cfg, logger.Nop())
		Expect(err).To(MatchError(websearch.ErrMissingAPIKey))
	})

	It("builds the chain when a key is configured", func() {
		cfg.WebSearch.Provider = "chain"
		cfg.WebSearch.APIKey = "key"

		searcher, err := ragutils.NewSearcher(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(searcher.Name()).To(Equal("serpapi+duckduckgo"))
	})

	It("builds duckduckgo without a key", func() {
		cfg.WebSearch.Provider = "duckduckgo"

		searcher, err := ragutils.NewSearcher(cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(searcher.Name()).To(Equal("duckduckgo"))
	})

	It("rejects unknown providers", func() {
		cfg.WebSearch.Provider = "bing"

		_, err := ragutils.NewSearcher(cfg, logger.Nop())
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewPublisher", func() {
	It("returns a discarding publisher when the stream is disabled", func() {
		cfg := config.NewDefaultConfig()
		cfg.EventStream.Enabled = false

		publisher, err := ragutils.NewPublisher(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(publisher).To(BeAssignableToTypeOf(nop.NewPublisher()))
	})

	It("requires brokers when the stream is enabled", func() {
		cfg := config.NewDefaultConfig()
		cfg.EventStream.Enabled = true
		cfg.EventStream.Brokers = nil

		_, err := ragutils.NewPublisher(cfg)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NewDocStore", func() {
	It("rejects unknown providers", func() {
		cfg := config.NewDefaultConfig()
		cfg.Storage.Provider = "mongo"

		_, err := ragutils.NewDocStore(context.Background(), cfg, logger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("builds the in-memory store", func() {
		cfg := config.NewDefaultConfig()
		cfg.Storage.Provider = "inmemory"

		store, err := ragutils.NewDocStore(context.Background(), cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(store).NotTo(BeNil())
	})
})

var _ = Describe("NewPipeline", func() {
	It("assembles a pipeline from a local sqlite config", func() {
		tmpDir := GinkgoT().TempDir()

		cfg := config.NewDefaultConfig()
		cfg.Storage.SQLitePath = filepath.Join(tmpDir, "docs.db")
		cfg.VectorStore.Path = filepath.Join(tmpDir, "vectors.db")
		cfg.WebSearch.Provider = "duckduckgo"

		pipeline, err := ragutils.NewPipeline(context.Background(), cfg, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		Expect(pipeline.Close()).To(Succeed())
	})

	It("refuses to assemble when fallback is misconfigured", func() {
		tmpDir := GinkgoT().TempDir()

		cfg := config.NewDefaultConfig()
		cfg.Storage.SQLitePath = filepath.Join(tmpDir, "docs.db")
		cfg.VectorStore.Path = filepath.Join(tmpDir, "vectors.db")
		cfg.WebSearch.Provider = "serpapi"
		cfg.WebSearch.APIKey = ""

		_, err := ragutils.NewPipeline(context.Background(), cfg, logger.Nop())
		Expect(err).To(MatchError(websearch.ErrMissingAPIKey))
	})
})
