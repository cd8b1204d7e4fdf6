package websearch_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openkisan/kisanq/pkg/logger"
	"github.com/openkisan/kisanq/pkg/websearch"
)

type stubSearcher struct {
	name    string
	results []websearch.Result
	err     error
	calls   int
	closed  bool
}

func (s *stubSearcher) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func (s *stubSearcher) Name() string { return s.name }

func (s *stubSearcher) Close() error {
	s.closed = true
	return nil
}

var _ = Describe("Chain", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("requires at least one searcher", func() {
		_, err := websearch.NewChain(logger.Nop())
		Expect(err).To(HaveOccurred())
	})

	It("returns results from the first tier when it succeeds", func() {
		first := &stubSearcher{name: "first", results: []websearch.Result{{Snippet: "from first"}}}
		second := &stubSearcher{name: "second", results: []websearch.Result{{Snippet: "from second"}}}

		chain, err := websearch.NewChain(logger.Nop(), first, second)
		Expect(err).NotTo(HaveOccurred())

		results, err := chain.Search(ctx, "q", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Snippet).To(Equal("from first"))
		Expect(second.calls).To(BeZero())
	})

	It("falls through to the next tier when the first fails", func() {
		first := &stubSearcher{name: "first", err: websearch.ErrNoResults}
		second := &stubSearcher{name: "second", results: []websearch.Result{{Snippet: "from second"}}}

		chain, err := websearch.NewChain(logger.Nop(), first, second)
		Expect(err).NotTo(HaveOccurred())

		results, err := chain.Search(ctx, "q", 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(results[0].Snippet).To(Equal("from second"))
		Expect(first.calls).To(Equal(1))
	})

	It("fails with ErrUnavailable when every tier fails", func() {
		first := &stubSearcher{name: "first", err: errors.New("boom")}
		second := &stubSearcher{name: "second", err: websearch.ErrNoResults}

		chain, err := websearch.NewChain(logger.Nop(), first, second)
		Expect(err).NotTo(HaveOccurred())

		_, err = chain.Search(ctx, "q", 3)
		Expect(err).To(MatchError(websearch.ErrUnavailable))
		Expect(err.Error()).To(ContainSubstring("first"))
		Expect(err.Error()).To(ContainSubstring("second"))
	})

	It("joins tier names", func() {
		chain, err := websearch.NewChain(logger.Nop(),
			&stubSearcher{name: "serpapi"},
			&stubSearcher{name: "duckduckgo"})
		Expect(err).NotTo(HaveOccurred())
		Expect(chain.Name()).To(Equal("serpapi+duckduckgo"))
	})

	It("closes every tier", func() {
		first := &stubSearcher{name: "first"}
		second := &stubSearcher{name: "second"}

		chain, err := websearch.NewChain(logger.Nop(), first, second)
		Expect(err).NotTo(HaveOccurred())
		Expect(chain.Close()).To(Succeed())
		Expect(first.closed).To(BeTrue())
		Expect(second.closed).To(BeTrue())
	})
})
